package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
)

// SwaggerConfig controls who may read the API documentation
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	// AllowedIPs takes addresses and CIDR ranges. Empty means any client.
	AllowedIPs []string
}

// SwaggerProtection answers 404 while the docs are disabled and 403 to
// clients outside AllowedIPs. RequireAuth is applied by the caller, which
// chains the admin session guard after this handler.
func SwaggerProtection(cfg SwaggerConfig) gin.HandlerFunc {
	allow := parseAllowList(cfg.AllowedIPs)
	restricted := len(cfg.AllowedIPs) > 0

	return func(c *gin.Context) {
		switch {
		case !cfg.Enabled:
			abortWith(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
		case restricted && !allow.contains(c.ClientIP()):
			abortWith(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
		default:
			c.Next()
		}
	}
}

type allowList []netip.Prefix

// parseAllowList turns each entry into a prefix; bare addresses become
// single-host prefixes and malformed entries are skipped.
func parseAllowList(entries []string) allowList {
	list := make(allowList, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if p, err := netip.ParsePrefix(entry); err == nil {
				list = append(list, p.Masked())
			}
			continue
		}
		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			list = append(list, netip.PrefixFrom(addr, addr.BitLen()))
		}
	}
	return list
}

func (l allowList) contains(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
