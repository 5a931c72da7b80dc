package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/infrastructure/config"
)

// SessionCookie writes and clears the HttpOnly cookie that carries an
// access token for browser sessions
type SessionCookie struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// NewSessionCookie builds the cookie settings for name from config
func NewSessionCookie(name string, cfg config.CookieConfig) SessionCookie {
	path := cfg.Path
	if path == "" {
		path = "/"
	}
	return SessionCookie{
		Name:     name,
		Domain:   cfg.Domain,
		Path:     path,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Set stores token until expiresAt
func (sc SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    token,
		Path:     sc.Path,
		Domain:   sc.Domain,
		MaxAge:   maxAge,
		Expires:  expiresAt,
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}

// Clear expires the cookie
func (sc SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.Name,
		Value:    "",
		Path:     sc.Path,
		Domain:   sc.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   sc.Secure,
		HttpOnly: true,
		SameSite: sc.SameSite,
	})
}
