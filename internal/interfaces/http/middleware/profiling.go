package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
	"github.com/luminform/atelier/internal/infrastructure/logger"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips probes and swagger assets
func DefaultProfilingConfig(enabled bool) ProfilingConfig {
	return ProfilingConfig{
		Enabled:          enabled,
		SkipPaths:        []string{"/health", "/ready"},
		SkipPathPrefixes: []string{"/swagger", "/static"},
	}
}

// Profiling tags CPU samples taken while serving a request with the route
// pattern, method, area and partner, so Pyroscope can slice by them.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, p := range cfg.SkipPaths {
			if path == p {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels returns key/value pairs; only low cardinality values
func profilingLabels(c *gin.Context) []string {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	labels := []string{
		"method", c.Request.Method,
		"route", route,
		"area", routeArea(route),
	}
	if partnerID := c.GetString(logger.GinPartnerIDKey); partnerID != "" {
		labels = append(labels, "partner_id", partnerID)
	}
	return labels
}

// routeArea groups routes for profiling: "/api/v1/admin/orders" -> "admin"
func routeArea(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/v1/admin"), strings.HasPrefix(route, "/admin"):
		return "admin"
	case strings.HasPrefix(route, "/api/"):
		return "api"
	case strings.HasPrefix(route, "/m/"):
		return "microsite"
	default:
		return "pages"
	}
}
