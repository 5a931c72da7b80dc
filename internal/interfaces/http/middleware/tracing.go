// Package middleware provides HTTP middleware for the partner API, the
// admin back-office and server-rendered pages.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are not traced (health probes, swagger assets).
	SkipPaths []string
}

// Tracing wraps otelgin. Spans are named after the route pattern and 5xx
// responses are marked as errors.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			_, skipped := skip[r.URL.Path]
			return !skipped
		}),
	)
}

// SpanEnricher adds request, partner and user ids to the current span and
// marks error responses. It runs after session middleware on a group.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}

		c.Next()

		if !span.IsRecording() {
			return
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetAttributes(attribute.Int("http.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		}
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if id := c.GetString(logger.GinPartnerIDKey); id != "" {
		span.SetAttributes(attribute.String("partner_id", id))
	}
	if id := c.GetString(logger.GinUserIDKey); id != "" {
		span.SetAttributes(attribute.String("user_id", id))
	}
	if claims := GetClaims(c); claims != nil {
		span.SetAttributes(attribute.String("subject_type", string(claims.SubjectType)))
	}
}
