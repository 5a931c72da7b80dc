package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Session context keys
const (
	ClaimsKey     = "session_claims"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator validates an access token and checks it has not been revoked
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	// Auth is required for token validation
	Auth Authenticator
	// CookieName is read when no Authorization header is sent
	CookieName string
	// OnError replaces the default 401 JSON response, e.g. with a redirect
	OnError func(c *gin.Context, err error)
	// Logger for middleware logging
	Logger *zap.Logger
}

// Session requires a valid access token from the Authorization header or
// the session cookie and stores its claims on the context
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cfg.CookieName)
		if token == "" {
			handleAuthError(c, cfg, errMissingToken)
			return
		}

		claims, err := cfg.Auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			handleAuthError(c, cfg, err)
			return
		}

		setClaims(c, claims)
		if cfg.Logger != nil {
			cfg.Logger.Debug("Session authenticated",
				zap.String("user_id", claims.UserID),
				zap.String("partner_id", claims.TenantID),
				zap.String("subject_type", string(claims.SubjectType)),
			)
		}
		c.Next()
	}
}

// OptionalSession stores claims when a valid token is present and never aborts
func OptionalSession(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractToken(c, cfg.CookieName); token != "" {
			if claims, err := cfg.Auth.Authenticate(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

var errMissingToken = shared.NewDomainError("UNAUTHORIZED", "Authentication required")

func extractToken(c *gin.Context, cookieName string) string {
	// A non-Bearer Authorization header (proxy Basic auth) leaves the cookie in play.
	if header := c.GetHeader(AuthHeaderKey); strings.HasPrefix(header, BearerPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)); token != "" {
			return token
		}
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(logger.GinPartnerIDKey, claims.TenantID)
	c.Set(logger.GinUserIDKey, claims.UserID)

	ctx := logger.WithSubject(c.Request.Context(), claims.TenantID, claims.UserID, string(claims.SubjectType))
	c.Request = c.Request.WithContext(ctx)
}

// handleAuthError answers 401 with the code of the failure
func handleAuthError(c *gin.Context, cfg SessionConfig, err error) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		c.Abort()
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Session authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
	}

	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	var de *shared.DomainError
	if errors.As(err, &de) {
		code, message = dto.NormalizeErrorCode(de.Code), de.Message
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}

// GetClaims retrieves the session claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(ClaimsKey); exists {
		if sc, ok := claims.(*auth.Claims); ok {
			return sc
		}
	}
	return nil
}
