package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// AdminKey stores the loaded admin user on gin.Context
const AdminKey = "session_admin"

// AdminLoader loads admin users by id
type AdminLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*admin.User, error)
}

// AdminGuardConfig holds configuration for the admin guard
type AdminGuardConfig struct {
	Admins AdminLoader
	// OnDenied replaces the default JSON response (pages render or redirect)
	OnDenied func(c *gin.Context, status int)
	Logger   *zap.Logger
}

// RequireAdmin resolves the admin behind the session. A missing admin is
// 401, an inactive admin 403. Permissions are checked per route with
// RequirePermission.
func RequireAdmin(cfg AdminGuardConfig) gin.HandlerFunc {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	deny := func(c *gin.Context, status int, code, message string) {
		if cfg.OnDenied != nil {
			cfg.OnDenied(c, status)
			c.Abort()
			return
		}
		abortWith(c, status, code, message)
	}

	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			deny(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.SubjectType != auth.SubjectAdmin {
			deny(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin session required")
			return
		}
		adminID, err := claims.UserUUID()
		if err != nil {
			deny(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid session")
			return
		}

		user, err := cfg.Admins.FindByID(c.Request.Context(), adminID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				deny(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
				return
			}
			logger.Error("Failed to load admin", zap.String("admin_id", adminID.String()), zap.Error(err))
			deny(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
			return
		}
		if !user.IsActive {
			logger.Warn("Inactive admin rejected", zap.String("admin_id", adminID.String()))
			deny(c, http.StatusForbidden, dto.ErrCodeForbidden, "Admin account is inactive")
			return
		}

		c.Set(AdminKey, user)
		c.Next()
	}
}

// RequirePermission rejects admins whose role lacks permission. It must run
// after RequireAdmin.
func RequirePermission(permission admin.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetAdmin(c)
		if user == nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !user.Can(permission) {
			abortWith(c, http.StatusForbidden, dto.ErrCodeForbidden, "Missing permission "+string(permission))
			return
		}
		c.Next()
	}
}

// GetAdmin returns the admin loaded by RequireAdmin
func GetAdmin(c *gin.Context) *admin.User {
	if v, ok := c.Get(AdminKey); ok {
		if u, ok := v.(*admin.User); ok {
			return u
		}
	}
	return nil
}
