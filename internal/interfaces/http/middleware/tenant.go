package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
)

// Partner context keys
const (
	PartnerIDKey = "session_partner_id"
	UserIDKey    = "session_user_id"
)

// RequirePartner admits partner user sessions only and stores the partner
// and user ids. Every partner route scopes its queries with PartnerIDKey.
func RequirePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.SubjectType != auth.SubjectPartnerUser {
			abortWith(c, http.StatusForbidden, dto.ErrCodeForbidden, "Partner session required")
			return
		}
		partnerID, err := claims.PartnerUUID()
		if err != nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid session")
			return
		}
		userID, err := claims.UserUUID()
		if err != nil {
			abortWith(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid session")
			return
		}

		c.Set(PartnerIDKey, partnerID)
		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// GetPartnerID returns the partner of the current session
func GetPartnerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(PartnerIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserID returns the partner user of the current session
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}
