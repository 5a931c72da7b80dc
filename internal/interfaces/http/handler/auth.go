package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/application/identity"
	"github.com/luminform/atelier/internal/interfaces/http/middleware"
)

// AuthHandler handles partner and admin session endpoints
type AuthHandler struct {
	BaseHandler
	authService   *identity.AuthService
	partnerCookie middleware.SessionCookie
	adminCookie   middleware.SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, partnerCookie, adminCookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		partnerCookie: partnerCookie,
		adminCookie:   adminCookie,
	}
}

// Login godoc
// @Summary      Partner login
// @Description  Sign a partner user in with email and password. Also sets the session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.PartnerLogin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.partnerCookie.Set(c, result.AccessToken, result.AccessTokenExpiresAt)
	h.Success(c, result)
}

// Refresh godoc
// @Summary      Refresh session
// @Description  Exchange a refresh token for a new token pair. The old refresh token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[identity.RefreshResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Partner logout
// @Description  Revoke the current access token and, when sent, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.logout(c, h.partnerCookie)
}

// AdminLogout godoc
// @Summary      Admin logout
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/auth/logout [post]
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	h.logout(c, h.adminCookie)
}

func (h *AuthHandler) logout(c *gin.Context, cookie middleware.SessionCookie) {
	var req identity.LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	cookie.Clear(c)
	h.Success(c, MessageData{Message: "Logged out"})
}

// Me godoc
// @Summary      Current partner user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.SessionUser]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	partnerID, userID, ok := h.partnerSession(c)
	if !ok {
		return
	}
	user, err := h.authService.PartnerMe(c.Request.Context(), partnerID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// AdminLogin godoc
// @Summary      Admin login
// @Description  Sign an admin in. Successful sign-ins are written to the audit log.
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /admin/auth/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.AdminLogin(c.Request.Context(), req, requestInfo(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.adminCookie.Set(c, result.AccessToken, result.AccessTokenExpiresAt)
	h.Success(c, result)
}

// AdminMe godoc
// @Summary      Current admin
// @Tags         admin-auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.SessionUser]
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/auth/me [get]
func (h *AuthHandler) AdminMe(c *gin.Context) {
	current, ok := h.currentAdmin(c)
	if !ok {
		return
	}
	user, err := h.authService.AdminMe(c.Request.Context(), current.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
