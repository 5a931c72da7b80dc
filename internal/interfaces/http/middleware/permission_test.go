package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func adminRouter(claims *auth.Claims, loader AdminLoader, perm admin.Permission) *gin.Engine {
	r := gin.New()
	r.Use(withClaims(claims), RequireAdmin(AdminGuardConfig{Admins: loader}))
	r.GET("/admin/thing", RequirePermission(perm), func(c *gin.Context) {
		c.String(http.StatusOK, GetAdmin(c).Email)
	})
	return r
}

func serveAdmin(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/thing", nil))
	return w
}

func newAdmin(role admin.Role, active bool) *admin.User {
	u := &admin.User{Email: "ops@luminform.example", Role: role, IsActive: active}
	u.ID = uuid.New()
	return u
}

func TestRequireAdmin_Allowed(t *testing.T) {
	user := newAdmin(admin.RoleSupport, true)
	loader := new(MockAdminLoader)
	loader.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	w := serveAdmin(adminRouter(adminClaims(user.ID), loader, admin.PermOrdersRead))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.Email, w.Body.String())
}

func TestRequirePermission_Missing(t *testing.T) {
	user := newAdmin(admin.RoleSupport, true)
	loader := new(MockAdminLoader)
	loader.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	w := serveAdmin(adminRouter(adminClaims(user.ID), loader, admin.PermOrdersWrite))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ERR_FORBIDDEN", decodeError(t, w).Code)
}

func TestRequireAdmin_Rejections(t *testing.T) {
	inactive := newAdmin(admin.RoleSuperAdmin, false)
	ghostID := uuid.New()
	brokenID := uuid.New()

	loader := new(MockAdminLoader)
	loader.On("FindByID", mock.Anything, inactive.ID).Return(inactive, nil)
	loader.On("FindByID", mock.Anything, ghostID).Return(nil, shared.ErrNotFound)
	loader.On("FindByID", mock.Anything, brokenID).Return(nil, errors.New("connection reset"))

	tests := []struct {
		name   string
		claims *auth.Claims
		status int
	}{
		{"no session", nil, http.StatusUnauthorized},
		{"partner session", partnerClaims(), http.StatusForbidden},
		{"unknown admin", adminClaims(ghostID), http.StatusUnauthorized},
		{"inactive admin", adminClaims(inactive.ID), http.StatusForbidden},
		{"store failure", adminClaims(brokenID), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAdmin(adminRouter(tt.claims, loader, admin.PermAuditRead))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireAdmin_OnDenied(t *testing.T) {
	r := gin.New()
	r.Use(withClaims(nil), RequireAdmin(AdminGuardConfig{
		Admins: new(MockAdminLoader),
		OnDenied: func(c *gin.Context, status int) {
			c.Redirect(http.StatusSeeOther, "/admin/login")
		},
	}))
	r.GET("/admin/thing", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serveAdmin(r)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}
