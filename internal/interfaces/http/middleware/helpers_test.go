package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/interfaces/http/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// MockAdminLoader is a mock implementation of AdminLoader
type MockAdminLoader struct {
	mock.Mock
}

func (m *MockAdminLoader) FindByID(ctx context.Context, id uuid.UUID) (*admin.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.User), args.Error(1)
}

func partnerClaims() *auth.Claims {
	return &auth.Claims{
		TenantID:    uuid.NewString(),
		UserID:      uuid.NewString(),
		SubjectType: auth.SubjectPartnerUser,
		Role:        "owner",
		TokenType:   auth.TokenTypeAccess,
	}
}

func adminClaims(id uuid.UUID) *auth.Claims {
	return &auth.Claims{
		UserID:      id.String(),
		SubjectType: auth.SubjectAdmin,
		Role:        string(admin.RoleSupport),
		TokenType:   auth.TokenTypeAccess,
	}
}

// withClaims seeds claims as the session middleware would
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}
