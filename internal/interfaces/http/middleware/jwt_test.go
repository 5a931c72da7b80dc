package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func sessionRouter(authn Authenticator, optional bool) *gin.Engine {
	cfg := SessionConfig{Auth: authn, CookieName: "atelier_session"}
	r := gin.New()
	if optional {
		r.Use(OptionalSession(cfg))
	} else {
		r.Use(Session(cfg))
	}
	r.GET("/me", func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.UserID+"|"+logger.GetPartnerID(c.Request.Context()))
	})
	return r
}

func TestSession_BearerToken(t *testing.T) {
	authn := new(MockAuthenticator)
	claims := partnerClaims()
	authn.On("Authenticate", mock.Anything, "good-token").Return(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	sessionRouter(authn, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, claims.UserID+"|"+claims.TenantID, w.Body.String())
}

func TestSession_Cookie(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "cookie-token").Return(partnerClaims(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "atelier_session", Value: "cookie-token"})
	sessionRouter(authn, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	authn.AssertExpectations(t)
}

func TestSession_HeaderWinsOverCookie(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "header-token").Return(partnerClaims(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: "atelier_session", Value: "cookie-token"})
	sessionRouter(authn, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	authn.AssertNotCalled(t, "Authenticate", mock.Anything, "cookie-token")
}

func TestSession_Missing(t *testing.T) {
	authn := new(MockAuthenticator)

	w := httptest.NewRecorder()
	sessionRouter(authn, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ERR_UNAUTHORIZED", decodeError(t, w).Code)
	authn.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestSession_NonBearerHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	sessionRouter(new(MockAuthenticator), false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_NonBearerHeaderFallsBackToCookie(t *testing.T) {
	authn := new(MockAuthenticator)
	claims := partnerClaims()
	authn.On("Authenticate", mock.Anything, "cookie-token").Return(claims, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: "atelier_session", Value: "cookie-token"})
	sessionRouter(authn, false).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, claims.UserID+"|"+claims.TenantID, w.Body.String())
	authn.AssertExpectations(t)
}

func TestSession_ExpiredToken(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "old").
		Return(nil, shared.NewDomainError("TOKEN_EXPIRED", "Session expired"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer old")
	sessionRouter(authn, false).ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	info := decodeError(t, w)
	assert.Equal(t, "ERR_TOKEN_EXPIRED", info.Code)
	assert.Equal(t, "Session expired", info.Message)
}

func TestSession_OnError(t *testing.T) {
	r := gin.New()
	r.Use(Session(SessionConfig{
		Auth: new(MockAuthenticator),
		OnError: func(c *gin.Context, _ error) {
			c.Redirect(http.StatusSeeOther, "/login")
		},
	}))
	r.GET("/dashboard", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestOptionalSession(t *testing.T) {
	authn := new(MockAuthenticator)
	authn.On("Authenticate", mock.Anything, "bad").Return(nil, shared.ErrUnauthorized)

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		sessionRouter(authn, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer bad")
		sessionRouter(authn, true).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})
}
