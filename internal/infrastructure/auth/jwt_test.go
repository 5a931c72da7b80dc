package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "atelier-test",
		MaxRefreshCount:        3,
	})
}

func partnerSubject() Subject {
	return Subject{
		PartnerID: uuid.New(),
		UserID:    uuid.New(),
		Type:      SubjectPartnerUser,
		Role:      "owner",
	}
}

func adminSubject() Subject {
	return Subject{
		UserID:      uuid.New(),
		Type:        SubjectAdmin,
		Role:        "support",
		Permissions: []string{"partners:read", "orders:read"},
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestIssue(t *testing.T) {
	svc := newTestJWTService()

	t.Run("partner tokens carry the tenant", func(t *testing.T) {
		subject := partnerSubject()
		pair, err := svc.Issue(subject)
		require.NoError(t, err)
		assert.Equal(t, "Bearer", pair.TokenType)
		assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, subject.PartnerID.String(), claims.TenantID)
		assert.Equal(t, subject.UserID.String(), claims.UserID)
		assert.Equal(t, SubjectPartnerUser, claims.SubjectType)
		assert.False(t, claims.IsAdmin())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("admin tokens have no tenant", func(t *testing.T) {
		pair, err := svc.Issue(adminSubject())
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Empty(t, claims.TenantID)
		assert.True(t, claims.IsAdmin())
		assert.True(t, claims.HasPermission("orders:read"))
		assert.False(t, claims.HasPermission("orders:write"))
	})

	t.Run("partner subject without partner is rejected", func(t *testing.T) {
		subject := partnerSubject()
		subject.PartnerID = uuid.Nil
		_, err := svc.Issue(subject)
		assert.ErrorIs(t, err, ErrMissingTenantID)
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		_, err := svc.Issue(Subject{Type: SubjectAdmin})
		assert.ErrorIs(t, err, ErrMissingUserID)
	})
}

func TestValidate(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.Issue(partnerSubject())
	require.NoError(t, err)

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.ValidateRefreshToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(time.Hour) }
		defer func() { svc.now = time.Now }()

		_, err := svc.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			Issuer:                "someone-else",
			AccessTokenExpiration: time.Minute,
		})
		_, err := other.ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned token", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "atelier-test"},
			UserID:           uuid.NewString(),
			SubjectType:      SubjectAdmin,
			TokenType:        TokenTypeAccess,
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown subject type", func(t *testing.T) {
		claims := &Claims{
			RegisteredClaims: svc.registered(uuid.New(), time.Now(), time.Minute),
			UserID:           uuid.NewString(),
			SubjectType:      "robot",
			TokenType:        TokenTypeAccess,
		}
		raw, err := sign(claims, svc.accessSecret)
		require.NoError(t, err)
		_, err = svc.ValidateAccessToken(raw)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestRefresh(t *testing.T) {
	svc := newTestJWTService()
	subject := partnerSubject()
	pair, err := svc.Issue(subject)
	require.NoError(t, err)

	next, old, err := svc.Refresh(pair.RefreshToken, "member", nil)
	require.NoError(t, err)
	assert.Equal(t, subject.UserID.String(), old.UserID)

	claims, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, subject.PartnerID.String(), claims.TenantID)
	assert.Equal(t, "member", claims.Role)

	refreshClaims, err := svc.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)

	t.Run("refresh count is capped", func(t *testing.T) {
		token := pair.RefreshToken
		for i := 0; i < 3; i++ {
			p, _, err := svc.Refresh(token, "owner", nil)
			require.NoError(t, err)
			token = p.RefreshToken
		}
		_, _, err := svc.Refresh(token, "owner", nil)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})
}

func TestClaimsHelpers(t *testing.T) {
	c := &Claims{}
	assert.Zero(t, c.RemainingTTL())
	assert.True(t, c.IssuedAtTime().IsZero())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	assert.Zero(t, c.RemainingTTL())

	c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	assert.Greater(t, c.RemainingTTL(), 59*time.Minute)

	_, err := c.PartnerUUID()
	assert.Error(t, err)
}

func TestIssue_IssuedAtKeepsMilliseconds(t *testing.T) {
	svc := newTestJWTService()
	issued := time.Date(2026, 6, 1, 12, 0, 0, 750*int(time.Millisecond), time.UTC)
	svc.now = func() time.Time { return issued }

	pair, err := svc.Issue(partnerSubject())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(time.Minute) }
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, issued.Equal(claims.IssuedAtTime()))
	assert.Equal(t, issued.Truncate(time.Second).Unix(), claims.IssuedAt.Unix())

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, issued.Equal(refresh.IssuedAtTime()))
}

func TestClaimsIssuedAtTime_FallsBackToSeconds(t *testing.T) {
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(at)}}
	assert.True(t, at.Equal(c.IssuedAtTime()))
}
