package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// SubjectType tells partner sessions and admin sessions apart
type SubjectType string

const (
	SubjectPartnerUser SubjectType = "partner_user"
	SubjectAdmin       SubjectType = "admin"
)

// Common errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingTenantID    = errors.New("missing tenant_id in claims")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Claims are the session claims. TenantID is the partner id and stays empty
// for admin sessions.
type Claims struct {
	jwt.RegisteredClaims
	TenantID     string      `json:"tenant_id"`
	UserID       string      `json:"user_id"`
	SubjectType  SubjectType `json:"subject_type"`
	Role         string      `json:"role"`
	Permissions  []string    `json:"permissions,omitempty"`
	TokenType    TokenType   `json:"token_type"`
	RefreshCount int         `json:"refresh_count,omitempty"`
	// IssuedAtMs carries the issue instant in milliseconds; iat is whole seconds.
	IssuedAtMs   int64       `json:"iat_ms,omitempty"`
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// Subject is who a token pair is issued to
type Subject struct {
	PartnerID   uuid.UUID // uuid.Nil for admins
	UserID      uuid.UUID
	Type        SubjectType
	Role        string
	Permissions []string
}

// JWTService issues and validates HS256 session tokens
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	maxRefreshCount   int
	now               func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if cfg.RefreshSecret == "" {
		refreshSecret = []byte(cfg.Secret)
	}

	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     refreshSecret,
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		maxRefreshCount:   cfg.MaxRefreshCount,
		now:               time.Now,
	}
}

// Issue generates a fresh access and refresh token pair for subject
func (s *JWTService) Issue(subject Subject) (*TokenPair, error) {
	if subject.UserID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	if subject.Type == SubjectPartnerUser && subject.PartnerID == uuid.Nil {
		return nil, ErrMissingTenantID
	}
	return s.issue(subject, 0)
}

func (s *JWTService) issue(subject Subject, refreshCount int) (*TokenPair, error) {
	now := s.now()
	tenantID := ""
	if subject.PartnerID != uuid.Nil {
		tenantID = subject.PartnerID.String()
	}

	access := &Claims{
		RegisteredClaims: s.registered(subject.UserID, now, s.accessExpiration),
		TenantID:         tenantID,
		UserID:           subject.UserID.String(),
		SubjectType:      subject.Type,
		Role:             subject.Role,
		Permissions:      subject.Permissions,
		TokenType:        TokenTypeAccess,
		IssuedAtMs:       now.UnixMilli(),
	}
	accessToken, err := sign(access, s.accessSecret)
	if err != nil {
		return nil, err
	}

	// Refresh tokens carry no permissions; they are re-resolved on refresh.
	refresh := &Claims{
		RegisteredClaims: s.registered(subject.UserID, now, s.refreshExpiration),
		TenantID:         tenantID,
		UserID:           subject.UserID.String(),
		SubjectType:      subject.Type,
		Role:             subject.Role,
		TokenType:        TokenTypeRefresh,
		RefreshCount:     refreshCount,
		IssuedAtMs:       now.UnixMilli(),
	}
	refreshToken, err := sign(refresh, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) registered(userID uuid.UUID, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Issuer:    s.issuer,
		Subject:   userID.String(),
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func sign(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) validate(tokenString string, secret []byte, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expected {
		return nil, ErrInvalidTokenType
	}
	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	switch claims.SubjectType {
	case SubjectPartnerUser:
		if claims.TenantID == "" {
			return nil, ErrMissingTenantID
		}
	case SubjectAdmin:
	default:
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new pair. permissions and role are
// resolved again by the caller so role changes take effect on refresh.
func (s *JWTService) Refresh(refreshToken, role string, permissions []string) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}
	subject := Subject{UserID: userID, Type: claims.SubjectType, Role: role, Permissions: permissions}
	if claims.SubjectType == SubjectPartnerUser {
		if subject.PartnerID, err = claims.PartnerUUID(); err != nil {
			return nil, nil, ErrInvalidClaims
		}
	}

	pair, err := s.issue(subject, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// AccessTokenExpiration returns the access token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// PartnerUUID parses the tenant claim
func (c *Claims) PartnerUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// UserUUID parses the user claim
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// IsAdmin reports whether the token belongs to a platform operator
func (c *Claims) IsAdmin() bool {
	return c.SubjectType == SubjectAdmin
}

// HasPermission checks if the claims contain a specific permission
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// IssuedAtTime returns the issued-at time at millisecond precision when the
// token carries it, zero when absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAtMs > 0 {
		return time.UnixMilli(c.IssuedAtMs)
	}
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// RemainingTTL returns the time until the token expires, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}
