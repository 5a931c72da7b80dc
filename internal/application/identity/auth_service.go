package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Session errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrTokenExpired       = shared.NewDomainError("TOKEN_EXPIRED", "Session has expired")
	ErrTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid session token")
	ErrTokenRevoked       = shared.NewDomainError("TOKEN_REVOKED", "Session has been revoked")
	ErrTokenMaxRefresh    = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum session refresh count exceeded. Please log in again")
	ErrAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
)

// LoginAuditor records admin sign-ins
type LoginAuditor interface {
	Record(ctx context.Context, adminID uuid.UUID, entry admin.AuditEntry, req admin.RequestInfo)
}

// AuthServiceDeps groups the collaborators of AuthService
type AuthServiceDeps struct {
	Partners     partner.Repository
	PartnerUsers partner.UserRepository
	Admins       admin.UserRepository
	JWT          *auth.JWTService
	Blacklist    auth.TokenBlacklist
	Auditor      LoginAuditor
	Metrics      *telemetry.BusinessMetrics
	Logger       *zap.Logger
}

// AuthService issues, validates and revokes partner and admin sessions
type AuthService struct {
	partners     partner.Repository
	partnerUsers partner.UserRepository
	admins       admin.UserRepository
	jwt          *auth.JWTService
	blacklist    auth.TokenBlacklist
	auditor      LoginAuditor
	metrics      *telemetry.BusinessMetrics
	logger       *zap.Logger
	now          func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(deps AuthServiceDeps) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		partners:     deps.Partners,
		partnerUsers: deps.PartnerUsers,
		admins:       deps.Admins,
		jwt:          deps.JWT,
		blacklist:    deps.Blacklist,
		auditor:      deps.Auditor,
		metrics:      deps.Metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// PartnerLogin signs a partner user in. Every failure returns the same
// generic credentials error.
func (s *AuthService) PartnerLogin(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := shared.NormalizeEmail(req.Email)
	user, p, err := s.checkPartnerCredentials(ctx, email, req.Password)
	if err != nil {
		s.metrics.LoginAttempt(ctx, string(auth.SubjectPartnerUser), false)
		return nil, err
	}

	pair, err := s.jwt.Issue(auth.Subject{
		PartnerID: p.ID,
		UserID:    user.ID,
		Type:      auth.SubjectPartnerUser,
		Role:      string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to issue partner session", zap.Error(err))
		return nil, err
	}

	user.RecordLogin()
	if err := s.partnerUsers.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record partner login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	s.metrics.LoginAttempt(ctx, string(auth.SubjectPartnerUser), true)
	s.logger.Info("Partner user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("partner_id", p.ID.String()))

	return newLoginResult(pair, partnerSessionUser(user, p)), nil
}

func (s *AuthService) checkPartnerCredentials(ctx context.Context, email, password string) (*partner.User, *partner.Partner, error) {
	user, err := s.partnerUsers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown partner email", zap.String("email", email))
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.VerifyPassword(password) {
		s.logger.Warn("Invalid partner password", zap.String("user_id", user.ID.String()))
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn("Login for inactive partner user", zap.String("user_id", user.ID.String()))
		return nil, nil, ErrInvalidCredentials
	}
	p, err := s.partners.FindByID(ctx, user.PartnerID)
	if err != nil {
		return nil, nil, err
	}
	if !p.CanSignIn() {
		s.logger.Warn("Login for partner that cannot sign in",
			zap.String("partner_id", p.ID.String()),
			zap.String("status", string(p.Status)))
		return nil, nil, ErrInvalidCredentials
	}
	return user, p, nil
}

// AdminLogin signs an admin in and writes an audit row
func (s *AuthService) AdminLogin(ctx context.Context, req LoginRequest, info admin.RequestInfo) (*LoginResult, error) {
	email := shared.NormalizeEmail(req.Email)
	user, err := s.admins.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if user == nil || !user.VerifyPassword(req.Password) || !user.IsActive {
		s.metrics.LoginAttempt(ctx, string(auth.SubjectAdmin), false)
		s.logger.Warn("Failed admin login", zap.String("email", email), zap.String("ip", info.IPAddress))
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwt.Issue(auth.Subject{
		UserID:      user.ID,
		Type:        auth.SubjectAdmin,
		Role:        string(user.Role),
		Permissions: user.Role.PermissionStrings(),
	})
	if err != nil {
		s.logger.Error("Failed to issue admin session", zap.Error(err))
		return nil, err
	}

	user.RecordLogin(s.now())
	if err := s.admins.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record admin login", zap.String("admin_user_id", user.ID.String()), zap.Error(err))
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, user.ID, admin.AuditEntry{
			Action:     admin.ActionAdminLogin,
			TargetType: admin.TargetTypeAdminUser,
			TargetID:   &user.ID,
		}, info)
	}
	s.metrics.LoginAttempt(ctx, string(auth.SubjectAdmin), true)
	s.logger.Info("Admin logged in", zap.String("admin_user_id", user.ID.String()), zap.String("role", string(user.Role)))

	return newLoginResult(pair, adminSessionUser(user)), nil
}

// Authenticate validates an access token and checks it has not been revoked
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Refresh rotates a refresh token. Role and permissions are resolved again
// so role changes and deactivations take effect.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	role, perms, err := s.resolveSubject(ctx, claims, userID)
	if err != nil {
		return nil, err
	}
	pair, old, err := s.jwt.Refresh(req.RefreshToken, role, perms)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, mapTokenError(err)
	}
	s.revoke(ctx, old)

	s.logger.Debug("Session refreshed", zap.String("user_id", userID.String()))
	return &RefreshResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

func (s *AuthService) resolveSubject(ctx context.Context, claims *auth.Claims, userID uuid.UUID) (string, []string, error) {
	if claims.IsAdmin() {
		user, err := s.admins.FindByID(ctx, userID)
		if err != nil {
			return "", nil, notFoundAsInactive(err)
		}
		if !user.IsActive {
			return "", nil, ErrAccountInactive
		}
		return string(user.Role), user.Role.PermissionStrings(), nil
	}

	user, err := s.partnerUsers.FindByID(ctx, userID)
	if err != nil {
		return "", nil, notFoundAsInactive(err)
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}
	p, err := s.partners.FindByID(ctx, user.PartnerID)
	if err != nil {
		return "", nil, notFoundAsInactive(err)
	}
	if !p.CanSignIn() {
		return "", nil, ErrAccountInactive
	}
	return string(user.Role), nil, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims, req LogoutRequest) error {
	if claims == nil {
		return ErrTokenInvalid
	}
	s.revoke(ctx, claims)
	if req.RefreshToken != "" {
		if refresh, err := s.jwt.ValidateRefreshToken(req.RefreshToken); err == nil && refresh.UserID == claims.UserID {
			s.revoke(ctx, refresh)
		}
	}
	s.logger.Info("Logged out",
		zap.String("user_id", claims.UserID),
		zap.String("subject_type", string(claims.SubjectType)))
	return nil
}

// PartnerMe describes the signed-in partner user
func (s *AuthService) PartnerMe(ctx context.Context, partnerID, userID uuid.UUID) (*SessionUser, error) {
	user, err := s.partnerUsers.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.PartnerID != partnerID {
		return nil, shared.NotFound("User")
	}
	p, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	su := partnerSessionUser(user, p)
	return &su, nil
}

// AdminMe describes the signed-in admin
func (s *AuthService) AdminMe(ctx context.Context, adminID uuid.UUID) (*SessionUser, error) {
	user, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	su := adminSessionUser(user)
	return &su, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *AuthService) revoke(ctx context.Context, claims *auth.Claims) {
	if s.blacklist == nil || claims == nil || claims.ID == "" {
		return
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Warn("Failed to revoke token", zap.String("jti", claims.ID), zap.Error(err))
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	case errors.Is(err, auth.ErrTokenRevoked):
		return ErrTokenRevoked
	default:
		return ErrTokenInvalid
	}
}

func notFoundAsInactive(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return ErrAccountInactive
	}
	return err
}

func newLoginResult(pair *auth.TokenPair, user SessionUser) *LoginResult {
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  user,
	}
}

func partnerSessionUser(u *partner.User, p *partner.Partner) SessionUser {
	return SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		SubjectType: string(auth.SubjectPartnerUser),
		Role:        string(u.Role),
		PartnerID:   &p.ID,
		PartnerName: p.Name,
		PartnerSlug: p.Slug,
		LastLoginAt: u.LastLoginAt,
	}
}

func adminSessionUser(u *admin.User) SessionUser {
	return SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		SubjectType: string(auth.SubjectAdmin),
		Role:        string(u.Role),
		Permissions: u.Role.PermissionStrings(),
		LastLoginAt: u.LastLoginAt,
	}
}
