package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/auth"
	"github.com/luminform/atelier/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	shared.PasswordCost = bcrypt.MinCost
}

// MockPartnerRepository is a mock implementation of partner.Repository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindBySlug(ctx context.Context, slug string) (*partner.Partner, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Partner), args.Get(1).(int64), args.Error(2)
}

func (m *MockPartnerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) CountByStatus(ctx context.Context) (map[partner.Status]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[partner.Status]int64), args.Error(1)
}

func (m *MockPartnerRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockPartnerUserRepository is a mock implementation of partner.UserRepository
type MockPartnerUserRepository struct {
	mock.Mock
}

func (m *MockPartnerUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.User), args.Error(1)
}

func (m *MockPartnerUserRepository) FindByEmail(ctx context.Context, email string) (*partner.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.User), args.Error(1)
}

func (m *MockPartnerUserRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]partner.User, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]partner.User), args.Error(1)
}

func (m *MockPartnerUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerUserRepository) Save(ctx context.Context, u *partner.User) error {
	return m.Called(ctx, u).Error(0)
}

// MockAdminRepository is a mock implementation of admin.UserRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*admin.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.User), args.Error(1)
}

func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*admin.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*admin.User), args.Error(1)
}

func (m *MockAdminRepository) FindAll(ctx context.Context, filter shared.Filter) ([]admin.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]admin.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) CountActiveByRole(ctx context.Context, role admin.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepository) Save(ctx context.Context, u *admin.User) error {
	return m.Called(ctx, u).Error(0)
}

// MockAuditor is a mock implementation of LoginAuditor
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(ctx context.Context, adminID uuid.UUID, entry admin.AuditEntry, req admin.RequestInfo) {
	m.Called(ctx, adminID, entry, req)
}

const testPassword = "bl00mingdale"

type authFixture struct {
	partners  *MockPartnerRepository
	users     *MockPartnerUserRepository
	admins    *MockAdminRepository
	auditor   *MockAuditor
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	service   *AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		partners:  new(MockPartnerRepository),
		users:     new(MockPartnerUserRepository),
		admins:    new(MockAdminRepository),
		auditor:   new(MockAuditor),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-that-is-long-enough-32",
			Issuer:                 "atelier-test",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			MaxRefreshCount:        3,
		}),
	}
	f.service = NewAuthService(AuthServiceDeps{
		Partners:     f.partners,
		PartnerUsers: f.users,
		Admins:       f.admins,
		JWT:          f.jwt,
		Blacklist:    f.blacklist,
		Auditor:      f.auditor,
		Logger:       zap.NewNop(),
	})
	return f
}

func (f *authFixture) partnerUser(t *testing.T, status partner.Status) (*partner.Partner, *partner.User) {
	t.Helper()
	p, err := partner.NewPartner("Petal Studio", "petal-studio", partner.BusinessTypeFlorist, "hi@petal.example")
	require.NoError(t, err)
	switch status {
	case partner.StatusActive:
		require.NoError(t, p.Activate())
	case partner.StatusSuspended:
		require.NoError(t, p.Activate())
		require.NoError(t, p.Suspend("billing"))
	}
	u, err := partner.NewUser(p.ID, "owner@petal.example", testPassword, "Owner", partner.UserRoleOwner)
	require.NoError(t, err)
	f.users.On("FindByEmail", mock.Anything, "owner@petal.example").Return(u, nil)
	f.users.On("FindByID", mock.Anything, u.ID).Return(u, nil)
	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	return p, u
}

func TestPartnerLogin(t *testing.T) {
	f := newAuthFixture()
	p, u := f.partnerUser(t, partner.StatusActive)
	f.users.On("Save", mock.Anything, u).Return(nil)

	result, err := f.service.PartnerLogin(context.Background(), LoginRequest{Email: " Owner@Petal.example ", Password: testPassword})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, p.ID, *result.User.PartnerID)
	assert.Equal(t, "owner", result.User.Role)
	assert.NotNil(t, u.LastLoginAt)

	claims, err := f.service.Authenticate(context.Background(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, p.ID.String(), claims.TenantID)
	assert.Equal(t, auth.SubjectPartnerUser, claims.SubjectType)
}

func TestPartnerLogin_PendingPartnerMaySignIn(t *testing.T) {
	f := newAuthFixture()
	_, u := f.partnerUser(t, partner.StatusPending)
	f.users.On("Save", mock.Anything, u).Return(nil)

	_, err := f.service.PartnerLogin(context.Background(), LoginRequest{Email: "owner@petal.example", Password: testPassword})
	require.NoError(t, err)
}

func TestPartnerLogin_GenericFailures(t *testing.T) {
	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.partnerUser(t, partner.StatusActive)
		_, err := f.service.PartnerLogin(context.Background(), LoginRequest{Email: "owner@petal.example", Password: "wrong1234"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", mock.Anything, "ghost@petal.example").Return(nil, shared.NotFound("User"))
		_, err := f.service.PartnerLogin(context.Background(), LoginRequest{Email: "ghost@petal.example", Password: testPassword})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("suspended partner", func(t *testing.T) {
		f := newAuthFixture()
		f.partnerUser(t, partner.StatusSuspended)
		_, err := f.service.PartnerLogin(context.Background(), LoginRequest{Email: "owner@petal.example", Password: testPassword})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func newAdminUser(t *testing.T, role admin.Role) *admin.User {
	t.Helper()
	u, err := admin.NewUser("ops@atelier.example", testPassword, "Ops", role)
	require.NoError(t, err)
	return u
}

func TestAdminLogin_Audited(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := newAdminUser(t, admin.RoleSupport)
	info := admin.RequestInfo{IPAddress: "10.1.1.1", UserAgent: "test"}
	f.admins.On("FindByEmail", ctx, "ops@atelier.example").Return(u, nil)
	f.admins.On("Save", ctx, u).Return(nil)
	f.auditor.On("Record", ctx, u.ID, mock.MatchedBy(func(e admin.AuditEntry) bool {
		return e.Action == admin.ActionAdminLogin && *e.TargetID == u.ID
	}), info).Return()

	result, err := f.service.AdminLogin(ctx, LoginRequest{Email: "ops@atelier.example", Password: testPassword}, info)
	require.NoError(t, err)
	assert.Nil(t, result.User.PartnerID)
	assert.Contains(t, result.User.Permissions, "audit:read")

	claims, err := f.service.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
	assert.Empty(t, claims.TenantID)
	assert.True(t, claims.HasPermission("partners:read"))
	f.auditor.AssertExpectations(t)
}

func TestAdminLogin_Inactive(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := newAdminUser(t, admin.RoleSupport)
	require.NoError(t, u.Deactivate(uuid.New(), 2))
	f.admins.On("FindByEmail", ctx, "ops@atelier.example").Return(u, nil)

	_, err := f.service.AdminLogin(ctx, LoginRequest{Email: "ops@atelier.example", Password: testPassword}, admin.RequestInfo{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	f.auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRefresh_ResolvesCurrentRole(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := newAdminUser(t, admin.RoleSupport)
	pair, err := f.jwt.Issue(auth.Subject{UserID: u.ID, Type: auth.SubjectAdmin, Role: "support", Permissions: admin.RoleSupport.PermissionStrings()})
	require.NoError(t, err)

	require.NoError(t, u.ChangeRole(admin.RoleOperations, 0))
	f.admins.On("FindByID", ctx, u.ID).Return(u, nil)

	result, err := f.service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	claims, err := f.service.Authenticate(ctx, result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operations", claims.Role)
	assert.True(t, claims.HasPermission("orders:write"))

	_, err = f.service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked, "refresh tokens rotate")
}

func TestRefresh_InactivePartnerUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	p, u := f.partnerUser(t, partner.StatusActive)
	pair, err := f.jwt.Issue(auth.Subject{PartnerID: p.ID, UserID: u.ID, Type: auth.SubjectPartnerUser, Role: "owner"})
	require.NoError(t, err)
	u.Deactivate()

	_, err = f.service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefresh_Garbage(t *testing.T) {
	f := newAuthFixture()
	_, err := f.service.Refresh(context.Background(), RefreshRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestLogout_RevokesTokens(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	userID := uuid.New()
	pair, err := f.jwt.Issue(auth.Subject{PartnerID: uuid.New(), UserID: userID, Type: auth.SubjectPartnerUser, Role: "member"})
	require.NoError(t, err)

	claims, err := f.service.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(ctx, claims, LogoutRequest{RefreshToken: pair.RefreshToken}))

	_, err = f.service.Authenticate(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, err = f.service.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthenticate_RejectsRefreshToken(t *testing.T) {
	f := newAuthFixture()
	pair, err := f.jwt.Issue(auth.Subject{UserID: uuid.New(), Type: auth.SubjectAdmin, Role: "finance"})
	require.NoError(t, err)

	_, err = f.service.Authenticate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestPartnerMe_OtherTenant(t *testing.T) {
	f := newAuthFixture()
	_, u := f.partnerUser(t, partner.StatusActive)

	_, err := f.service.PartnerMe(context.Background(), uuid.New(), u.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
