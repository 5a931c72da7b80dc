package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages back-office accounts
type UserService struct {
	repo   admin.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new admin user service
func NewUserService(repo admin.UserRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// Create adds an admin user. Emails are unique.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role, err := admin.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	user, err := admin.NewUser(req.Email, req.Password, req.DisplayName, role)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.AlreadyExists("An admin user with this email already exists")
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("Admin user created",
		zap.String("admin_user_id", user.ID.String()),
		zap.String("role", string(user.Role)))
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns an admin user
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns admin users
func (s *UserService) List(ctx context.Context, filter shared.Filter) ([]UserResponse, int64, error) {
	users, total, err := s.repo.FindAll(ctx, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out, total, nil
}

// Update renames an admin or changes their role. The last active super admin
// cannot be demoted.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	if req.DisplayName == nil && req.Role == nil {
		return nil, shared.InvalidInput("Nothing to update")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		role, err := admin.ParseRole(*req.Role)
		if err != nil {
			return nil, err
		}
		supers, err := s.activeSuperAdmins(ctx, user, role)
		if err != nil {
			return nil, err
		}
		if err := user.ChangeRole(role, supers); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Deactivate blocks an admin. Admins cannot deactivate themselves and the
// last active super admin stays active.
func (s *UserService) Deactivate(ctx context.Context, actorID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	supers, err := s.activeSuperAdmins(ctx, user, "")
	if err != nil {
		return nil, err
	}
	if err := user.Deactivate(actorID, supers); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Admin user deactivated",
		zap.String("admin_user_id", id.String()),
		zap.String("actor_id", actorID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Reactivate restores an inactive admin
func (s *UserService) Reactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Reactivate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// activeSuperAdmins counts super admins only when the change could remove one
func (s *UserService) activeSuperAdmins(ctx context.Context, user *admin.User, target admin.Role) (int64, error) {
	if !user.IsSuperAdmin() || target == admin.RoleSuperAdmin {
		return 0, nil
	}
	return s.repo.CountActiveByRole(ctx, admin.RoleSuperAdmin)
}
