package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// UserRepository persists admin users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindAll supports filters "role" and "is_active" plus search on email/name
	FindAll(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountActiveByRole(ctx context.Context, role Role) (int64, error)
	Save(ctx context.Context, u *User) error
}

// AuditLogRepository appends and lists audit rows
type AuditLogRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	// FindAll supports filters "admin_user_id", "action", "target_type" and From/To
	FindAll(ctx context.Context, filter shared.Filter) ([]AuditLog, int64, error)
}
