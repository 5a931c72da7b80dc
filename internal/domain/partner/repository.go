package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// Repository persists partners
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)
	FindBySlug(ctx context.Context, slug string) (*Partner, error)
	// FindAll supports filters "status" and "business_type" plus free-text search on name/slug/email
	FindAll(ctx context.Context, filter shared.Filter) ([]Partner, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, p *Partner) error
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	// CreatedBetween returns creation timestamps of partners created in [from, to)
	CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// UserRepository persists partner users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, u *User) error
}
