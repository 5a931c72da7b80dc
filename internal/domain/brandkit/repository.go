package brandkit

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists brand kits
type Repository interface {
	// FindByPartner returns shared.ErrNotFound when the partner has no kit yet
	FindByPartner(ctx context.Context, partnerID uuid.UUID) (*BrandKit, error)
	Save(ctx context.Context, kit *BrandKit) error
}
