package microsite

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// Repository persists microsites
type Repository interface {
	FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*Microsite, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Microsite, error)
	FindBySlug(ctx context.Context, slug string) (*Microsite, error)
	FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]Microsite, int64, error)
	// FindAll is the cross-tenant listing; filters "status" and "partner_id"
	FindAll(ctx context.Context, filter shared.Filter) ([]Microsite, int64, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)
	// CountPublishedByCollection counts published microsites built from a collection
	CountPublishedByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error)
	Save(ctx context.Context, m *Microsite) error
	DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error
	// IncrementViews bumps view_count atomically in the database
	IncrementViews(ctx context.Context, id uuid.UUID) error
}
