package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
)

// ProductRepository persists catalog products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	// FindAll supports filters "is_active" (bool) and "category" plus search on sku/name
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Save(ctx context.Context, p *Product) error
}

// CollectionRepository persists partner collections together with their items
type CollectionRepository interface {
	FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*Collection, error)
	// FindAllForPartner supports filter "status" plus search on name/slug
	FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]Collection, int64, error)
	// ExistsBySlug ignores the collection identified by excludeID
	ExistsBySlug(ctx context.Context, partnerID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, c *Collection) error
	DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error
}
