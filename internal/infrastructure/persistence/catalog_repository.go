package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := conn(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByIDs loads several products at once. Missing ids are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySKU finds a product by SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var p catalog.Product
	if err := conn(ctx, r.db).First(&p, "sku = ?", strings.ToUpper(strings.TrimSpace(sku))).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindAll lists products with filters "is_active" and "category"
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := conn(ctx, r.db).Model(&catalog.Product{}).Scopes(SearchScope(filter.Search, "sku", "name"))
	if active, ok := boolFilter(filter, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	if category, ok := stringFilter(filter, "category"); ok {
		query = query.Where("category = ?", category)
	}
	return findPage[catalog.Product](query, filter, ProductSortFields)
}

// ExistsBySKU checks whether a SKU is taken
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&catalog.Product{}).
		Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return duplicate(conn(ctx, r.db).Save(p).Error)
}

// GormCollectionRepository implements catalog.CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindByIDForPartner loads a collection and its items within a partner
func (r *GormCollectionRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*catalog.Collection, error) {
	var c catalog.Collection
	if err := conn(ctx, r.db).
		Scopes(PartnerScope(partnerID)).
		Preload("Items", orderedItems).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindAllForPartner lists a partner's collections with filter "status"
func (r *GormCollectionRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]catalog.Collection, int64, error) {
	query := conn(ctx, r.db).Model(&catalog.Collection{}).
		Scopes(PartnerScope(partnerID), SearchScope(filter.Search, "name", "slug"))
	if status, ok := stringFilter(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	return findPage[catalog.Collection](query, filter, CollectionSortFields, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Items", orderedItems)
	})
}

// ExistsBySlug checks slug uniqueness within a partner, ignoring excludeID
func (r *GormCollectionRepository) ExistsBySlug(ctx context.Context, partnerID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&catalog.Collection{}).
		Scopes(PartnerScope(partnerID)).
		Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save writes the collection and syncs its items: removed items are
// deleted, the rest are upserted.
func (r *GormCollectionRepository) Save(ctx context.Context, c *catalog.Collection) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
			return duplicate(err)
		}
		keep := make([]uuid.UUID, len(c.Items))
		for i := range c.Items {
			c.Items[i].CollectionID = c.ID
			keep[i] = c.Items[i].ID
		}
		if err := deleteStale(tx, &catalog.CollectionItem{}, "collection_id", c.ID, keep); err != nil {
			return err
		}
		for i := range c.Items {
			if err := tx.Save(&c.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForPartner deletes a collection and its items within a partner
func (r *GormCollectionRepository) DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(PartnerScope(partnerID)).Delete(&catalog.Collection{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("collection_id = ?", id).Delete(&catalog.CollectionItem{}).Error
	})
}
