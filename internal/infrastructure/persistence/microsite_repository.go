package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/microsite"
	"github.com/luminform/atelier/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMicrositeRepository implements microsite.Repository using GORM
type GormMicrositeRepository struct {
	db *gorm.DB
}

// NewGormMicrositeRepository creates a new GormMicrositeRepository
func NewGormMicrositeRepository(db *gorm.DB) *GormMicrositeRepository {
	return &GormMicrositeRepository{db: db}
}

// FindByIDForPartner finds a microsite within a partner
func (r *GormMicrositeRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*microsite.Microsite, error) {
	var m microsite.Microsite
	if err := conn(ctx, r.db).Scopes(PartnerScope(partnerID)).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// FindByID finds any tenant's microsite
func (r *GormMicrositeRepository) FindByID(ctx context.Context, id uuid.UUID) (*microsite.Microsite, error) {
	var m microsite.Microsite
	if err := conn(ctx, r.db).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// FindBySlug finds a microsite by its global slug
func (r *GormMicrositeRepository) FindBySlug(ctx context.Context, slug string) (*microsite.Microsite, error) {
	var m microsite.Microsite
	if err := conn(ctx, r.db).First(&m, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// FindAllForPartner lists a partner's microsites with filter "status"
func (r *GormMicrositeRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]microsite.Microsite, int64, error) {
	query := r.filtered(conn(ctx, r.db).Model(&microsite.Microsite{}).Scopes(PartnerScope(partnerID)), filter)
	return findPage[microsite.Microsite](query, filter, MicrositeSortFields)
}

// FindAll lists microsites across tenants with filters "status" and "partner_id"
func (r *GormMicrositeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]microsite.Microsite, int64, error) {
	query := r.filtered(conn(ctx, r.db).Model(&microsite.Microsite{}), filter)
	if partnerID, ok := uuidFilter(filter, "partner_id"); ok {
		query = query.Scopes(PartnerScope(partnerID))
	}
	return findPage[microsite.Microsite](query, filter, MicrositeSortFields)
}

func (r *GormMicrositeRepository) filtered(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(SearchScope(filter.Search, "slug", "title"))
	if status, ok := stringFilter(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// ExistsBySlug checks global slug uniqueness, ignoring excludeID
func (r *GormMicrositeRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := conn(ctx, r.db).Model(&microsite.Microsite{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountPublishedByCollection counts published microsites built from a collection
func (r *GormMicrositeRepository) CountPublishedByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&microsite.Microsite{}).
		Where("collection_id = ? AND status = ?", collectionID, microsite.StatusPublished).
		Count(&count).Error
	return count, err
}

// Save creates or updates a microsite. view_count is owned by IncrementViews
// and never overwritten here.
func (r *GormMicrositeRepository) Save(ctx context.Context, m *microsite.Microsite) error {
	return duplicate(conn(ctx, r.db).Omit("view_count").Save(m).Error)
}

// DeleteForPartner deletes a microsite within a partner
func (r *GormMicrositeRepository) DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error {
	result := conn(ctx, r.db).Scopes(PartnerScope(partnerID)).Delete(&microsite.Microsite{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// IncrementViews bumps view_count in a single UPDATE
func (r *GormMicrositeRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Model(&microsite.Microsite{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// GormBrandKitRepository implements brandkit.Repository using GORM
type GormBrandKitRepository struct {
	db *gorm.DB
}

// NewGormBrandKitRepository creates a new GormBrandKitRepository
func NewGormBrandKitRepository(db *gorm.DB) *GormBrandKitRepository {
	return &GormBrandKitRepository{db: db}
}

// FindByPartner returns the partner's brand kit or shared.ErrNotFound
func (r *GormBrandKitRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) (*brandkit.BrandKit, error) {
	var kit brandkit.BrandKit
	if err := conn(ctx, r.db).Scopes(PartnerScope(partnerID)).First(&kit).Error; err != nil {
		return nil, notFound(err)
	}
	return &kit, nil
}

// Save creates or updates a brand kit
func (r *GormBrandKitRepository) Save(ctx context.Context, kit *brandkit.BrandKit) error {
	return duplicate(conn(ctx, r.db).Save(kit).Error)
}
