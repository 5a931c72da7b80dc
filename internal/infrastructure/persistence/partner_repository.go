package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPartnerRepository implements partner.Repository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var p partner.Partner
	if err := conn(ctx, r.db).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindBySlug finds a partner by its slug
func (r *GormPartnerRepository) FindBySlug(ctx context.Context, slug string) (*partner.Partner, error) {
	var p partner.Partner
	if err := conn(ctx, r.db).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindAll lists partners with filters "status" and "business_type"
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, int64, error) {
	query := conn(ctx, r.db).Model(&partner.Partner{}).
		Scopes(SearchScope(filter.Search, "name", "slug", "contact_email"), CreatedRangeScope(filter))
	if status, ok := stringFilter(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if bt, ok := stringFilter(filter, "business_type"); ok {
		query = query.Where("business_type = ?", bt)
	}
	return findPage[partner.Partner](query, filter, PartnerSortFields)
}

// ExistsBySlug checks whether a partner already uses slug
func (r *GormPartnerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&partner.Partner{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return duplicate(conn(ctx, r.db).Save(p).Error)
}

// CountByStatus counts partners per status
func (r *GormPartnerRepository) CountByStatus(ctx context.Context) (map[partner.Status]int64, error) {
	var rows []struct {
		Status partner.Status
		Count  int64
	}
	if err := conn(ctx, r.db).Model(&partner.Partner{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[partner.Status]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// CreatedBetween returns creation timestamps of partners created in [from, to)
func (r *GormPartnerRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := conn(ctx, r.db).Model(&partner.Partner{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Order("created_at").
		Pluck("created_at", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// GormPartnerUserRepository implements partner.UserRepository using GORM
type GormPartnerUserRepository struct {
	db *gorm.DB
}

// NewGormPartnerUserRepository creates a new GormPartnerUserRepository
func NewGormPartnerUserRepository(db *gorm.DB) *GormPartnerUserRepository {
	return &GormPartnerUserRepository{db: db}
}

// FindByID finds a partner user by ID
func (r *GormPartnerUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.User, error) {
	var u partner.User
	if err := conn(ctx, r.db).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByEmail finds a partner user by normalized email
func (r *GormPartnerUserRepository) FindByEmail(ctx context.Context, email string) (*partner.User, error) {
	var u partner.User
	if err := conn(ctx, r.db).First(&u, "email = ?", shared.NormalizeEmail(email)).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByPartner lists the users of one partner, oldest first
func (r *GormPartnerUserRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) ([]partner.User, error) {
	var users []partner.User
	if err := conn(ctx, r.db).Scopes(PartnerScope(partnerID)).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ExistsByEmail checks whether any partner user has email
func (r *GormPartnerUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&partner.User{}).
		Where("email = ?", shared.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a partner user
func (r *GormPartnerUserRepository) Save(ctx context.Context, u *partner.User) error {
	return duplicate(conn(ctx, r.db).Save(u).Error)
}
