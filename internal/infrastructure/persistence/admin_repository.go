package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/admin"
	"github.com/luminform/atelier/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAdminUserRepository implements admin.UserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// FindByID finds an admin user by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*admin.User, error) {
	var u admin.User
	if err := conn(ctx, r.db).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByEmail finds an admin user by normalized email
func (r *GormAdminUserRepository) FindByEmail(ctx context.Context, email string) (*admin.User, error) {
	var u admin.User
	if err := conn(ctx, r.db).First(&u, "email = ?", shared.NormalizeEmail(email)).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindAll lists admin users with filters "role" and "is_active"
func (r *GormAdminUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]admin.User, int64, error) {
	query := conn(ctx, r.db).Model(&admin.User{}).Scopes(SearchScope(filter.Search, "email", "display_name"))
	if role, ok := stringFilter(filter, "role"); ok {
		query = query.Where("role = ?", role)
	}
	if active, ok := boolFilter(filter, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	return findPage[admin.User](query, filter, AdminUserSortFields)
}

// ExistsByEmail checks whether an admin already uses email
func (r *GormAdminUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&admin.User{}).
		Where("email = ?", shared.NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountActiveByRole counts active admins holding role
func (r *GormAdminUserRepository) CountActiveByRole(ctx context.Context, role admin.Role) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&admin.User{}).
		Where("role = ? AND is_active = ?", role, true).
		Count(&count).Error
	return count, err
}

// Save creates or updates an admin user
func (r *GormAdminUserRepository) Save(ctx context.Context, u *admin.User) error {
	return duplicate(conn(ctx, r.db).Save(u).Error)
}

// GormAuditLogRepository implements admin.AuditLogRepository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends an audit row. Audit rows are never updated.
func (r *GormAuditLogRepository) Create(ctx context.Context, log *admin.AuditLog) error {
	return conn(ctx, r.db).Create(log).Error
}

// FindAll lists audit rows with filters "admin_user_id", "action", "target_type" and a created_at range
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]admin.AuditLog, int64, error) {
	query := conn(ctx, r.db).Model(&admin.AuditLog{}).Scopes(CreatedRangeScope(filter))
	if adminID, ok := uuidFilter(filter, "admin_user_id"); ok {
		query = query.Where("admin_user_id = ?", adminID)
	}
	if action, ok := stringFilter(filter, "action"); ok {
		query = query.Where("action = ?", action)
	}
	if targetType, ok := stringFilter(filter, "target_type"); ok {
		query = query.Where("target_type = ?", targetType)
	}
	return findPage[admin.AuditLog](query, filter, AuditLogSortFields)
}
