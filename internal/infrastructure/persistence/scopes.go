package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"gorm.io/gorm"
)

// PartnerScope restricts a query to rows owned by one partner
func PartnerScope(partnerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("partner_id = ?", partnerID)
	}
}

// SearchScope matches the filter's search term case-insensitively against columns
func SearchScope(search string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term := strings.TrimSpace(search)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(escapeLike(term)) + "%"
		clauses := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

// CreatedRangeScope applies the filter's From/To bounds to created_at
func CreatedRangeScope(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.From != nil {
			db = db.Where("created_at >= ?", filter.From.UTC())
		}
		if filter.To != nil {
			db = db.Where("created_at < ?", filter.To.UTC())
		}
		return db
	}
}

// PageScope orders and paginates using a whitelisted sort column
func PageScope(filter shared.Filter, allowed map[string]bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f := filter.Normalize()
		orderBy := ValidateSortField(f.OrderBy, allowed, "created_at")
		return db.Order(orderBy + " " + ValidateSortOrder(f.OrderDir)).
			Offset(f.Offset()).
			Limit(f.PageSize)
	}
}

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, defaultField otherwise
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Allowed sort columns per listing
var (
	PartnerSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "slug": true, "status": true,
	}
	ProductSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "sku": true, "name": true, "category": true, "base_price": true,
	}
	CollectionSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "status": true, "published_at": true,
	}
	QuoteSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "quote_number": true, "client_name": true,
		"status": true, "total": true, "valid_until": true, "event_date": true,
	}
	OrderSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "order_number": true, "client_name": true,
		"status": true, "total": true, "event_date": true,
	}
	MicrositeSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "slug": true, "title": true, "status": true, "view_count": true,
	}
	AdminUserSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "email": true, "display_name": true, "role": true, "last_login_at": true,
	}
	AuditLogSortFields = map[string]bool{
		"created_at": true, "action": true, "target_type": true,
	}
)

// notFound maps gorm's missing-row error to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// duplicate maps unique-constraint violations to shared.ErrAlreadyExists.
// Requires gorm.Config.TranslateError.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func stringFilter(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func boolFilter(filter shared.Filter, key string) (bool, bool) {
	v, ok := filter.Filters[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func uuidFilter(filter shared.Filter, key string) (uuid.UUID, bool) {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case string:
		return shared.ParseUUID(v)
	default:
		return uuid.Nil, false
	}
}

// findPage counts the rows matched by query, then loads one ordered page of them
func findPage[T any](query *gorm.DB, filter shared.Filter, allowed map[string]bool, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	scopes = append(scopes, PageScope(filter, allowed))
	if err := query.Scopes(scopes...).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
