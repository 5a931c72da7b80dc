package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteRepository implements trade.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByIDForPartner loads a quote and its items within a partner
func (r *GormQuoteRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*trade.Quote, error) {
	var q trade.Quote
	if err := conn(ctx, r.db).
		Scopes(PartnerScope(partnerID)).
		Preload("Items").
		First(&q, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// FindAllForPartner lists a partner's quotes with filter "status"
func (r *GormQuoteRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]trade.Quote, int64, error) {
	query := conn(ctx, r.db).Model(&trade.Quote{}).
		Scopes(PartnerScope(partnerID), SearchScope(filter.Search, "quote_number", "client_name", "client_email"), CreatedRangeScope(filter))
	if status, ok := stringFilter(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	return findPage[trade.Quote](query, filter, QuoteSortFields, preloadItems)
}

// Save writes the quote and replaces its item set
func (r *GormQuoteRepository) Save(ctx context.Context, q *trade.Quote) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(q).Error; err != nil {
			return duplicate(err)
		}
		keep := make([]uuid.UUID, len(q.Items))
		for i := range q.Items {
			q.Items[i].QuoteID = q.ID
			keep[i] = q.Items[i].ID
		}
		if err := deleteStale(tx, &trade.QuoteItem{}, "quote_id", q.ID, keep); err != nil {
			return err
		}
		for i := range q.Items {
			if err := tx.Save(&q.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForPartner deletes a quote and its items within a partner
func (r *GormQuoteRepository) DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(PartnerScope(partnerID)).Delete(&trade.Quote{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("quote_id = ?", id).Delete(&trade.QuoteItem{}).Error
	})
}

// LastSequenceInMonth returns the highest Q-YYYYMM-NNNN sequence issued to the partner
func (r *GormQuoteRepository) LastSequenceInMonth(ctx context.Context, partnerID uuid.UUID, at time.Time) (int64, error) {
	return lastSequence(conn(ctx, r.db).Model(&trade.Quote{}), "quote_number",
		trade.NumberMonthPrefix(trade.QuoteNumberPrefix, at), partnerID)
}

// FindExpirable returns sent quotes whose validity ended before now, oldest first
func (r *GormQuoteRepository) FindExpirable(ctx context.Context, now time.Time, limit int) ([]trade.Quote, error) {
	if limit <= 0 {
		limit = 100
	}
	var quotes []trade.Quote
	if err := conn(ctx, r.db).
		Where("status = ? AND valid_until < ?", trade.QuoteStatusSent, now.UTC()).
		Order("valid_until").
		Limit(limit).
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// CountByStatusForPartner counts a partner's quotes per status
func (r *GormQuoteRepository) CountByStatusForPartner(ctx context.Context, partnerID uuid.UUID) (map[trade.QuoteStatus]int64, error) {
	var rows []struct {
		Status trade.QuoteStatus
		Count  int64
	}
	if err := conn(ctx, r.db).Model(&trade.Quote{}).
		Scopes(PartnerScope(partnerID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[trade.QuoteStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads any tenant's order. Only admin paths use it.
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var o trade.Order
	if err := conn(ctx, r.db).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// FindByIDForPartner loads an order and its items within a partner
func (r *GormOrderRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*trade.Order, error) {
	var o trade.Order
	if err := conn(ctx, r.db).
		Scopes(PartnerScope(partnerID)).
		Preload("Items").
		First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// FindAll lists orders across tenants with filters "status", "partner_id" and a created_at range
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.filtered(conn(ctx, r.db).Model(&trade.Order{}), filter)
	if partnerID, ok := uuidFilter(filter, "partner_id"); ok {
		query = query.Scopes(PartnerScope(partnerID))
	}
	return findPage[trade.Order](query, filter, OrderSortFields, preloadItems)
}

// FindAllForPartner lists a partner's orders
func (r *GormOrderRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.filtered(conn(ctx, r.db).Model(&trade.Order{}).Scopes(PartnerScope(partnerID)), filter)
	return findPage[trade.Order](query, filter, OrderSortFields, preloadItems)
}

func (r *GormOrderRepository) filtered(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = query.Scopes(SearchScope(filter.Search, "order_number", "client_name", "client_email"), CreatedRangeScope(filter))
	if status, ok := stringFilter(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Save writes the order and replaces its item set
func (r *GormOrderRepository) Save(ctx context.Context, o *trade.Order) error {
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(o).Error; err != nil {
			return duplicate(err)
		}
		keep := make([]uuid.UUID, len(o.Items))
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			keep[i] = o.Items[i].ID
		}
		if err := deleteStale(tx, &trade.OrderItem{}, "order_id", o.ID, keep); err != nil {
			return err
		}
		for i := range o.Items {
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LastSequenceInMonth returns the highest O-YYYYMM-NNNN sequence issued to the partner
func (r *GormOrderRepository) LastSequenceInMonth(ctx context.Context, partnerID uuid.UUID, at time.Time) (int64, error) {
	return lastSequence(conn(ctx, r.db).Model(&trade.Order{}), "order_number",
		trade.NumberMonthPrefix(trade.OrderNumberPrefix, at), partnerID)
}

// CountByStatus counts orders per status, optionally for one partner
func (r *GormOrderRepository) CountByStatus(ctx context.Context, partnerID *uuid.UUID) (map[trade.OrderStatus]int64, error) {
	query := conn(ctx, r.db).Model(&trade.Order{})
	if partnerID != nil {
		query = query.Scopes(PartnerScope(*partnerID))
	}
	var rows []struct {
		Status trade.OrderStatus
		Count  int64
	}
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[trade.OrderStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// ListForAnalytics returns the created_at, status and total of orders created in [from, to)
func (r *GormOrderRepository) ListForAnalytics(ctx context.Context, partnerID *uuid.UUID, from, to time.Time) ([]trade.OrderPoint, error) {
	query := conn(ctx, r.db).Model(&trade.Order{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC())
	if partnerID != nil {
		query = query.Scopes(PartnerScope(*partnerID))
	}
	var points []trade.OrderPoint
	if err := query.Select("created_at, status, total").Order("created_at").Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items")
}

func deleteStale(tx *gorm.DB, model any, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	stale := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	return stale.Delete(model).Error
}

// lastSequence reads the highest number under prefix. Sequences past 9999
// are longer, so length sorts before the text itself.
func lastSequence(query *gorm.DB, column, prefix string, partnerID uuid.UUID) (int64, error) {
	var numbers []string
	err := query.Scopes(PartnerScope(partnerID)).
		Where(column+" LIKE ?", prefix+"%").
		Order("LENGTH(" + column + ") DESC").
		Order(column + " DESC").
		Limit(1).
		Pluck(column, &numbers).Error
	if err != nil || len(numbers) == 0 {
		return 0, err
	}
	return trade.NumberSequence(numbers[0])
}
