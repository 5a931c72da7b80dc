package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuoteRepository persists quotes together with their items
type QuoteRepository interface {
	FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*Quote, error)
	// FindAllForPartner supports filter "status" plus search on number/client
	FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]Quote, int64, error)
	Save(ctx context.Context, q *Quote) error
	DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error
	// LastSequenceInMonth returns the highest quote number sequence issued
	// to the partner in at's month, or 0 when none exists
	LastSequenceInMonth(ctx context.Context, partnerID uuid.UUID, at time.Time) (int64, error)
	// FindExpirable returns sent quotes whose valid_until is before now
	FindExpirable(ctx context.Context, now time.Time, limit int) ([]Quote, error)
	CountByStatusForPartner(ctx context.Context, partnerID uuid.UUID) (map[QuoteStatus]int64, error)
}

// OrderPoint is the slice of an order that analytics needs
type OrderPoint struct {
	CreatedAt time.Time
	Status    OrderStatus
	Total     decimal.Decimal
}

// OrderRepository persists orders together with their items
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*Order, error)
	// FindAll is the cross-tenant listing; filters "status", "partner_id" and From/To
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, o *Order) error
	LastSequenceInMonth(ctx context.Context, partnerID uuid.UUID, at time.Time) (int64, error)
	CountByStatus(ctx context.Context, partnerID *uuid.UUID) (map[OrderStatus]int64, error)
	// ListForAnalytics returns points created in [from, to); partnerID nil means all tenants
	ListForAnalytics(ctx context.Context, partnerID *uuid.UUID, from, to time.Time) ([]OrderPoint, error)
}
