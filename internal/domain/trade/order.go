package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

// AllOrderStatuses lists statuses in lifecycle order
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInProduction,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid reports whether the status is known
func (s OrderStatus) IsValid() bool {
	return shared.IsOneOf(s, AllOrderStatuses...)
}

// IsTerminal reports whether no further transition is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// orderTransitions maps each status to its single forward successor
var orderTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending:      OrderStatusConfirmed,
	OrderStatusConfirmed:    OrderStatusInProduction,
	OrderStatusInProduction: OrderStatusShipped,
	OrderStatusShipped:      OrderStatusDelivered,
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to OrderStatus) bool {
	if to == OrderStatusCancelled {
		return from == OrderStatusPending || from == OrderStatusConfirmed || from == OrderStatusInProduction
	}
	next, ok := orderTransitions[from]
	return ok && next == to
}

// Order is a confirmed purchase placed by a partner for a client event
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string          `gorm:"type:varchar(30);not null;index"`
	QuoteID         *uuid.UUID      `gorm:"type:uuid;uniqueIndex"`
	ClientName      string          `gorm:"type:varchar(200);not null"`
	ClientEmail     string          `gorm:"type:varchar(254)"`
	EventDate       *time.Time      `gorm:"type:date"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index"`
	Currency        string          `gorm:"type:varchar(3);not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ShippingAddress string          `gorm:"type:text"`
	Notes           string          `gorm:"type:text"`
	ConfirmedAt     *time.Time
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string      `gorm:"type:varchar(500)"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a snapshotted line on an order
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"column:sku;type:varchar(50);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderDraft carries the inputs for a directly placed order
type OrderDraft struct {
	ClientName      string
	ClientEmail     string
	EventDate       *time.Time
	Currency        string
	ShippingAddress string
	Notes           string
	Lines           []LineInput
	Discount        decimal.Decimal
	TaxRate         decimal.Decimal
}

// NewOrder creates a pending order from explicit lines
func NewOrder(partnerID uuid.UUID, number string, draft OrderDraft) (*Order, error) {
	if partnerID == uuid.Nil {
		return nil, shared.InvalidInput("Partner ID is required")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.InvalidInput("Order number is required")
	}
	name := strings.TrimSpace(draft.ClientName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client name is required")
	}
	email := shared.NormalizeEmail(draft.ClientEmail)
	if email != "" && !shared.IsEmail(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid client email")
	}
	currency := strings.ToUpper(strings.TrimSpace(draft.Currency))
	if !shared.IsCurrencyCode(currency) {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	if len(draft.Lines) == 0 {
		return nil, shared.InvalidInput("An order needs at least one line")
	}
	totals, err := ComputeTotals(draft.Lines, draft.Discount, draft.TaxRate)
	if err != nil {
		return nil, err
	}

	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(partnerID),
		OrderNumber:         number,
		ClientName:          name,
		ClientEmail:         email,
		EventDate:           draft.EventDate,
		Status:              OrderStatusPending,
		Currency:            currency,
		Subtotal:            totals.Subtotal,
		Discount:            totals.Discount,
		TaxAmount:           totals.TaxAmount,
		Total:               totals.Total,
		ShippingAddress:     strings.TrimSpace(draft.ShippingAddress),
		Notes:               draft.Notes,
	}
	o.setLines(draft.Lines)
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// NewOrderFromQuote creates a pending order that copies an accepted quote's
// lines and totals. The caller must mark the quote converted.
func NewOrderFromQuote(q *Quote, number string) (*Order, error) {
	if q.Status != QuoteStatusAccepted {
		return nil, shared.InvalidState("Only accepted quotes can be converted")
	}
	if q.OrderID != nil {
		return nil, shared.InvalidState("Quote has already been converted to an order")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.InvalidInput("Order number is required")
	}
	quoteID := q.ID
	o := &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(q.PartnerID),
		OrderNumber:         number,
		QuoteID:             &quoteID,
		ClientName:          q.ClientName,
		ClientEmail:         q.ClientEmail,
		EventDate:           q.EventDate,
		Status:              OrderStatusPending,
		Currency:            q.Currency,
		Subtotal:            q.Subtotal,
		Discount:            q.Discount,
		TaxAmount:           q.TaxAmount,
		Total:               q.Total,
		Notes:               q.Notes,
	}
	o.CreatedBy = q.CreatedBy
	o.setLines(q.Lines())
	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// TransitionTo advances the order along its lifecycle.
// Cancellation must go through Cancel so a reason is recorded.
func (o *Order) TransitionTo(target OrderStatus, now time.Time) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if target == OrderStatusCancelled {
		return shared.InvalidInput("Cancellation requires a reason")
	}
	if !CanTransition(o.Status, target) {
		return shared.InvalidState("Cannot move order from " + string(o.Status) + " to " + string(target))
	}
	from := o.Status
	t := now.UTC()
	switch target {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &t
	case OrderStatusShipped:
		o.ShippedAt = &t
	case OrderStatusDelivered:
		o.DeliveredAt = &t
	}
	o.Status = target
	o.MarkChanged()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, ""))
	return nil
}

// Cancel stops the order before it ships
func (o *Order) Cancel(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.InvalidInput("Cancellation reason is required")
	}
	if len(reason) > 500 {
		return shared.InvalidInput("Cancellation reason cannot exceed 500 characters")
	}
	if !CanTransition(o.Status, OrderStatusCancelled) {
		return shared.InvalidState("Order can no longer be cancelled")
	}
	from := o.Status
	t := now.UTC()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &t
	o.CancelReason = reason
	o.MarkChanged()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, reason))
	return nil
}

// UpdateShipping changes the delivery address while the order is not yet shipped
func (o *Order) UpdateShipping(address string) error {
	switch o.Status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusInProduction:
	default:
		return shared.InvalidState("Shipping address can no longer be changed")
	}
	o.ShippingAddress = strings.TrimSpace(address)
	o.MarkChanged()
	return nil
}

// CountsAsRevenue reports whether the order contributes to revenue totals
func (o *Order) CountsAsRevenue() bool {
	return o.Status != OrderStatusCancelled
}

func (o *Order) setLines(lines []LineInput) {
	o.Items = make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		o.Items = append(o.Items, OrderItem{
			ID:          uuid.New(),
			OrderID:     o.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal(),
		})
	}
}
