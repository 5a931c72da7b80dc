package trade

import (
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeQuote = "Quote"
	AggregateTypeOrder = "Order"

	EventTypeQuoteStatusChanged = "quote.status_changed"
	EventTypeOrderPlaced        = "order.placed"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// QuoteStatusChangedEvent is published when a quote is sent or answered
type QuoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string          `json:"quote_number"`
	From        QuoteStatus     `json:"from"`
	To          QuoteStatus     `json:"to"`
	Total       decimal.Decimal `json:"total"`
}

// NewQuoteStatusChangedEvent creates a QuoteStatusChangedEvent
func NewQuoteStatusChangedEvent(q *Quote, from QuoteStatus) *QuoteStatusChangedEvent {
	return &QuoteStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteStatusChanged, AggregateTypeQuote, q.ID, q.PartnerID),
		QuoteNumber:     q.QuoteNumber,
		From:            from,
		To:              q.Status,
		Total:           q.Total,
	}
}

// OrderPlacedEvent is published when an order is created
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	FromQuote   bool            `json:"from_quote"`
}

// NewOrderPlacedEvent creates an OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID, o.PartnerID),
		OrderNumber:     o.OrderNumber,
		Currency:        o.Currency,
		Total:           o.Total,
		FromQuote:       o.QuoteID != nil,
	}
}

// OrderStatusChangedEvent is published on every order transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	From        OrderStatus `json:"from"`
	To          OrderStatus `json:"to"`
	Reason      string      `json:"reason,omitempty"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from OrderStatus, reason string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.PartnerID),
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              o.Status,
		Reason:          reason,
	}
}
