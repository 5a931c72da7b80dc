package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// LineRequest is one requested line. UnitPrice is only honoured on quotes;
// orders always price from the catalog.
type LineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1,max=100000"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateQuoteRequest creates a draft quote
type CreateQuoteRequest struct {
	ClientName   string           `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail  string           `json:"client_email" binding:"omitempty,email,max=254"`
	Currency     string           `json:"currency" binding:"required,len=3"`
	EventDate    *time.Time       `json:"event_date,omitempty"`
	ValidUntil   *time.Time       `json:"valid_until,omitempty"`
	Notes        string           `json:"notes" binding:"max=5000"`
	CollectionID *uuid.UUID       `json:"collection_id,omitempty"`
	Lines        []LineRequest    `json:"lines" binding:"omitempty,max=200,dive"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
}

// UpdateQuoteRequest replaces the editable content of a draft quote
type UpdateQuoteRequest struct {
	ClientName   string           `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail  string           `json:"client_email" binding:"omitempty,email,max=254"`
	EventDate    *time.Time       `json:"event_date,omitempty"`
	ValidUntil   time.Time        `json:"valid_until" binding:"required"`
	Notes        string           `json:"notes" binding:"max=5000"`
	CollectionID *uuid.UUID       `json:"collection_id,omitempty"`
	Lines        []LineRequest    `json:"lines" binding:"omitempty,max=200,dive"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
}

// CreateOrderRequest places an order directly from catalog products
type CreateOrderRequest struct {
	ClientName      string           `json:"client_name" binding:"required,min=1,max=200"`
	ClientEmail     string           `json:"client_email" binding:"omitempty,email,max=254"`
	Currency        string           `json:"currency" binding:"required,len=3"`
	EventDate       *time.Time       `json:"event_date,omitempty"`
	ShippingAddress string           `json:"shipping_address" binding:"max=1000"`
	Notes           string           `json:"notes" binding:"max=5000"`
	CollectionID    *uuid.UUID       `json:"collection_id,omitempty"`
	Lines           []LineRequest    `json:"lines" binding:"required,min=1,max=200,dive"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	TaxRate         *decimal.Decimal `json:"tax_rate,omitempty"`
}

// AdminCreateOrderRequest places an order on behalf of a partner
type AdminCreateOrderRequest struct {
	PartnerID uuid.UUID `json:"partner_id" binding:"required"`
	CreateOrderRequest
}

// CancelOrderRequest cancels an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// UpdateOrderRequest is the admin PATCH body. Status "cancelled" needs a reason.
type UpdateOrderRequest struct {
	Status          *string `json:"status,omitempty" binding:"omitempty,oneof=pending confirmed in_production shipped delivered cancelled"`
	Reason          string  `json:"reason" binding:"max=500"`
	ShippingAddress *string `json:"shipping_address,omitempty" binding:"omitempty,max=1000"`
}

// LineResponse is a line on a quote or order
type LineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// QuoteResponse is the full quote view
type QuoteResponse struct {
	ID          uuid.UUID       `json:"id"`
	PartnerID   uuid.UUID       `json:"partner_id"`
	QuoteNumber string          `json:"quote_number"`
	ClientName  string          `json:"client_name"`
	ClientEmail string          `json:"client_email"`
	EventDate   *time.Time      `json:"event_date,omitempty"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	Total       decimal.Decimal `json:"total"`
	ValidUntil  time.Time       `json:"valid_until"`
	Notes       string          `json:"notes"`
	SentAt      *time.Time      `json:"sent_at,omitempty"`
	RespondedAt *time.Time      `json:"responded_at,omitempty"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	Items       []LineResponse  `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// QuoteListResponse is the quote list view
type QuoteListResponse struct {
	ID          uuid.UUID       `json:"id"`
	QuoteNumber string          `json:"quote_number"`
	ClientName  string          `json:"client_name"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	ValidUntil  time.Time       `json:"valid_until"`
	ItemCount   int             `json:"item_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	PartnerID       uuid.UUID       `json:"partner_id"`
	OrderNumber     string          `json:"order_number"`
	QuoteID         *uuid.UUID      `json:"quote_id,omitempty"`
	ClientName      string          `json:"client_name"`
	ClientEmail     string          `json:"client_email"`
	EventDate       *time.Time      `json:"event_date,omitempty"`
	Status          string          `json:"status"`
	Currency        string          `json:"currency"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress string          `json:"shipping_address"`
	Notes           string          `json:"notes"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	Items           []LineResponse  `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// OrderListResponse is the order list view
type OrderListResponse struct {
	ID          uuid.UUID       `json:"id"`
	PartnerID   uuid.UUID       `json:"partner_id"`
	OrderNumber string          `json:"order_number"`
	ClientName  string          `json:"client_name"`
	Status      string          `json:"status"`
	Currency    string          `json:"currency"`
	Total       decimal.Decimal `json:"total"`
	EventDate   *time.Time      `json:"event_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToQuoteResponse converts a domain quote to its response
func ToQuoteResponse(q *trade.Quote) QuoteResponse {
	items := make([]LineResponse, 0, len(q.Items))
	for _, it := range q.Items {
		items = append(items, LineResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return QuoteResponse{
		ID:          q.ID,
		PartnerID:   q.PartnerID,
		QuoteNumber: q.QuoteNumber,
		ClientName:  q.ClientName,
		ClientEmail: q.ClientEmail,
		EventDate:   q.EventDate,
		Status:      string(q.Status),
		Currency:    q.Currency,
		Subtotal:    q.Subtotal,
		Discount:    q.Discount,
		TaxRate:     q.TaxRate,
		TaxAmount:   q.TaxAmount,
		Total:       q.Total,
		ValidUntil:  q.ValidUntil,
		Notes:       q.Notes,
		SentAt:      q.SentAt,
		RespondedAt: q.RespondedAt,
		OrderID:     q.OrderID,
		Items:       items,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		Version:     q.Version,
	}
}

// ToQuoteListResponse converts a domain quote to its list view
func ToQuoteListResponse(q *trade.Quote) QuoteListResponse {
	return QuoteListResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		ClientName:  q.ClientName,
		Status:      string(q.Status),
		Currency:    q.Currency,
		Total:       q.Total,
		ValidUntil:  q.ValidUntil,
		ItemCount:   len(q.Items),
		CreatedAt:   q.CreatedAt,
	}
}

// ToOrderResponse converts a domain order to its response
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]LineResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, LineResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return OrderResponse{
		ID:              o.ID,
		PartnerID:       o.PartnerID,
		OrderNumber:     o.OrderNumber,
		QuoteID:         o.QuoteID,
		ClientName:      o.ClientName,
		ClientEmail:     o.ClientEmail,
		EventDate:       o.EventDate,
		Status:          string(o.Status),
		Currency:        o.Currency,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		TaxAmount:       o.TaxAmount,
		Total:           o.Total,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		ConfirmedAt:     o.ConfirmedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

// ToOrderListResponse converts a domain order to its list view
func ToOrderListResponse(o *trade.Order) OrderListResponse {
	return OrderListResponse{
		ID:          o.ID,
		PartnerID:   o.PartnerID,
		OrderNumber: o.OrderNumber,
		ClientName:  o.ClientName,
		Status:      string(o.Status),
		Currency:    o.Currency,
		Total:       o.Total,
		EventDate:   o.EventDate,
		CreatedAt:   o.CreatedAt,
	}
}
