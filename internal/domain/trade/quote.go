package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuoteStatus is the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// IsValid reports whether the status is known
func (s QuoteStatus) IsValid() bool {
	return shared.IsOneOf(s, QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired)
}

// Quote is a priced proposal a partner sends to a client
type Quote struct {
	shared.TenantAggregateRoot
	QuoteNumber string          `gorm:"type:varchar(30);not null;index"`
	ClientName  string          `gorm:"type:varchar(200);not null"`
	ClientEmail string          `gorm:"type:varchar(254)"`
	EventDate   *time.Time      `gorm:"type:date"`
	Status      QuoteStatus     `gorm:"type:varchar(20);not null;index"`
	Currency    string          `gorm:"type:varchar(3);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(6,4);not null"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ValidUntil  time.Time       `gorm:"not null;index"`
	Notes       string          `gorm:"type:text"`
	SentAt      *time.Time
	RespondedAt *time.Time
	OrderID     *uuid.UUID  `gorm:"type:uuid"`
	Items       []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "quotes"
}

// QuoteItem is a snapshotted line on a quote
type QuoteItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuoteID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	SKU         string          `gorm:"column:sku;type:varchar(50);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (QuoteItem) TableName() string {
	return "quote_items"
}

// NewQuote creates an empty draft quote
func NewQuote(partnerID uuid.UUID, number, clientName, clientEmail, currency string, validUntil time.Time) (*Quote, error) {
	if partnerID == uuid.Nil {
		return nil, shared.InvalidInput("Partner ID is required")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.InvalidInput("Quote number is required")
	}
	q := &Quote{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(partnerID),
		QuoteNumber:         number,
		Status:              QuoteStatusDraft,
		Subtotal:            decimal.Zero,
		Discount:            decimal.Zero,
		TaxRate:             decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Items:               make([]QuoteItem, 0),
	}
	if err := q.SetClient(clientName, clientEmail); err != nil {
		return nil, err
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !shared.IsCurrencyCode(currency) {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}
	q.Currency = currency
	if validUntil.IsZero() {
		return nil, shared.InvalidInput("Valid-until date is required")
	}
	q.ValidUntil = validUntil.UTC()
	return q, nil
}

// SetClient updates the client contact on a draft
func (q *Quote) SetClient(name, email string) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CLIENT", "Client name is required")
	}
	email = shared.NormalizeEmail(email)
	if email != "" && !shared.IsEmail(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid client email")
	}
	q.ClientName = name
	q.ClientEmail = email
	q.MarkChanged()
	return nil
}

// SetSchedule updates the event date and the expiry of a draft
func (q *Quote) SetSchedule(eventDate *time.Time, validUntil time.Time) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	if validUntil.IsZero() {
		return shared.InvalidInput("Valid-until date is required")
	}
	q.EventDate = eventDate
	q.ValidUntil = validUntil.UTC()
	q.MarkChanged()
	return nil
}

// SetNotes replaces the free-text notes
func (q *Quote) SetNotes(notes string) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	q.Notes = notes
	q.MarkChanged()
	return nil
}

// ReplaceLines swaps all lines and pricing in one step and recomputes totals
func (q *Quote) ReplaceLines(lines []LineInput, discount, taxRate decimal.Decimal) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	totals, err := ComputeTotals(lines, discount, taxRate)
	if err != nil {
		return err
	}
	items := make([]QuoteItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, QuoteItem{
			ID:          uuid.New(),
			QuoteID:     q.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal(),
		})
	}
	q.Items = items
	q.applyTotals(totals)
	q.MarkChanged()
	return nil
}

// Lines returns the quote items as line inputs
func (q *Quote) Lines() []LineInput {
	lines := make([]LineInput, 0, len(q.Items))
	for _, it := range q.Items {
		lines = append(lines, LineInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			SKU:         it.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return lines
}

// Send moves a complete draft to the client
func (q *Quote) Send(now time.Time) error {
	if err := q.ensureDraft(); err != nil {
		return err
	}
	if len(q.Items) == 0 {
		return shared.InvalidState("A quote needs at least one line before it can be sent")
	}
	if q.ClientEmail == "" {
		return shared.InvalidState("A client email is required to send a quote")
	}
	if !q.ValidUntil.After(now) {
		return shared.InvalidState("Valid-until date must be in the future")
	}
	t := now.UTC()
	q.Status = QuoteStatusSent
	q.SentAt = &t
	q.MarkChanged()
	q.AddDomainEvent(NewQuoteStatusChangedEvent(q, QuoteStatusDraft))
	return nil
}

// Accept records the client's acceptance of a sent, unexpired quote
func (q *Quote) Accept(now time.Time) error {
	if q.Status != QuoteStatusSent {
		return shared.InvalidState("Only sent quotes can be accepted")
	}
	if q.IsOverdue(now) {
		return shared.InvalidState("Quote has expired")
	}
	return q.respond(QuoteStatusAccepted, now)
}

// Decline records the client's refusal
func (q *Quote) Decline(now time.Time) error {
	if q.Status != QuoteStatusSent {
		return shared.InvalidState("Only sent quotes can be declined")
	}
	return q.respond(QuoteStatusDeclined, now)
}

// Expire closes a sent quote whose validity has lapsed
func (q *Quote) Expire(now time.Time) error {
	if q.Status != QuoteStatusSent {
		return shared.InvalidState("Only sent quotes can expire")
	}
	if !q.IsOverdue(now) {
		return shared.InvalidState("Quote is still valid")
	}
	return q.respond(QuoteStatusExpired, now)
}

// IsOverdue reports whether the validity window ended before now
func (q *Quote) IsOverdue(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// MarkConverted links the order created from this accepted quote.
// A quote converts at most once.
func (q *Quote) MarkConverted(orderID uuid.UUID) error {
	if q.Status != QuoteStatusAccepted {
		return shared.InvalidState("Only accepted quotes can be converted")
	}
	if q.OrderID != nil {
		return shared.InvalidState("Quote has already been converted to an order")
	}
	q.OrderID = &orderID
	q.MarkChanged()
	return nil
}

// IsDraft reports whether the quote can still be edited
func (q *Quote) IsDraft() bool {
	return q.Status == QuoteStatusDraft
}

func (q *Quote) respond(to QuoteStatus, now time.Time) error {
	from := q.Status
	t := now.UTC()
	q.Status = to
	q.RespondedAt = &t
	q.MarkChanged()
	q.AddDomainEvent(NewQuoteStatusChangedEvent(q, from))
	return nil
}

func (q *Quote) applyTotals(t Totals) {
	q.Subtotal = t.Subtotal
	q.Discount = t.Discount
	q.TaxRate = t.TaxRate
	q.TaxAmount = t.TaxAmount
	q.Total = t.Total
}

func (q *Quote) ensureDraft() error {
	if q.Status != "" && q.Status != QuoteStatusDraft {
		return shared.InvalidState("Only draft quotes can be edited")
	}
	return nil
}
