package trade

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const maxLineQuantity = 100000

// LineInput describes a priced line before it is attached to a quote or order.
// Product fields are snapshotted so later catalog edits do not rewrite history.
type LineInput struct {
	ProductID   uuid.UUID
	ProductName string
	SKU         string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Validate checks a single line
func (l LineInput) Validate() error {
	if l.ProductID == uuid.Nil {
		return shared.InvalidInput("Line product is required")
	}
	if l.Quantity <= 0 || l.Quantity > maxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 1 and 100000")
	}
	if !shared.IsNonNegativeDecimal(l.UnitPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return nil
}

// LineTotal returns quantity times unit price rounded to cents
func (l LineInput) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Totals are the computed money fields of a quote or order
type Totals struct {
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
	TaxRate   decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeTotals applies the pricing rules:
//
//	subtotal = Σ qty*unit_price
//	taxable  = max(subtotal - discount, 0)
//	tax      = round(taxable*tax_rate, 2)
//	total    = taxable + tax
//
// discount must be within [0, subtotal] and tax_rate within [0, 1].
func ComputeTotals(lines []LineInput, discount, taxRate decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return Totals{}, err
		}
		subtotal = subtotal.Add(l.LineTotal())
	}
	discount = discount.Round(2)
	if discount.IsNegative() {
		return Totals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(subtotal) {
		return Totals{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return Totals{}, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(taxRate).Round(2)
	return Totals{
		Subtotal:  subtotal,
		Discount:  discount,
		TaxRate:   taxRate,
		TaxAmount: tax,
		Total:     taxable.Add(tax),
	}, nil
}

// Document number prefixes
const (
	QuoteNumberPrefix = "Q"
	OrderNumberPrefix = "O"
)

// FormatNumber builds document numbers like Q-202606-0007
func FormatNumber(prefix string, at time.Time, seq int64) string {
	return fmt.Sprintf("%s%04d", NumberMonthPrefix(prefix, at), seq)
}

// NumberMonthPrefix is the part shared by every number issued in at's month,
// like Q-202606-
func NumberMonthPrefix(prefix string, at time.Time) string {
	return strings.ToUpper(prefix) + "-" + at.UTC().Format("200601") + "-"
}

// NumberSequence returns the trailing sequence of a document number
func NumberSequence(number string) (int64, error) {
	i := strings.LastIndexByte(number, '-')
	if i < 0 || i == len(number)-1 {
		return 0, fmt.Errorf("malformed document number %q", number)
	}
	seq, err := strconv.ParseInt(number[i+1:], 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("malformed document number %q", number)
	}
	return seq, nil
}
