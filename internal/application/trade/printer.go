package trade

import (
	"context"
	"time"

	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/trade"
)

// QuoteDocument is everything the quote PDF shows
type QuoteDocument struct {
	Quote        *trade.Quote
	PartnerName  string
	PartnerEmail string
	Website      string
	Style        brandkit.Style
	LogoURL      string
	GeneratedAt  time.Time
}

// QuotePrinter renders a quote document to PDF
type QuotePrinter interface {
	PrintQuote(ctx context.Context, doc *QuoteDocument) ([]byte, error)
}
