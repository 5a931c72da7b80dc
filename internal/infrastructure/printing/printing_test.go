package printing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	tradeapp "github.com/luminform/atelier/internal/application/trade"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type capturingRenderer struct {
	html  string
	paper PaperSize
}

func (r *capturingRenderer) Render(_ context.Context, html string, paper PaperSize) ([]byte, error) {
	r.html = html
	r.paper = paper
	return []byte("%PDF-1.7"), nil
}

func sampleQuote(t *testing.T) *trade.Quote {
	t.Helper()
	q, err := trade.NewQuote(uuid.New(), "Q-202606-0003", "Ana & Bo", "ana@example.com", "USD",
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, q.ReplaceLines([]trade.LineInput{
		{ProductID: uuid.New(), ProductName: "Peony Centerpiece", SKU: "FLR-PEONY", Quantity: 12, UnitPrice: decimal.RequireFromString("102.875")},
		{ProductID: uuid.New(), ProductName: "Candle Set", SKU: "DEC-CANDLE", Quantity: 1, UnitPrice: decimal.RequireFromString("45")},
	}, decimal.NewFromInt(50), decimal.RequireFromString("0.0825")))
	return q
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(language.English)

	assert.Contains(t, f.Money(decimal.RequireFromString("1234.5"), "USD"), "1,234.50")
	assert.Contains(t, f.Money(decimal.RequireFromString("10"), "zzz"), "10.00")
	assert.Equal(t, "8.25%", f.Percent(decimal.RequireFromString("0.0825")))
	assert.Equal(t, "June 14, 2026", f.Date(time.Date(2026, 6, 14, 23, 0, 0, 0, time.UTC)))
	assert.Empty(t, f.Date(time.Time{}))
	assert.Equal(t, "In Production", f.Label("in_production"))
}

func TestPaperSize(t *testing.T) {
	w, h := PaperLetter.Dimensions()
	assert.Equal(t, 8.5, w)
	assert.Equal(t, 11.0, h)

	w, h = PaperA4.Dimensions()
	assert.InDelta(t, 8.27, w, 0.01)
	assert.InDelta(t, 11.69, h, 0.01)

	w, _ = PaperSize("letter").Dimensions()
	assert.Equal(t, 8.5, w)
}

func TestPrintParams(t *testing.T) {
	p := printParams(PaperLetter)
	assert.True(t, p.PrintBackground)
	assert.Equal(t, 8.5, p.PaperWidth)
	assert.InDelta(t, 0.47, p.MarginTop, 0.01)
}

func TestChromedpRenderer_RejectsEmptyDocument(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{RemoteURL: "ws://127.0.0.1:1"})
	defer r.Close()

	_, err := r.Render(context.Background(), "   ", PaperA4)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestQuotePrinter(t *testing.T) {
	renderer := &capturingRenderer{}
	printer, err := NewQuotePrinter(renderer, NewFormatter(language.English), PaperLetter)
	require.NoError(t, err)

	style := brandkit.DefaultStyle()
	style.AccentColor = "#C2185B"
	style.Tagline = "Flowers for every vow"
	doc := &tradeapp.QuoteDocument{
		Quote:        sampleQuote(t),
		PartnerName:  "Bloom & Co",
		PartnerEmail: "hello@bloom.example",
		Style:        style,
		GeneratedAt:  time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC),
	}

	pdf, err := printer.PrintQuote(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7"), pdf)
	assert.Equal(t, PaperLetter, renderer.paper)

	html := renderer.html
	assert.Contains(t, html, "Quote Q-202606-0003")
	assert.Contains(t, html, "Bloom &amp; Co")
	assert.Contains(t, html, "Ana &amp; Bo")
	assert.Contains(t, html, "#C2185B")
	assert.Contains(t, html, "Flowers for every vow")
	assert.Contains(t, html, "Peony Centerpiece")
	assert.Contains(t, html, "1,234.50", "12 x 102.875 rounds to 1,234.50")
	assert.Contains(t, html, "8.25%")
	assert.Contains(t, html, "June 2, 2026")
	assert.Contains(t, html, "Valid until: July 1, 2026")
}

func TestQuotePrinter_UsesLogoWhenPresent(t *testing.T) {
	printer, err := NewQuotePrinter(&capturingRenderer{}, NewFormatter(language.English), PaperA4)
	require.NoError(t, err)

	html, err := printer.RenderHTML(&tradeapp.QuoteDocument{
		Quote:       sampleQuote(t),
		PartnerName: "Bloom",
		Style:       brandkit.DefaultStyle(),
		LogoURL:     "https://cdn.example.com/logo.png",
	})
	require.NoError(t, err)
	assert.Contains(t, html, `src="https://cdn.example.com/logo.png"`)
}
