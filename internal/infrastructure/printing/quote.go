// Package printing renders partner documents to PDF with headless Chrome.
package printing

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	tradeapp "github.com/luminform/atelier/internal/application/trade"
)

//go:embed templates/quote.html
var templateFS embed.FS

var _ tradeapp.QuotePrinter = (*QuotePrinter)(nil)

// QuotePrinter fills the branded quote template and prints it
type QuotePrinter struct {
	renderer HTMLRenderer
	tmpl     *template.Template
	paper    PaperSize
}

// NewQuotePrinter parses the embedded quote template
func NewQuotePrinter(renderer HTMLRenderer, formatter *Formatter, paper PaperSize) (*QuotePrinter, error) {
	tmpl, err := template.New("quote.html").Funcs(formatter.FuncMap()).ParseFS(templateFS, "templates/quote.html")
	if err != nil {
		return nil, fmt.Errorf("parse quote template: %w", err)
	}
	return &QuotePrinter{renderer: renderer, tmpl: tmpl, paper: paper}, nil
}

// RenderHTML fills the template without printing it
func (p *QuotePrinter) RenderHTML(doc *tradeapp.QuoteDocument) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render quote %s: %w", doc.Quote.QuoteNumber, err)
	}
	return buf.String(), nil
}

// PrintQuote renders doc to PDF
func (p *QuotePrinter) PrintQuote(ctx context.Context, doc *tradeapp.QuoteDocument) ([]byte, error) {
	html, err := p.RenderHTML(doc)
	if err != nil {
		return nil, err
	}
	return p.renderer.Render(ctx, html, p.paper)
}
