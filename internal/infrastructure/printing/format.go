package printing

import (
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders money, dates and labels for one locale. It backs both
// the quote PDF and the server-rendered pages.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	title   cases.Caser
}

// NewFormatter creates a Formatter for tag
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		title:   cases.Title(tag),
	}
}

// Money formats amount with the currency symbol and grouping, e.g. "$ 1,234.50".
// Unknown currency codes fall back to the code itself.
func (f *Formatter) Money(amount decimal.Decimal, code string) string {
	symbol := strings.ToUpper(code)
	if unit, err := currency.ParseISO(code); err == nil {
		symbol = f.printer.Sprint(currency.Symbol(unit))
	}
	return symbol + " " + f.Number(amount, 2)
}

// Number formats amount with grouping and a fixed scale
func (f *Formatter) Number(amount decimal.Decimal, scale int) string {
	return f.printer.Sprint(number.Decimal(amount.Round(int32(scale)).InexactFloat64(), number.Scale(scale)))
}

// Percent formats a rate in [0, 1] as a percentage, e.g. 0.0825 -> "8.25%"
func (f *Formatter) Percent(rate decimal.Decimal) string {
	return f.Number(rate.Mul(decimal.NewFromInt(100)), 2) + "%"
}

// Date formats t as "June 14, 2026"; the zero time renders empty
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("January 2, 2006")
}

// Label turns an enum like "in_production" into "In Production"
func (f *Formatter) Label(s string) string {
	return f.title.String(strings.ReplaceAll(s, "_", " "))
}

// FuncMap exposes the formatter to html/template
func (f *Formatter) FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":   f.Money,
		"number":  f.Number,
		"percent": f.Percent,
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return f.Date(v)
			case *time.Time:
				if v == nil {
					return ""
				}
				return f.Date(*v)
			default:
				return ""
			}
		},
		"label": f.Label,
		"upper": strings.ToUpper,
	}
}
