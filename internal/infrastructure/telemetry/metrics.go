package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics records platform activity. A nil *BusinessMetrics is a
// valid no-op recorder.
type BusinessMetrics struct {
	quotesCreated      metric.Int64Counter
	quoteTransitions   metric.Int64Counter
	ordersPlaced       metric.Int64Counter
	orderValue         metric.Float64Counter
	orderTransitions   metric.Int64Counter
	micrositeViews     metric.Int64Counter
	logins             metric.Int64Counter
	pdfRenderDuration  metric.Float64Histogram
	scheduledQuoteRuns metric.Int64Counter
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		bm  BusinessMetrics
		err error
	)
	counter := func(name, desc, unit string) metric.Int64Counter {
		if err != nil {
			return nil
		}
		var c metric.Int64Counter
		c, err = meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			err = fmt.Errorf("failed to create counter %s: %w", name, err)
		}
		return c
	}

	bm.quotesCreated = counter("atelier_quotes_created_total", "Quotes created", "{quotes}")
	bm.quoteTransitions = counter("atelier_quote_transitions_total", "Quote status changes", "{transitions}")
	bm.ordersPlaced = counter("atelier_orders_placed_total", "Orders placed", "{orders}")
	bm.orderTransitions = counter("atelier_order_transitions_total", "Order status changes", "{transitions}")
	bm.micrositeViews = counter("atelier_microsite_views_total", "Public microsite page views", "{views}")
	bm.logins = counter("atelier_logins_total", "Login attempts", "{attempts}")
	bm.scheduledQuoteRuns = counter("atelier_quotes_expired_total", "Quotes expired by the sweep", "{quotes}")
	if err != nil {
		return nil, err
	}

	bm.orderValue, err = meter.Float64Counter("atelier_order_value_total",
		metric.WithDescription("Sum of placed order totals"),
		metric.WithUnit("{currency}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter atelier_order_value_total: %w", err)
	}
	bm.pdfRenderDuration, err = meter.Float64Histogram("atelier_pdf_render_duration_seconds",
		metric.WithDescription("Quote PDF render time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.25, 0.5, 1, 2, 5, 10, 30))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram atelier_pdf_render_duration_seconds: %w", err)
	}
	return &bm, nil
}

func partnerAttr(partnerID uuid.UUID) attribute.KeyValue {
	return attribute.String("partner_id", partnerID.String())
}

// QuoteCreated counts a new quote
func (m *BusinessMetrics) QuoteCreated(ctx context.Context, partnerID uuid.UUID) {
	if m == nil {
		return
	}
	m.quotesCreated.Add(ctx, 1, metric.WithAttributes(partnerAttr(partnerID)))
}

// QuoteTransitioned counts a quote status change
func (m *BusinessMetrics) QuoteTransitioned(ctx context.Context, to string) {
	if m == nil {
		return
	}
	m.quoteTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", to)))
}

// QuotesExpired counts quotes moved to expired by the scheduled sweep
func (m *BusinessMetrics) QuotesExpired(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.scheduledQuoteRuns.Add(ctx, int64(n))
}

// OrderPlaced counts an order and its value
func (m *BusinessMetrics) OrderPlaced(ctx context.Context, partnerID uuid.UUID, currency string, total decimal.Decimal, fromQuote bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		partnerAttr(partnerID),
		attribute.String("currency", currency),
		attribute.Bool("from_quote", fromQuote),
	)
	m.ordersPlaced.Add(ctx, 1, attrs)
	m.orderValue.Add(ctx, total.InexactFloat64(), attrs)
}

// OrderTransitioned counts an order status change
func (m *BusinessMetrics) OrderTransitioned(ctx context.Context, to string) {
	if m == nil {
		return
	}
	m.orderTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", to)))
}

// MicrositeViewed counts a public page view
func (m *BusinessMetrics) MicrositeViewed(ctx context.Context, slug string) {
	if m == nil {
		return
	}
	m.micrositeViews.Add(ctx, 1, metric.WithAttributes(attribute.String("slug", slug)))
}

// LoginAttempt counts a login by subject type and outcome
func (m *BusinessMetrics) LoginAttempt(ctx context.Context, subject string, success bool) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(
		attribute.String("subject", subject),
		attribute.Bool("success", success),
	))
}

// PDFRendered records how long a quote PDF took
func (m *BusinessMetrics) PDFRendered(ctx context.Context, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.pdfRenderDuration.Record(ctx, took.Seconds(), metric.WithAttributes(attribute.Bool("success", err == nil)))
}
