package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/luminform/atelier/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	// DefaultQuoteValidity is used when a quote is created without valid_until
	DefaultQuoteValidity = 30 * 24 * time.Hour

	logoURLExpiry = 15 * time.Minute
)

// ErrPDFUnavailable is returned when PDF rendering is not configured
var ErrPDFUnavailable = shared.NewDomainError("PDF_UNAVAILABLE", "PDF export is not available")

// QuoteServiceDeps are the collaborators of QuoteService. Printer, Storage
// and Metrics are optional.
type QuoteServiceDeps struct {
	Quotes      trade.QuoteRepository
	Orders      trade.OrderRepository
	Products    catalog.ProductRepository
	Collections catalog.CollectionRepository
	Partners    partner.Repository
	BrandKits   brandkit.Repository
	Storage     brandkitapp.ObjectStorage
	Printer     QuotePrinter
	Tx          Transactor
	Publisher   shared.EventPublisher
	Metrics     *telemetry.BusinessMetrics
	Logger      *zap.Logger
}

// QuoteService handles the quote lifecycle and quote-to-order conversion
type QuoteService struct {
	quoteRepo   trade.QuoteRepository
	orderRepo   trade.OrderRepository
	partnerRepo partner.Repository
	kitRepo     brandkit.Repository
	storage     brandkitapp.ObjectStorage
	printer     QuotePrinter
	pricer      linePricer
	tx          Transactor
	publisher   shared.EventPublisher
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(deps QuoteServiceDeps) *QuoteService {
	tx := deps.Tx
	if tx == nil {
		tx = NoOpTransactor{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		quoteRepo:   deps.Quotes,
		orderRepo:   deps.Orders,
		partnerRepo: deps.Partners,
		kitRepo:     deps.BrandKits,
		storage:     deps.Storage,
		printer:     deps.Printer,
		pricer:      linePricer{productRepo: deps.Products, collectionRepo: deps.Collections},
		tx:          tx,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// Create creates a draft quote numbered Q-YYYYMM-NNNN
func (s *QuoteService) Create(ctx context.Context, partnerID, userID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	now := s.now().UTC()
	validUntil := now.Add(DefaultQuoteValidity)
	if req.ValidUntil != nil {
		validUntil = *req.ValidUntil
	}

	lines, err := s.pricer.resolve(ctx, partnerID, req.Currency, req.CollectionID, req.Lines, true)
	if err != nil {
		return nil, err
	}

	var quote *trade.Quote
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.quoteRepo.LastSequenceInMonth(ctx, partnerID, now)
		if err != nil {
			return err
		}
		q, err := trade.NewQuote(partnerID, trade.FormatNumber(trade.QuoteNumberPrefix, now, seq+1), req.ClientName, req.ClientEmail, req.Currency, validUntil)
		if err != nil {
			return err
		}
		if userID != uuid.Nil {
			q.SetCreatedBy(userID)
		}
		if err := q.SetSchedule(req.EventDate, validUntil); err != nil {
			return err
		}
		if err := q.SetNotes(req.Notes); err != nil {
			return err
		}
		if err := q.ReplaceLines(lines, decimalOrZero(req.Discount), decimalOrZero(req.TaxRate)); err != nil {
			return err
		}
		if err := s.quoteRepo.Save(ctx, q); err != nil {
			return err
		}
		quote = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.QuoteCreated(ctx, partnerID)
	s.logger.Info("Quote created",
		zap.String("partner_id", partnerID.String()),
		zap.String("quote_id", quote.ID.String()),
		zap.String("quote_number", quote.QuoteNumber))

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Update replaces client, schedule, notes and lines of a draft quote
func (s *QuoteService) Update(ctx context.Context, partnerID, id uuid.UUID, req UpdateQuoteRequest) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if !quote.IsDraft() {
		return nil, shared.InvalidState("Only draft quotes can be edited")
	}

	lines, err := s.pricer.resolve(ctx, partnerID, quote.Currency, req.CollectionID, req.Lines, true)
	if err != nil {
		return nil, err
	}
	if err := quote.SetClient(req.ClientName, req.ClientEmail); err != nil {
		return nil, err
	}
	if err := quote.SetSchedule(req.EventDate, req.ValidUntil); err != nil {
		return nil, err
	}
	if err := quote.SetNotes(req.Notes); err != nil {
		return nil, err
	}
	if err := quote.ReplaceLines(lines, decimalOrZero(req.Discount), decimalOrZero(req.TaxRate)); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}

	response := ToQuoteResponse(quote)
	return &response, nil
}

// Delete removes a draft quote
func (s *QuoteService) Delete(ctx context.Context, partnerID, id uuid.UUID) error {
	quote, err := s.quoteRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return err
	}
	if !quote.IsDraft() {
		return shared.InvalidState("Only draft quotes can be deleted")
	}
	return s.quoteRepo.DeleteForPartner(ctx, partnerID, id)
}

// GetByID returns one of the partner's quotes
func (s *QuoteService) GetByID(ctx context.Context, partnerID, id uuid.UUID) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	response := ToQuoteResponse(quote)
	return &response, nil
}

// List returns a page of the partner's quotes
func (s *QuoteService) List(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]QuoteListResponse, int64, error) {
	quotes, total, err := s.quoteRepo.FindAllForPartner(ctx, partnerID, filter.Normalize())
	if err != nil {
		return nil, 0, err
	}
	out := make([]QuoteListResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, ToQuoteListResponse(&quotes[i]))
	}
	return out, total, nil
}

// Send moves a draft to sent
func (s *QuoteService) Send(ctx context.Context, partnerID, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, partnerID, id, (*trade.Quote).Send)
}

// Accept records the client's acceptance
func (s *QuoteService) Accept(ctx context.Context, partnerID, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, partnerID, id, (*trade.Quote).Accept)
}

// Decline records the client's refusal
func (s *QuoteService) Decline(ctx context.Context, partnerID, id uuid.UUID) (*QuoteResponse, error) {
	return s.transition(ctx, partnerID, id, (*trade.Quote).Decline)
}

func (s *QuoteService) transition(ctx context.Context, partnerID, id uuid.UUID, apply func(*trade.Quote, time.Time) error) (*QuoteResponse, error) {
	quote, err := s.quoteRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(quote, s.now()); err != nil {
		return nil, err
	}
	if err := s.quoteRepo.Save(ctx, quote); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.publisher, s.logger, quote)
	s.metrics.QuoteTransitioned(ctx, string(quote.Status))

	response := ToQuoteResponse(quote)
	return &response, nil
}

// ConvertToOrder creates a pending order from an accepted quote. The quote
// and the order are written in one transaction and a quote converts once.
func (s *QuoteService) ConvertToOrder(ctx context.Context, partnerID, id uuid.UUID) (*OrderResponse, error) {
	now := s.now().UTC()
	var order *trade.Order
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		quote, err := s.quoteRepo.FindByIDForPartner(ctx, partnerID, id)
		if err != nil {
			return err
		}
		seq, err := s.orderRepo.LastSequenceInMonth(ctx, partnerID, now)
		if err != nil {
			return err
		}
		o, err := trade.NewOrderFromQuote(quote, trade.FormatNumber(trade.OrderNumberPrefix, now, seq+1))
		if err != nil {
			return err
		}
		if err := quote.MarkConverted(o.ID); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, o); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return shared.AlreadyExists("Another order was created at the same time, please retry")
			}
			return err
		}
		if err := s.quoteRepo.Save(ctx, quote); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.publisher, s.logger, order)
	s.metrics.OrderPlaced(ctx, partnerID, order.Currency, order.Total, true)
	s.logger.Info("Quote converted to order",
		zap.String("partner_id", partnerID.String()),
		zap.String("quote_id", id.String()),
		zap.String("order_number", order.OrderNumber))

	response := ToOrderResponse(order)
	return &response, nil
}

// RenderPDF renders the quote with the partner's brand kit. It returns the
// PDF bytes and a download file name.
func (s *QuoteService) RenderPDF(ctx context.Context, partnerID, id uuid.UUID) ([]byte, string, error) {
	if s.printer == nil {
		return nil, "", ErrPDFUnavailable
	}
	ctx, span := telemetry.StartSpan(ctx, "quote", "render_pdf", attribute.String("quote.id", id.String()))
	defer span.End()

	quote, err := s.quoteRepo.FindByIDForPartner(ctx, partnerID, id)
	if err != nil {
		return nil, "", err
	}
	p, err := s.partnerRepo.FindByID(ctx, partnerID)
	if err != nil {
		return nil, "", err
	}

	doc := &QuoteDocument{
		Quote:        quote,
		PartnerName:  p.Name,
		PartnerEmail: p.ContactEmail,
		Website:      p.Website,
		Style:        brandkit.DefaultStyle(),
		GeneratedAt:  s.now().UTC(),
	}
	kit, err := s.kitRepo.FindByPartner(ctx, partnerID)
	switch {
	case err == nil:
		doc.Style = kit.Style()
		doc.LogoURL = s.logoURL(ctx, kit.LogoKey)
	case !errors.Is(err, shared.ErrNotFound):
		return nil, "", err
	}

	started := time.Now()
	pdf, err := s.printer.PrintQuote(ctx, doc)
	s.metrics.PDFRendered(ctx, time.Since(started), err)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Quote PDF rendering failed",
			zap.String("quote_id", id.String()),
			zap.Error(err))
		return nil, "", err
	}
	return pdf, quote.QuoteNumber + ".pdf", nil
}

func (s *QuoteService) logoURL(ctx context.Context, key string) string {
	if key == "" || s.storage == nil {
		return ""
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, key, logoURLExpiry)
	if err != nil {
		s.logger.Warn("Failed to presign logo URL", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

// ExpireOverdue moves up to limit sent quotes past valid_until to expired.
// One failing quote does not stop the sweep.
func (s *QuoteService) ExpireOverdue(ctx context.Context, limit int) (int, error) {
	now := s.now().UTC()
	quotes, err := s.quoteRepo.FindExpirable(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range quotes {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		q := &quotes[i]
		if err := q.Expire(now); err != nil {
			s.logger.Warn("Skipping quote in expiry sweep", zap.String("quote_id", q.ID.String()), zap.Error(err))
			continue
		}
		if err := s.quoteRepo.Save(ctx, q); err != nil {
			s.logger.Error("Failed to expire quote", zap.String("quote_id", q.ID.String()), zap.Error(err))
			continue
		}
		publishEvents(ctx, s.publisher, s.logger, q)
		expired++
	}
	s.metrics.QuotesExpired(ctx, expired)
	return expired, nil
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
