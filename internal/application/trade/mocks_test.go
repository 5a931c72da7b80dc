package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// MockQuoteRepository is a mock implementation of trade.QuoteRepository
type MockQuoteRepository struct {
	mock.Mock
}

func (m *MockQuoteRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*trade.Quote, error) {
	args := m.Called(ctx, partnerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Quote), args.Error(1)
}

func (m *MockQuoteRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]trade.Quote, int64, error) {
	args := m.Called(ctx, partnerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Quote), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuoteRepository) Save(ctx context.Context, q *trade.Quote) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuoteRepository) DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

func (m *MockQuoteRepository) LastSequenceInMonth(ctx context.Context, partnerID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, partnerID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuoteRepository) FindExpirable(ctx context.Context, now time.Time, limit int) ([]trade.Quote, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Quote), args.Error(1)
}

func (m *MockQuoteRepository) CountByStatusForPartner(ctx context.Context, partnerID uuid.UUID) (map[trade.QuoteStatus]int64, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[trade.QuoteStatus]int64), args.Error(1)
}

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, partnerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	args := m.Called(ctx, partnerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]trade.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *trade.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) LastSequenceInMonth(ctx context.Context, partnerID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, partnerID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, partnerID *uuid.UUID) (map[trade.OrderStatus]int64, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[trade.OrderStatus]int64), args.Error(1)
}

func (m *MockOrderRepository) ListForAnalytics(ctx context.Context, partnerID *uuid.UUID, from, to time.Time) ([]trade.OrderPoint, error) {
	args := m.Called(ctx, partnerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.OrderPoint), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

// MockCollectionRepository is a mock implementation of catalog.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*catalog.Collection, error) {
	args := m.Called(ctx, partnerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]catalog.Collection, int64, error) {
	args := m.Called(ctx, partnerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]catalog.Collection), args.Get(1).(int64), args.Error(2)
}

func (m *MockCollectionRepository) ExistsBySlug(ctx context.Context, partnerID uuid.UUID, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, partnerID, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCollectionRepository) Save(ctx context.Context, c *catalog.Collection) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCollectionRepository) DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

// MockPartnerRepository is a mock implementation of partner.Repository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindBySlug(ctx context.Context, slug string) (*partner.Partner, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]partner.Partner), args.Get(1).(int64), args.Error(2)
}

func (m *MockPartnerRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) CountByStatus(ctx context.Context) (map[partner.Status]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[partner.Status]int64), args.Error(1)
}

func (m *MockPartnerRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockBrandKitRepository is a mock implementation of brandkit.Repository
type MockBrandKitRepository struct {
	mock.Mock
}

func (m *MockBrandKitRepository) FindByPartner(ctx context.Context, partnerID uuid.UUID) (*brandkit.BrandKit, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brandkit.BrandKit), args.Error(1)
}

func (m *MockBrandKitRepository) Save(ctx context.Context, kit *brandkit.BrandKit) error {
	return m.Called(ctx, kit).Error(0)
}

// MockObjectStorage is a mock implementation of brandkitapp.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) StatObject(ctx context.Context, key string) (*brandkitapp.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brandkitapp.ObjectInfo), args.Error(1)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// MockQuotePrinter is a mock implementation of QuotePrinter
type MockQuotePrinter struct {
	mock.Mock
}

func (m *MockQuotePrinter) PrintQuote(ctx context.Context, doc *QuoteDocument) ([]byte, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
