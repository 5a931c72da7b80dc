package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

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

// MockMicrositeUsage is a mock implementation of MicrositeUsage
type MockMicrositeUsage struct {
	mock.Mock
}

func (m *MockMicrositeUsage) CountPublishedByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}
