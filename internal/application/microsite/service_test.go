package microsite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	brandkitapp "github.com/luminform/atelier/internal/application/brandkit"
	"github.com/luminform/atelier/internal/domain/brandkit"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/microsite"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockRepository is a mock implementation of microsite.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByIDForPartner(ctx context.Context, partnerID, id uuid.UUID) (*microsite.Microsite, error) {
	args := m.Called(ctx, partnerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*microsite.Microsite), args.Error(1)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*microsite.Microsite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*microsite.Microsite), args.Error(1)
}

func (m *MockRepository) FindBySlug(ctx context.Context, slug string) (*microsite.Microsite, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*microsite.Microsite), args.Error(1)
}

func (m *MockRepository) FindAllForPartner(ctx context.Context, partnerID uuid.UUID, filter shared.Filter) ([]microsite.Microsite, int64, error) {
	args := m.Called(ctx, partnerID, filter)
	return args.Get(0).([]microsite.Microsite), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]microsite.Microsite, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]microsite.Microsite), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) CountPublishedByCollection(ctx context.Context, collectionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, site *microsite.Microsite) error {
	return m.Called(ctx, site).Error(0)
}

func (m *MockRepository) DeleteForPartner(ctx context.Context, partnerID, id uuid.UUID) error {
	return m.Called(ctx, partnerID, id).Error(0)
}

func (m *MockRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
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
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	args := m.Called(ctx, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
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
	return args.Get(0).(map[partner.Status]int64), args.Error(1)
}

func (m *MockPartnerRepository) CreatedBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]time.Time), args.Error(1)
}

// MockAppearance is a mock implementation of AppearanceProvider
type MockAppearance struct {
	mock.Mock
}

func (m *MockAppearance) Appearance(ctx context.Context, partnerID uuid.UUID) (*brandkitapp.Appearance, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*brandkitapp.Appearance), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

var fixedNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	sites       *MockRepository
	collections *MockCollectionRepository
	products    *MockProductRepository
	partners    *MockPartnerRepository
	appearance  *MockAppearance
	publisher   *MockEventPublisher
	service     *Service
}

func newFixture() *fixture {
	f := &fixture{
		sites:       new(MockRepository),
		collections: new(MockCollectionRepository),
		products:    new(MockProductRepository),
		partners:    new(MockPartnerRepository),
		appearance:  new(MockAppearance),
		publisher:   new(MockEventPublisher),
	}
	f.service = NewService(ServiceDeps{
		Microsites:  f.sites,
		Collections: f.collections,
		Products:    f.products,
		Partners:    f.partners,
		Appearance:  f.appearance,
		Publisher:   f.publisher,
		Logger:      zap.NewNop(),
	})
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func newProduct(t *testing.T, sku string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Product "+sku, "decor", decimal.NewFromInt(price), "EUR")
	require.NoError(t, err)
	return p
}

func newCollection(t *testing.T, partnerID uuid.UUID, publish bool, products ...*catalog.Product) *catalog.Collection {
	t.Helper()
	c, err := catalog.NewCollection(partnerID, "Summer Garden", "", "")
	require.NoError(t, err)
	for _, p := range products {
		_, err := c.AddItem(p, "", nil)
		require.NoError(t, err)
	}
	if publish {
		require.NoError(t, c.Publish())
	}
	c.ClearDomainEvents()
	return c
}

func newSite(t *testing.T, partnerID, collectionID uuid.UUID) *microsite.Microsite {
	t.Helper()
	m, err := microsite.NewMicrosite(partnerID, collectionID, "", microsite.Content{Title: "Summer Weddings"})
	require.NoError(t, err)
	return m
}

func TestService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	c := newCollection(t, partnerID, false)

	f.collections.On("FindByIDForPartner", ctx, partnerID, c.ID).Return(c, nil)
	f.sites.On("ExistsBySlug", ctx, "summer-weddings", uuid.Nil).Return(false, nil)
	f.sites.On("Save", ctx, mock.AnythingOfType("*microsite.Microsite")).Return(nil)

	resp, err := f.service.Create(ctx, partnerID, uuid.New(), CreateMicrositeRequest{CollectionID: c.ID, Title: "Summer Weddings"})
	require.NoError(t, err)
	assert.Equal(t, "summer-weddings", resp.Slug)
	assert.Equal(t, "/m/summer-weddings", resp.PublicPath)
	assert.Equal(t, "draft", resp.Status)
}

func TestService_Create_ForeignCollection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	partnerID, collectionID := uuid.New(), uuid.New()
	f.collections.On("FindByIDForPartner", ctx, partnerID, collectionID).Return(nil, shared.NotFound("Collection"))

	_, err := f.service.Create(ctx, partnerID, uuid.New(), CreateMicrositeRequest{CollectionID: collectionID, Title: "X"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.sites.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Create_SlugTaken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	c := newCollection(t, partnerID, false)
	f.collections.On("FindByIDForPartner", ctx, partnerID, c.ID).Return(c, nil)
	f.sites.On("ExistsBySlug", ctx, "garden", uuid.Nil).Return(true, nil)

	_, err := f.service.Create(ctx, partnerID, uuid.New(), CreateMicrositeRequest{CollectionID: c.ID, Slug: "garden", Title: "Garden"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestService_Publish_RequiresPublishedCollection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	c := newCollection(t, partnerID, false, newProduct(t, "A-1", 10))
	site := newSite(t, partnerID, c.ID)
	f.sites.On("FindByIDForPartner", ctx, partnerID, site.ID).Return(site, nil)
	f.collections.On("FindByIDForPartner", ctx, partnerID, c.ID).Return(c, nil)

	_, err := f.service.Publish(ctx, partnerID, site.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.sites.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Publish(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	c := newCollection(t, partnerID, true, newProduct(t, "A-1", 10))
	site := newSite(t, partnerID, c.ID)
	f.sites.On("FindByIDForPartner", ctx, partnerID, site.ID).Return(site, nil)
	f.collections.On("FindByIDForPartner", ctx, partnerID, c.ID).Return(c, nil)
	f.sites.On("Save", ctx, site).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == microsite.EventTypeMicrositeStatusChanged
	})).Return(nil)

	resp, err := f.service.Publish(ctx, partnerID, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "published", resp.Status)
	assert.Equal(t, fixedNow, *resp.PublishedAt)
	f.publisher.AssertExpectations(t)
}

func TestService_Update_PublishedNeedsPublishedCollection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	live := newCollection(t, partnerID, true, newProduct(t, "A-1", 10))
	draft := newCollection(t, partnerID, false)
	site := newSite(t, partnerID, live.ID)
	require.NoError(t, site.Publish(true, fixedNow))

	f.sites.On("FindByIDForPartner", ctx, partnerID, site.ID).Return(site, nil)
	f.collections.On("FindByIDForPartner", ctx, partnerID, draft.ID).Return(draft, nil)

	_, err := f.service.Update(ctx, partnerID, site.ID, UpdateMicrositeRequest{CollectionID: &draft.ID, Title: "Summer Weddings"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestService_AdminUnpublish(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	site := newSite(t, uuid.New(), uuid.New())
	require.NoError(t, site.Publish(true, fixedNow))
	site.ClearDomainEvents()
	f.sites.On("FindByID", ctx, site.ID).Return(site, nil)
	f.sites.On("Save", ctx, site).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("nats down"))

	resp, err := f.service.AdminUnpublish(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "unpublished", resp.Status)
}

func activePartner(t *testing.T) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner("Atelier Rose", "atelier-rose", partner.BusinessTypeVenue, "rose@atelier.example")
	require.NoError(t, err)
	require.NoError(t, p.Activate())
	return p
}

func TestService_RenderPublic(t *testing.T) {
	f := newFixture()
	ctx := mock.Anything
	p := activePartner(t)
	chair, lantern, retired := newProduct(t, "CHR-1", 12), newProduct(t, "LAN-1", 30), newProduct(t, "OLD-1", 5)
	c := newCollection(t, p.ID, false, chair, lantern, retired)
	override := decimal.NewFromInt(9)
	c.Items[0].PriceOverride = &override
	require.NoError(t, c.Publish())
	retired.Deactivate()
	site := newSite(t, p.ID, c.ID)
	require.NoError(t, site.Publish(true, fixedNow))

	style := brandkit.DefaultStyle()
	style.PrimaryColor = "#123456"
	f.sites.On("FindBySlug", ctx, "summer-weddings").Return(site, nil)
	f.partners.On("FindByID", ctx, p.ID).Return(p, nil)
	f.collections.On("FindByIDForPartner", ctx, p.ID, c.ID).Return(c, nil)
	f.products.On("FindByIDs", ctx, []uuid.UUID{chair.ID, lantern.ID, retired.ID}).
		Return([]catalog.Product{*lantern, *chair, *retired}, nil)
	f.appearance.On("Appearance", ctx, p.ID).Return(&brandkitapp.Appearance{Style: style, LogoURL: "https://cdn.example/logo.png"}, nil)
	f.sites.On("IncrementViews", ctx, site.ID).Return(nil)

	page, err := f.service.RenderPublic(context.Background(), "summer-weddings")
	require.NoError(t, err)
	assert.Equal(t, "Atelier Rose", page.PartnerName)
	require.Len(t, page.Items, 2, "inactive products are hidden")
	assert.Equal(t, "Product CHR-1", page.Items[0].Name)
	assert.True(t, page.Items[0].Price.Equal(override))
	assert.True(t, page.Items[1].Price.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, "#123456", page.Appearance.Style.PrimaryColor)
	f.sites.AssertCalled(t, "IncrementViews", ctx, site.ID)
}

func TestService_RenderPublic_DraftIsNotFound(t *testing.T) {
	f := newFixture()
	site := newSite(t, uuid.New(), uuid.New())
	f.sites.On("FindBySlug", mock.Anything, "summer-weddings").Return(site, nil)

	_, err := f.service.RenderPublic(context.Background(), "summer-weddings")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.sites.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestService_RenderPublic_SuspendedPartnerIsNotFound(t *testing.T) {
	f := newFixture()
	p := activePartner(t)
	require.NoError(t, p.Suspend("chargeback"))
	site := newSite(t, p.ID, uuid.New())
	require.NoError(t, site.Publish(true, fixedNow))
	f.sites.On("FindBySlug", mock.Anything, "summer-weddings").Return(site, nil)
	f.partners.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	_, err := f.service.RenderPublic(context.Background(), "summer-weddings")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_RenderPublic_CachedPageStillCountsViews(t *testing.T) {
	f := newFixture()
	f.service.pages = cache.NewMemoryStore()
	anyArg := mock.Anything
	p := activePartner(t)
	chair := newProduct(t, "CHR-1", 12)
	c := newCollection(t, p.ID, true, chair)
	site := newSite(t, p.ID, c.ID)
	require.NoError(t, site.Publish(true, fixedNow))
	site.ClearDomainEvents()

	f.sites.On("FindBySlug", anyArg, "summer-weddings").Return(site, nil)
	f.partners.On("FindByID", anyArg, p.ID).Return(p, nil)
	f.collections.On("FindByIDForPartner", anyArg, p.ID, c.ID).Return(c, nil)
	f.products.On("FindByIDs", anyArg, []uuid.UUID{chair.ID}).Return([]catalog.Product{*chair}, nil)
	f.appearance.On("Appearance", anyArg, p.ID).Return(&brandkitapp.Appearance{Style: brandkit.DefaultStyle()}, nil)
	f.sites.On("IncrementViews", anyArg, site.ID).Return(nil)

	for range 3 {
		page, err := f.service.RenderPublic(context.Background(), "summer-weddings")
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.True(t, page.Items[0].Price.Equal(decimal.NewFromInt(12)))
	}
	f.sites.AssertNumberOfCalls(t, "FindBySlug", 1)
	f.sites.AssertNumberOfCalls(t, "IncrementViews", 3)

	f.sites.On("FindByID", anyArg, site.ID).Return(site, nil)
	f.sites.On("Save", anyArg, site).Return(nil)
	f.publisher.On("Publish", anyArg, anyArg).Return(nil)
	_, err := f.service.AdminUnpublish(context.Background(), site.ID)
	require.NoError(t, err)

	_, err = f.service.RenderPublic(context.Background(), "summer-weddings")
	assert.ErrorIs(t, err, shared.ErrNotFound, "unpublishing drops the cached page")
	f.sites.AssertNumberOfCalls(t, "FindBySlug", 2)
	f.sites.AssertNumberOfCalls(t, "IncrementViews", 3)
}
