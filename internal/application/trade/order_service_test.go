package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/catalog"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	orders      *MockOrderRepository
	partners    *MockPartnerRepository
	products    *MockProductRepository
	collections *MockCollectionRepository
	publisher   *MockEventPublisher
	service     *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:      new(MockOrderRepository),
		partners:    new(MockPartnerRepository),
		products:    new(MockProductRepository),
		collections: new(MockCollectionRepository),
		publisher:   new(MockEventPublisher),
	}
	f.service = NewOrderService(f.orders, f.partners, f.products, f.collections, nil, f.publisher, nil, zap.NewNop())
	f.service.now = func() time.Time { return fixedNow }
	return f
}

func newActivePartner(t *testing.T) *partner.Partner {
	t.Helper()
	p, err := partner.NewPartner("Maison Lumière", "maison-lumiere", partner.BusinessTypePlanner, "hi@maison.example")
	require.NoError(t, err)
	require.NoError(t, p.Activate())
	return p
}

func newPendingOrder(t *testing.T, partnerID uuid.UUID) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(partnerID, "O-202606-0001", trade.OrderDraft{
		ClientName: "Ana",
		Currency:   "EUR",
		Lines: []trade.LineInput{{
			ProductID: uuid.New(), ProductName: "Arch", SKU: "ARC-1", Quantity: 1, UnitPrice: decimal.NewFromInt(500),
		}},
	})
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestOrderService_Create_PricesFromCollection(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p := newActivePartner(t)
	userID := uuid.New()

	chair := newProduct(t, "CHR-1", 12, "EUR")
	collection, err := catalog.NewCollection(p.ID, "Reception", "", "")
	require.NoError(t, err)
	override := decimal.NewFromInt(10)
	_, err = collection.AddItem(chair, "", &override)
	require.NoError(t, err)

	f.partners.On("FindByID", ctx, p.ID).Return(p, nil)
	f.collections.On("FindByIDForPartner", ctx, p.ID, collection.ID).Return(collection, nil)
	f.products.On("FindByIDs", ctx, []uuid.UUID{chair.ID}).Return([]catalog.Product{*chair}, nil)
	f.orders.On("LastSequenceInMonth", ctx, p.ID, fixedNow).Return(int64(41), nil)
	f.orders.On("Save", ctx, mock.AnythingOfType("*trade.Order")).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	ignored := decimal.NewFromInt(1)
	resp, err := f.service.Create(ctx, p.ID, userID, CreateOrderRequest{
		ClientName:   "Ana",
		Currency:     "EUR",
		CollectionID: &collection.ID,
		Lines:        []LineRequest{{ProductID: chair.ID, Quantity: 100, UnitPrice: &ignored}},
	})
	require.NoError(t, err)

	assert.Equal(t, "O-202606-0042", resp.OrderNumber)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(1000)), "orders ignore client-supplied prices")
	assert.Nil(t, resp.QuoteID)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_Create_RequiresActivePartner(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	p, err := partner.NewPartner("Pending Co", "", partner.BusinessTypeOther, "p@pending.example")
	require.NoError(t, err)
	f.partners.On("FindByID", ctx, p.ID).Return(p, nil)

	_, err = f.service.Create(ctx, p.ID, uuid.New(), CreateOrderRequest{
		ClientName: "Ana",
		Currency:   "EUR",
		Lines:      []LineRequest{{ProductID: uuid.New(), Quantity: 1}},
	})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "PARTNER_INACTIVE", de.Code)
	f.products.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestOrderService_Cancel(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	o := newPendingOrder(t, partnerID)

	f.orders.On("FindByIDForPartner", ctx, partnerID, o.ID).Return(o, nil)
	f.orders.On("Save", ctx, o).Return(nil)
	f.publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == trade.EventTypeOrderStatusChanged
	})).Return(nil)

	resp, err := f.service.Cancel(ctx, partnerID, o.ID, CancelOrderRequest{Reason: "Event postponed"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, "Event postponed", resp.CancelReason)
}

func TestOrderService_Cancel_AfterShipping(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	o := newPendingOrder(t, partnerID)
	for _, s := range []trade.OrderStatus{trade.OrderStatusConfirmed, trade.OrderStatusInProduction, trade.OrderStatusShipped} {
		require.NoError(t, o.TransitionTo(s, fixedNow))
	}
	f.orders.On("FindByIDForPartner", ctx, partnerID, o.ID).Return(o, nil)

	_, err := f.service.Cancel(ctx, partnerID, o.ID, CancelOrderRequest{Reason: "too late"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_AdminUpdate_Transition(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	o := newPendingOrder(t, uuid.New())
	status := "confirmed"

	f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
	f.orders.On("Save", ctx, o).Return(nil)
	f.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	resp, from, err := f.service.AdminUpdate(ctx, o.ID, UpdateOrderRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusPending, from)
	assert.Equal(t, "confirmed", resp.Status)
	assert.NotNil(t, resp.ConfirmedAt)
}

func TestOrderService_AdminUpdate_SkipIsRejected(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	o := newPendingOrder(t, uuid.New())
	status := "shipped"
	f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

	_, _, err := f.service.AdminUpdate(ctx, o.ID, UpdateOrderRequest{Status: &status})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestOrderService_AdminUpdate_CancelNeedsReason(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	o := newPendingOrder(t, uuid.New())
	status := "cancelled"
	f.orders.On("FindByID", ctx, o.ID).Return(o, nil)

	_, _, err := f.service.AdminUpdate(ctx, o.ID, UpdateOrderRequest{Status: &status})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestOrderService_AdminUpdate_ShippingOnly(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	o := newPendingOrder(t, uuid.New())
	address := "  12 Rue de la Paix, Paris  "
	f.orders.On("FindByID", ctx, o.ID).Return(o, nil)
	f.orders.On("Save", ctx, o).Return(nil)

	resp, _, err := f.service.AdminUpdate(ctx, o.ID, UpdateOrderRequest{ShippingAddress: &address})
	require.NoError(t, err)
	assert.Equal(t, "12 Rue de la Paix, Paris", resp.ShippingAddress)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_AdminUpdate_Empty(t *testing.T) {
	f := newOrderFixture()
	_, _, err := f.service.AdminUpdate(context.Background(), uuid.New(), UpdateOrderRequest{})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestOrderService_AdminList(t *testing.T) {
	f := newOrderFixture()
	ctx := context.Background()
	partnerID := uuid.New()
	o := newPendingOrder(t, partnerID)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = "pending"
	filter.Filters["partner_id"] = partnerID
	f.orders.On("FindAll", ctx, filter.Normalize()).Return([]trade.Order{*o}, int64(1), nil)

	items, total, err := f.service.AdminList(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, partnerID, items[0].PartnerID)
}
