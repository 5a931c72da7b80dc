package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptedQuote(t *testing.T) *Quote {
	t.Helper()
	now := time.Now().UTC()
	q := newDraft(t, now.Add(24*time.Hour))
	require.NoError(t, q.ReplaceLines([]LineInput{line(4, "12.50"), line(1, "80")}, dec("10"), dec("0.1")))
	require.NoError(t, q.Send(now))
	require.NoError(t, q.Accept(now))
	q.ClearDomainEvents()
	return q
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusConfirmed}:      true,
		{OrderStatusConfirmed, OrderStatusInProduction}: true,
		{OrderStatusInProduction, OrderStatusShipped}:   true,
		{OrderStatusShipped, OrderStatusDelivered}:      true,
		{OrderStatusPending, OrderStatusCancelled}:      true,
		{OrderStatusConfirmed, OrderStatusCancelled}:    true,
		{OrderStatusInProduction, OrderStatusCancelled}: true,
	}
	for _, from := range AllOrderStatuses {
		for _, to := range AllOrderStatuses {
			assert.Equal(t, allowed[[2]OrderStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestNewOrderFromQuote(t *testing.T) {
	q := acceptedQuote(t)
	o, err := NewOrderFromQuote(q, "O-202606-0001")
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, o.Status)
	assert.Equal(t, q.PartnerID, o.PartnerID)
	require.NotNil(t, o.QuoteID)
	assert.Equal(t, q.ID, *o.QuoteID)
	assert.True(t, o.Total.Equal(q.Total))
	assert.True(t, o.TaxAmount.Equal(q.TaxAmount))
	require.Len(t, o.Items, 2)
	assert.Equal(t, o.ID, o.Items[0].OrderID)
	assert.True(t, o.Items[0].LineTotal.Equal(dec("50")))

	require.NoError(t, q.MarkConverted(o.ID))
	assert.ErrorIs(t, q.MarkConverted(uuid.New()), shared.ErrInvalidState)
	_, err = NewOrderFromQuote(q, "O-202606-0002")
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	draft := newDraft(t, time.Now().Add(time.Hour))
	_, err = NewOrderFromQuote(draft, "O-1")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestNewOrder(t *testing.T) {
	o, err := NewOrder(uuid.New(), "O-202606-0003", OrderDraft{
		ClientName: "Grand Hall",
		Currency:   "eur",
		Lines:      []LineInput{line(10, "3.20")},
		TaxRate:    dec("0.2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", o.Currency)
	assert.True(t, o.Total.Equal(dec("38.4")))
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeOrderPlaced, o.GetDomainEvents()[0].EventType())

	_, err = NewOrder(uuid.New(), "O-1", OrderDraft{ClientName: "x", Currency: "EUR"})
	assert.Error(t, err)
	_, err = NewOrder(uuid.New(), "O-1", OrderDraft{ClientName: "x", Currency: "EUR", Lines: []LineInput{line(1, "1")}, Discount: dec("2")})
	assert.Error(t, err)
}

func TestOrderTransitions(t *testing.T) {
	now := time.Now()
	o, err := NewOrderFromQuote(acceptedQuote(t), "O-1")
	require.NoError(t, err)

	assert.ErrorIs(t, o.TransitionTo(OrderStatusShipped, now), shared.ErrInvalidState)
	assert.ErrorIs(t, o.TransitionTo(OrderStatusCancelled, now), shared.ErrInvalidInput)
	assert.Error(t, o.TransitionTo(OrderStatus("lost"), now))

	require.NoError(t, o.TransitionTo(OrderStatusConfirmed, now))
	assert.NotNil(t, o.ConfirmedAt)
	require.NoError(t, o.TransitionTo(OrderStatusInProduction, now))
	require.NoError(t, o.UpdateShipping("1 Rose Lane"))
	require.NoError(t, o.TransitionTo(OrderStatusShipped, now))
	assert.NotNil(t, o.ShippedAt)
	assert.ErrorIs(t, o.Cancel("too late", now), shared.ErrInvalidState)
	assert.ErrorIs(t, o.UpdateShipping("elsewhere"), shared.ErrInvalidState)
	require.NoError(t, o.TransitionTo(OrderStatusDelivered, now))
	assert.True(t, o.Status.IsTerminal())
	assert.True(t, o.CountsAsRevenue())
}

func TestOrderCancel(t *testing.T) {
	now := time.Now()
	o, err := NewOrderFromQuote(acceptedQuote(t), "O-1")
	require.NoError(t, err)
	o.ClearDomainEvents()

	assert.ErrorIs(t, o.Cancel("  ", now), shared.ErrInvalidInput)
	require.NoError(t, o.Cancel("event postponed", now))
	assert.Equal(t, OrderStatusCancelled, o.Status)
	assert.Equal(t, "event postponed", o.CancelReason)
	assert.False(t, o.CountsAsRevenue())

	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(*OrderStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, OrderStatusPending, changed.From)
	assert.Equal(t, OrderStatusCancelled, changed.To)

	assert.ErrorIs(t, o.TransitionTo(OrderStatusConfirmed, now), shared.ErrInvalidState)
}
