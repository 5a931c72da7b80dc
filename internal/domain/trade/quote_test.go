package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(qty int, price string) LineInput {
	return LineInput{
		ProductID:   uuid.New(),
		ProductName: "Linen Runner",
		SKU:         "LINEN-RUN",
		Quantity:    qty,
		UnitPrice:   dec(price),
	}
}

func newDraft(t *testing.T, validUntil time.Time) *Quote {
	t.Helper()
	q, err := NewQuote(uuid.New(), "Q-202606-0001", "Ana Ruiz", "ana@example.com", "usd", validUntil)
	require.NoError(t, err)
	return q
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    []LineInput
		discount string
		rate     string
		subtotal string
		tax      string
		total    string
	}{
		{"no tax no discount", []LineInput{line(2, "10.00"), line(1, "5.50")}, "0", "0", "25.50", "0", "25.50"},
		{"tax on discounted amount", []LineInput{line(3, "100")}, "50", "0.08", "300", "20", "270"},
		{"tax rounds half up", []LineInput{line(1, "10.05")}, "0", "0.05", "10.05", "0.50", "10.55"},
		{"discount equal to subtotal", []LineInput{line(1, "40")}, "40", "0.2", "40", "0", "0"},
		{"empty lines", nil, "0", "0.1", "0", "0", "0"},
		{"discount rounds before subtracting", []LineInput{line(1, "10")}, "1.005", "0", "10", "0", "8.99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTotals(tt.lines, dec(tt.discount), dec(tt.rate))
			require.NoError(t, err)
			assert.True(t, got.Subtotal.Equal(dec(tt.subtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.TaxAmount.Equal(dec(tt.tax)), "tax %s", got.TaxAmount)
			assert.True(t, got.Total.Equal(dec(tt.total)), "total %s", got.Total)
			stored := got.Subtotal.Sub(got.Discount).Add(got.TaxAmount)
			assert.True(t, stored.Equal(got.Total), "stored fields sum to %s, total %s", stored, got.Total)
		})
	}

	t.Run("rejects invalid pricing", func(t *testing.T) {
		_, err := ComputeTotals([]LineInput{line(1, "10")}, dec("-1"), decimal.Zero)
		assert.Error(t, err)
		_, err = ComputeTotals([]LineInput{line(1, "10")}, dec("10.01"), decimal.Zero)
		assert.Error(t, err)
		_, err = ComputeTotals([]LineInput{line(1, "10")}, decimal.Zero, dec("1.01"))
		assert.Error(t, err)
		_, err = ComputeTotals([]LineInput{line(0, "10")}, decimal.Zero, decimal.Zero)
		assert.Error(t, err)
		_, err = ComputeTotals([]LineInput{line(1, "-3")}, decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestFormatNumber(t *testing.T) {
	at := time.Date(2026, time.June, 30, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "Q-202606-0007", FormatNumber("q", at, 7))
	assert.Equal(t, "O-202606-12345", FormatNumber("O", at, 12345))
	assert.Equal(t, "Q-202606-", NumberMonthPrefix("q", at))
}

func TestNumberSequence(t *testing.T) {
	seq, err := NumberSequence("Q-202606-0007")
	require.NoError(t, err)
	assert.Equal(t, int64(7), seq)

	seq, err = NumberSequence("O-202606-12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), seq)

	for _, bad := range []string{"", "Q-202606-", "Q-202606-abc", "Q0007"} {
		_, err := NumberSequence(bad)
		assert.Error(t, err, bad)
	}
}

func TestQuoteLifecycle(t *testing.T) {
	now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	validUntil := now.Add(14 * 24 * time.Hour)

	t.Run("send requires lines", func(t *testing.T) {
		q := newDraft(t, validUntil)
		assert.ErrorIs(t, q.Send(now), shared.ErrInvalidState)
	})

	t.Run("send requires client email", func(t *testing.T) {
		q, err := NewQuote(uuid.New(), "Q-1", "Ana", "", "USD", validUntil)
		require.NoError(t, err)
		require.NoError(t, q.ReplaceLines([]LineInput{line(1, "10")}, decimal.Zero, decimal.Zero))
		assert.ErrorIs(t, q.Send(now), shared.ErrInvalidState)
	})

	t.Run("accept after send", func(t *testing.T) {
		q := newDraft(t, validUntil)
		require.NoError(t, q.ReplaceLines([]LineInput{line(2, "125")}, dec("50"), dec("0.1")))
		assert.True(t, q.Total.Equal(dec("220")))
		require.NoError(t, q.Send(now))
		assert.Equal(t, QuoteStatusSent, q.Status)

		assert.ErrorIs(t, q.SetNotes("late edit"), shared.ErrInvalidState)
		assert.ErrorIs(t, q.ReplaceLines(nil, decimal.Zero, decimal.Zero), shared.ErrInvalidState)

		require.NoError(t, q.Accept(now.Add(time.Hour)))
		assert.Equal(t, QuoteStatusAccepted, q.Status)
		assert.NotNil(t, q.RespondedAt)
		assert.Len(t, q.GetDomainEvents(), 2)

		assert.ErrorIs(t, q.Decline(now), shared.ErrInvalidState)
	})

	t.Run("accept after expiry is rejected", func(t *testing.T) {
		q := newDraft(t, validUntil)
		require.NoError(t, q.ReplaceLines([]LineInput{line(1, "10")}, decimal.Zero, decimal.Zero))
		require.NoError(t, q.Send(now))
		late := validUntil.Add(time.Minute)
		assert.ErrorIs(t, q.Accept(late), shared.ErrInvalidState)
		require.NoError(t, q.Expire(late))
		assert.Equal(t, QuoteStatusExpired, q.Status)
	})

	t.Run("expire before deadline is rejected", func(t *testing.T) {
		q := newDraft(t, validUntil)
		require.NoError(t, q.ReplaceLines([]LineInput{line(1, "10")}, decimal.Zero, decimal.Zero))
		require.NoError(t, q.Send(now))
		assert.ErrorIs(t, q.Expire(now), shared.ErrInvalidState)
	})

	t.Run("decline", func(t *testing.T) {
		q := newDraft(t, validUntil)
		require.NoError(t, q.ReplaceLines([]LineInput{line(1, "10")}, decimal.Zero, decimal.Zero))
		require.NoError(t, q.Send(now))
		require.NoError(t, q.Decline(now))
		assert.Equal(t, QuoteStatusDeclined, q.Status)
	})
}

func TestNewQuoteValidation(t *testing.T) {
	until := time.Now().Add(time.Hour)
	_, err := NewQuote(uuid.Nil, "Q-1", "Ana", "", "USD", until)
	assert.Error(t, err)
	_, err = NewQuote(uuid.New(), "", "Ana", "", "USD", until)
	assert.Error(t, err)
	_, err = NewQuote(uuid.New(), "Q-1", " ", "", "USD", until)
	assert.Error(t, err)
	_, err = NewQuote(uuid.New(), "Q-1", "Ana", "not-an-email", "USD", until)
	assert.Error(t, err)
	_, err = NewQuote(uuid.New(), "Q-1", "Ana", "", "US", until)
	assert.Error(t, err)
	_, err = NewQuote(uuid.New(), "Q-1", "Ana", "", "USD", time.Time{})
	assert.Error(t, err)
}
