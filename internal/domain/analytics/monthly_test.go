package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestGroupByMonth(t *testing.T) {
	points := []Point{
		{At: day(2025, time.November, 3), Amount: decimal.NewFromInt(100)},
		{At: day(2025, time.November, 28), Amount: decimal.RequireFromString("50.25")},
		{At: day(2026, time.January, 15), Amount: decimal.NewFromInt(10)},
		{At: day(2024, time.January, 1), Amount: decimal.NewFromInt(999)},
	}

	got := GroupByMonth(points, day(2025, time.October, 20), day(2026, time.February, 1))
	require.Len(t, got, 5)

	months := make([]string, 0, len(got))
	for _, b := range got {
		months = append(months, b.Month)
	}
	assert.Equal(t, []string{"2025-10", "2025-11", "2025-12", "2026-01", "2026-02"}, months)

	assert.Equal(t, int64(0), got[0].Count)
	assert.True(t, got[0].Amount.IsZero())
	assert.Equal(t, int64(2), got[1].Count)
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("150.25")))
	assert.Equal(t, int64(0), got[2].Count)
	assert.Equal(t, int64(1), got[3].Count)

	t.Run("single month", func(t *testing.T) {
		got := GroupByMonth(nil, day(2026, time.March, 31), day(2026, time.March, 1))
		require.Len(t, got, 1)
		assert.Equal(t, "2026-03", got[0].Month)
	})

	t.Run("reversed range", func(t *testing.T) {
		assert.Nil(t, GroupByMonth(points, day(2026, time.March, 1), day(2026, time.January, 1)))
	})

	t.Run("non-UTC timestamps bucket by UTC month", func(t *testing.T) {
		loc := time.FixedZone("UTC+10", 10*3600)
		p := Point{At: time.Date(2026, time.April, 1, 5, 0, 0, 0, loc), Amount: decimal.NewFromInt(1)}
		got := GroupByMonth([]Point{p}, day(2026, time.March, 1), day(2026, time.April, 1))
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].Count)
	})
}

func TestLastMonths(t *testing.T) {
	from, to := LastMonths(day(2026, time.February, 17), 12)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, day(2026, time.February, 17), to)
	assert.Len(t, GroupByMonth(nil, from, to), 12)

	from, _ = LastMonths(day(2026, time.February, 17), 0)
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), from)
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		prev, cur string
		want      string
	}{
		{"0", "0", "0"},
		{"0", "5", "100"},
		{"0", "-5", "0"},
		{"100", "150", "50"},
		{"200", "100", "-50"},
		{"3", "4", "33.33"},
		{"3", "5", "66.67"},
		{"10", "10", "0"},
	}
	for _, tt := range tests {
		got := GrowthRate(decimal.RequireFromString(tt.prev), decimal.RequireFromString(tt.cur))
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%s -> %s = %s", tt.prev, tt.cur, got)
	}
	assert.True(t, GrowthRateInt(4, 1).Equal(decimal.NewFromInt(-75)))
}

func TestConversionRate(t *testing.T) {
	assert.True(t, ConversionRate(0, 0, 0).IsZero())
	assert.True(t, ConversionRate(1, 1, 1).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, ConversionRate(3, 1, 0).Equal(decimal.NewFromInt(75)))
}

func TestCompareLastTwo(t *testing.T) {
	series := []MonthBucket{
		{Month: "2026-01", Count: 2, Amount: decimal.NewFromInt(200)},
		{Month: "2026-02", Count: 3, Amount: decimal.NewFromInt(100)},
	}
	mom := CompareLastTwo(series)
	assert.True(t, mom.CountGrowth.Equal(decimal.NewFromInt(50)))
	assert.True(t, mom.AmountGrowth.Equal(decimal.NewFromInt(-50)))

	assert.True(t, CompareLastTwo(series[:1]).CountGrowth.IsZero())
}
