// Package analytics holds the pure aggregation rules behind the dashboards.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout is the bucket key format
const MonthLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// Point is one observation to bucket, e.g. an order total at its creation time
type Point struct {
	At     time.Time
	Amount decimal.Decimal
}

// MonthBucket aggregates the points that fall in one calendar month (UTC)
type MonthBucket struct {
	Month  string          `json:"month"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// GroupByMonth buckets points into contiguous months from from's month to
// to's month inclusive. Months with no points produce zero buckets and
// points outside the range are ignored. It returns nil when to is before from.
func GroupByMonth(points []Point, from, to time.Time) []MonthBucket {
	start := monthStart(from)
	end := monthStart(to)
	if end.Before(start) {
		return nil
	}

	buckets := make([]MonthBucket, 0, monthsBetween(start, end)+1)
	index := make(map[string]int)
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		key := m.Format(MonthLayout)
		index[key] = len(buckets)
		buckets = append(buckets, MonthBucket{Month: key, Amount: decimal.Zero})
	}

	for _, p := range points {
		i, ok := index[p.At.UTC().Format(MonthLayout)]
		if !ok {
			continue
		}
		buckets[i].Count++
		buckets[i].Amount = buckets[i].Amount.Add(p.Amount)
	}
	return buckets
}

// LastMonths returns the window [first day of month n-1 months ago, now]
func LastMonths(now time.Time, n int) (time.Time, time.Time) {
	if n < 1 {
		n = 1
	}
	end := now.UTC()
	return monthStart(end).AddDate(0, -(n - 1), 0), end
}

// GrowthRate returns (cur-prev)/prev*100 rounded to 2 decimals.
// prev == 0 yields 100 when cur > 0 and 0 otherwise.
func GrowthRate(prev, cur decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if cur.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev.Abs()).Mul(hundred).Round(2)
}

// GrowthRateInt is GrowthRate for counts
func GrowthRateInt(prev, cur int64) decimal.Decimal {
	return GrowthRate(decimal.NewFromInt(prev), decimal.NewFromInt(cur))
}

// ConversionRate returns accepted/(accepted+declined+expired)*100 rounded to
// 2 decimals, or 0 when no quote has been answered yet.
func ConversionRate(accepted, declined, expired int64) decimal.Decimal {
	answered := accepted + declined + expired
	if answered <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(accepted).Div(decimal.NewFromInt(answered)).Mul(hundred).Round(2)
}

// MonthOverMonth compares the last two buckets of a series
type MonthOverMonth struct {
	CountGrowth  decimal.Decimal `json:"count_growth"`
	AmountGrowth decimal.Decimal `json:"amount_growth"`
}

// CompareLastTwo computes growth between the final two buckets.
// A series shorter than two months has zero growth.
func CompareLastTwo(series []MonthBucket) MonthOverMonth {
	if len(series) < 2 {
		return MonthOverMonth{CountGrowth: decimal.Zero, AmountGrowth: decimal.Zero}
	}
	prev, cur := series[len(series)-2], series[len(series)-1]
	return MonthOverMonth{
		CountGrowth:  GrowthRateInt(prev.Count, cur.Count),
		AmountGrowth: GrowthRate(prev.Amount, cur.Amount),
	}
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
