package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyStat is one month of a dashboard series
type MonthlyStat struct {
	Month       string          `json:"month"`
	Orders      int64           `json:"orders"`
	Revenue     decimal.Decimal `json:"revenue"`
	NewPartners int64           `json:"new_partners"`
}

// Growth is month-over-month growth in percent
type Growth struct {
	Orders      decimal.Decimal `json:"orders"`
	Revenue     decimal.Decimal `json:"revenue"`
	NewPartners decimal.Decimal `json:"new_partners"`
}

// OverviewResponse is the platform-wide back-office dashboard
type OverviewResponse struct {
	From             time.Time        `json:"from"`
	To               time.Time        `json:"to"`
	Months           int              `json:"months"`
	PartnersByStatus map[string]int64 `json:"partners_by_status"`
	TotalPartners    int64            `json:"total_partners"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	TotalOrders      int64            `json:"total_orders"`
	Revenue          decimal.Decimal  `json:"revenue"`
	Monthly          []MonthlyStat    `json:"monthly"`
	Growth           Growth           `json:"growth"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// PartnerDashboardResponse is a partner's own dashboard
type PartnerDashboardResponse struct {
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	Months         int              `json:"months"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	QuotesByStatus map[string]int64 `json:"quotes_by_status"`
	Revenue        decimal.Decimal  `json:"revenue"`
	ConversionRate decimal.Decimal  `json:"conversion_rate"`
	Monthly        []MonthlyStat    `json:"monthly"`
	Growth         Growth           `json:"growth"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
