package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/luminform/atelier/internal/domain/analytics"
	"github.com/luminform/atelier/internal/domain/partner"
	"github.com/luminform/atelier/internal/domain/trade"
	"github.com/luminform/atelier/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxMonths = 36

// ServiceConfig holds the default window and cache lifetime
type ServiceConfig struct {
	DefaultMonths int
	CacheTTL      time.Duration
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{DefaultMonths: 12, CacheTTL: 5 * time.Minute}
}

// Service computes dashboard aggregates. Results are cached for a short TTL.
type Service struct {
	partners partner.Repository
	orders   trade.OrderRepository
	quotes   trade.QuoteRepository
	cache    cache.Store
	config   ServiceConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new analytics service. A nil store disables caching.
func NewService(
	partners partner.Repository,
	orders trade.OrderRepository,
	quotes trade.QuoteRepository,
	store cache.Store,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	defaults := DefaultServiceConfig()
	if config.DefaultMonths <= 0 {
		config.DefaultMonths = defaults.DefaultMonths
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		partners: partners,
		orders:   orders,
		quotes:   quotes,
		cache:    store,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Overview returns the platform dashboard for the last months (0 means the default)
func (s *Service) Overview(ctx context.Context, months int) (*OverviewResponse, error) {
	months = s.clampMonths(months)
	key := fmt.Sprintf("overview:%d", months)
	if cached, ok := readCache[OverviewResponse](ctx, s, key); ok {
		return cached, nil
	}

	resp, err := s.computeOverview(ctx, months)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, resp)
	return resp, nil
}

func (s *Service) computeOverview(ctx context.Context, months int) (*OverviewResponse, error) {
	from, to := analytics.LastMonths(s.now(), months)

	partnerCounts, err := s.partners.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	orderCounts, err := s.orders.CountByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	points, err := s.orders.ListForAnalytics(ctx, nil, from, to)
	if err != nil {
		return nil, err
	}
	created, err := s.partners.CreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := &OverviewResponse{
		From:             from,
		To:               to,
		Months:           months,
		PartnersByStatus: make(map[string]int64, len(partnerCounts)),
		OrdersByStatus:   stringKeys(orderCounts),
		GeneratedAt:      to,
	}
	for status, n := range partnerCounts {
		resp.PartnersByStatus[string(status)] = n
		resp.TotalPartners += n
	}
	for _, n := range orderCounts {
		resp.TotalOrders += n
	}

	orderSeries, revenue := orderBuckets(points, from, to)
	partnerPoints := make([]analytics.Point, len(created))
	for i, at := range created {
		partnerPoints[i] = analytics.Point{At: at, Amount: decimal.Zero}
	}
	partnerSeries := analytics.GroupByMonth(partnerPoints, from, to)

	resp.Revenue = revenue
	resp.Monthly = mergeSeries(orderSeries, partnerSeries)
	resp.Growth = growth(orderSeries, partnerSeries)
	return resp, nil
}

// PartnerDashboard returns one partner's dashboard for the last months
func (s *Service) PartnerDashboard(ctx context.Context, partnerID uuid.UUID, months int) (*PartnerDashboardResponse, error) {
	months = s.clampMonths(months)
	key := fmt.Sprintf("partner:%s:%d", partnerID, months)
	if cached, ok := readCache[PartnerDashboardResponse](ctx, s, key); ok {
		return cached, nil
	}

	from, to := analytics.LastMonths(s.now(), months)
	orderCounts, err := s.orders.CountByStatus(ctx, &partnerID)
	if err != nil {
		return nil, err
	}
	quoteCounts, err := s.quotes.CountByStatusForPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	points, err := s.orders.ListForAnalytics(ctx, &partnerID, from, to)
	if err != nil {
		return nil, err
	}

	orderSeries, revenue := orderBuckets(points, from, to)
	resp := &PartnerDashboardResponse{
		From:           from,
		To:             to,
		Months:         months,
		OrdersByStatus: stringKeys(orderCounts),
		QuotesByStatus: stringKeys(quoteCounts),
		Revenue:        revenue,
		ConversionRate: analytics.ConversionRate(
			quoteCounts[trade.QuoteStatusAccepted],
			quoteCounts[trade.QuoteStatusDeclined],
			quoteCounts[trade.QuoteStatusExpired],
		),
		Monthly:     mergeSeries(orderSeries, nil),
		Growth:      growth(orderSeries, nil),
		GeneratedAt: to,
	}
	s.toCache(ctx, key, resp)
	return resp, nil
}

// WarmCache recomputes the default overview and stores it
func (s *Service) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	months := s.config.DefaultMonths
	resp, err := s.computeOverview(ctx, months)
	if err != nil {
		return err
	}
	s.toCache(ctx, fmt.Sprintf("overview:%d", months), resp)
	s.logger.Info("Analytics cache warmed", zap.Int("months", months))
	return nil
}

func (s *Service) clampMonths(months int) int {
	if months <= 0 {
		return s.config.DefaultMonths
	}
	return min(months, maxMonths)
}

// readCache returns the cached value under key. Cache failures are treated as misses.
func readCache[T any](ctx context.Context, s *Service, key string) (*T, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok, err := cache.GetJSON[T](ctx, s.cache, key)
	if err != nil {
		s.logger.Warn("Analytics cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &v, true
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// orderBuckets counts every order and sums totals of orders that count as revenue
func orderBuckets(points []trade.OrderPoint, from, to time.Time) ([]analytics.MonthBucket, decimal.Decimal) {
	revenue := decimal.Zero
	series := make([]analytics.Point, len(points))
	for i, p := range points {
		amount := decimal.Zero
		if p.Status != trade.OrderStatusCancelled {
			amount = p.Total
			revenue = revenue.Add(p.Total)
		}
		series[i] = analytics.Point{At: p.CreatedAt, Amount: amount}
	}
	return analytics.GroupByMonth(series, from, to), revenue
}

func mergeSeries(orders, partners []analytics.MonthBucket) []MonthlyStat {
	out := make([]MonthlyStat, len(orders))
	for i, b := range orders {
		out[i] = MonthlyStat{Month: b.Month, Orders: b.Count, Revenue: b.Amount}
		if i < len(partners) {
			out[i].NewPartners = partners[i].Count
		}
	}
	return out
}

func growth(orders, partners []analytics.MonthBucket) Growth {
	mom := analytics.CompareLastTwo(orders)
	g := Growth{Orders: mom.CountGrowth, Revenue: mom.AmountGrowth, NewPartners: decimal.Zero}
	if partners != nil {
		g.NewPartners = analytics.CompareLastTwo(partners).CountGrowth
	}
	return g
}

func stringKeys[K ~string](m map[K]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[string(k)] = v
	}
	return out
}
