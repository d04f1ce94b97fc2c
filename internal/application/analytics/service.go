package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"go.uber.org/zap"
)

// Filters describes the choices available to a dashboard client:
// the stored date range and the known category set.
type Filters struct {
	MinDate    *time.Time `json:"min_date"`
	MaxDate    *time.Time `json:"max_date"`
	Categories []string   `json:"categories"`
}

// Service answers dashboard queries by pulling the relevant window
// from the repositories and handing it to the engine.
type Service struct {
	engine  *Engine
	bills   sales.BillRepository
	details sales.DetailRepository
	log     *zap.Logger
}

// NewService creates an analytics query service
func NewService(engine *Engine, bills sales.BillRepository, details sales.DetailRepository, log *zap.Logger) *Service {
	return &Service{engine: engine, bills: bills, details: details, log: log}
}

// Summary returns the headline metrics for a date window
func (s *Service) Summary(ctx context.Context, start, end *time.Time) (sales.KeyMetrics, error) {
	bills, err := s.bills.QueryRange(ctx, start, end)
	if err != nil {
		return sales.KeyMetrics{}, fmt.Errorf("query bills: %w", err)
	}
	return s.engine.KeyMetrics(bills), nil
}

// Revenue returns the bucketed revenue series for a date window
func (s *Service) Revenue(ctx context.Context, start, end *time.Time, g sales.Granularity) ([]sales.PeriodRevenue, error) {
	bills, err := s.bills.QueryRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	return s.engine.RevenueByPeriod(bills, g)
}

// Groups returns party-size economics for a date window
func (s *Service) Groups(ctx context.Context, start, end *time.Time) ([]sales.GroupMetric, error) {
	bills, err := s.bills.QueryRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query bills: %w", err)
	}
	return s.engine.GroupMetrics(bills), nil
}

// Dwell returns the table-occupancy estimate for a date window
func (s *Service) Dwell(ctx context.Context, start, end *time.Time) ([]sales.DwellSample, sales.DwellStats, error) {
	bills, err := s.bills.QueryRange(ctx, start, end)
	if err != nil {
		return nil, sales.DwellStats{}, fmt.Errorf("query bills: %w", err)
	}
	samples, stats := s.engine.DwellTimes(bills)
	return samples, stats, nil
}

// MenuPerformance ranks menu items over the all-time summaries
func (s *Service) MenuPerformance(ctx context.Context) ([]sales.MenuPerformance, error) {
	summaries, err := s.details.MenuSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("query menu summaries: %w", err)
	}
	return s.engine.MenuPerformance(summaries), nil
}

// CategoryTrends returns monthly category revenue with growth,
// optionally restricted to one category.
func (s *Service) CategoryTrends(ctx context.Context, category string) ([]sales.CategoryTrend, error) {
	monthly, err := s.details.MonthlySummaries(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("query monthly summaries: %w", err)
	}
	return s.engine.CategoryTrends(monthly), nil
}

// Combinations returns frequently co-ordered item pairs for a window
func (s *Service) Combinations(ctx context.Context, start, end *time.Time) ([]sales.Combination, error) {
	items, err := s.details.QueryRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	return s.engine.TopCombinations(items), nil
}

// Discounts returns the per-item discount breakdown for a window
func (s *Service) Discounts(ctx context.Context, start, end *time.Time) ([]sales.DiscountStat, error) {
	items, err := s.details.QueryRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	return s.engine.DiscountBreakdown(items), nil
}

// AvailableFilters returns the stored date range and category set
func (s *Service) AvailableFilters(ctx context.Context) (Filters, error) {
	var f Filters

	count, err := s.bills.Count(ctx)
	if err != nil {
		return f, fmt.Errorf("count bills: %w", err)
	}
	if count > 0 {
		min, max, err := s.bills.DateRange(ctx)
		if err != nil {
			return f, fmt.Errorf("query date range: %w", err)
		}
		f.MinDate = &min
		f.MaxDate = &max
	}

	categories, err := s.details.DistinctCategories(ctx)
	if err != nil {
		return f, fmt.Errorf("query categories: %w", err)
	}
	f.Categories = categories

	return f, nil
}
