package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// KeyMetrics is the headline summary for a date range.
type KeyMetrics struct {
	PeriodStart          time.Time       `json:"period_start"`
	PeriodEnd            time.Time       `json:"period_end"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	AvgDailyRevenue      decimal.Decimal `json:"avg_daily_revenue"`
	TotalTransactions    int64           `json:"total_transactions"`
	AvgDailyTransactions decimal.Decimal `json:"avg_daily_transactions"`
	AvgBill              decimal.Decimal `json:"avg_bill"`
	AvgGroupSize         decimal.Decimal `json:"avg_group_size"`
}

// GroupMetric is group-size economics for one party-size bucket.
type GroupMetric struct {
	GroupSize        int             `json:"group_size"`
	VisitCount       int64           `json:"visit_count"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	AvgBill          decimal.Decimal `json:"avg_bill"`
	RevenuePerPerson decimal.Decimal `json:"revenue_per_person"`
}

// Granularity selects the time bucket for revenue series.
type Granularity string

const (
	ByHour  Granularity = "hour"
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// ValidGranularities returns the supported bucket granularities.
func ValidGranularities() []Granularity {
	return []Granularity{ByHour, ByDay, ByWeek, ByMonth}
}

// PeriodRevenue is one time bucket of a revenue series. SortKey
// orders buckets chronologically even where the label would not
// (week-of-year labels sort "W9" after "W10" as strings).
type PeriodRevenue struct {
	Label   string          `json:"label"`
	SortKey int             `json:"-"`
	Count   int64           `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Mean    decimal.Decimal `json:"mean"`
	// Growth vs the previous bucket in percent; nil for the first
	// bucket, which has no prior period.
	Growth *decimal.Decimal `json:"growth,omitempty"`
}

// DwellSample is the gap between two consecutive bills at one table.
type DwellSample struct {
	Table string        `json:"table"`
	Start time.Time     `json:"start"`
	Gap   time.Duration `json:"gap"`
}

// DwellStats summarizes estimated table occupancy. The estimate is a
// heuristic: it measures the time until the next party's bill at the
// same table, not observed seating time, and gaps above the
// configured ceiling are discarded as separate sittings.
type DwellStats struct {
	Count       int             `json:"count"`
	MeanHours   decimal.Decimal `json:"mean_hours"`
	MedianHours decimal.Decimal `json:"median_hours"`
	MinHours    decimal.Decimal `json:"min_hours"`
	MaxHours    decimal.Decimal `json:"max_hours"`
}

// MenuPerformance is per-item economics over a filtered item set.
// RevenueShare is the item's share of the filtered total, so shares
// across one result set sum to 100.
type MenuPerformance struct {
	MenuCode      int             `json:"menu_code"`
	MenuName      string          `json:"menu_name"`
	Category      string          `json:"category"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	OrderCount    int64           `json:"order_count"`
	AvgPrice      decimal.Decimal `json:"avg_price"`
	RevenueShare  decimal.Decimal `json:"revenue_share"`
	DiscountRate  decimal.Decimal `json:"discount_rate"`
}

// CategoryTrend is one (month, category) bucket with growth computed
// against the same category's previous month only.
type CategoryTrend struct {
	YearMonth     string           `json:"year_month"`
	Category      string           `json:"category"`
	Quantity      decimal.Decimal  `json:"quantity"`
	Revenue       decimal.Decimal  `json:"revenue"`
	OrderCount    int64            `json:"order_count"`
	RevenueGrowth *decimal.Decimal `json:"revenue_growth,omitempty"`
}

// Combination is a pair of menu items that co-occurred on bills.
type Combination struct {
	ItemA string `json:"item_a"`
	ItemB string `json:"item_b"`
	Count int64  `json:"count"`
}

// DiscountStat is discount behaviour for one (category, menu) pair,
// restricted to items that actually carried a discount.
type DiscountStat struct {
	Category      string          `json:"category"`
	MenuName      string          `json:"menu_name"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	MeanDiscount  decimal.Decimal `json:"mean_discount"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	DiscountRate  decimal.Decimal `json:"discount_rate"`
}
