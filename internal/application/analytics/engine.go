package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Config bounds the analytical heuristics.
type Config struct {
	// MaxGroupSize caps the party sizes considered plausible.
	MaxGroupSize int
	// MaxDwellTime is the ceiling above which a same-table gap is
	// treated as a separate sitting and excluded, not clipped.
	MaxDwellTime time.Duration
	// MinMenuOrders filters one-off items out of menu performance.
	MinMenuOrders int64
	// MinComboCount filters rarely co-ordered pairs.
	MinComboCount int64
}

// DefaultConfig returns the documented analysis defaults
func DefaultConfig() Config {
	return Config{
		MaxGroupSize:  50,
		MaxDwellTime:  4 * time.Hour,
		MinMenuOrders: 10,
		MinComboCount: 10,
	}
}

// Engine computes dashboard aggregates from cleaned records. All
// methods are pure: thresholds come from Config, data from arguments.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given thresholds
func NewEngine(cfg Config) *Engine {
	d := DefaultConfig()
	if cfg.MaxGroupSize <= 0 {
		cfg.MaxGroupSize = d.MaxGroupSize
	}
	if cfg.MaxDwellTime <= 0 {
		cfg.MaxDwellTime = d.MaxDwellTime
	}
	if cfg.MinMenuOrders <= 0 {
		cfg.MinMenuOrders = d.MinMenuOrders
	}
	if cfg.MinComboCount <= 0 {
		cfg.MinComboCount = d.MinComboCount
	}
	return &Engine{cfg: cfg}
}

// KeyMetrics computes the headline summary over a bill set. Daily
// averages divide by the calendar span between the first and last
// bill inclusive, so days with no sales still dilute the average.
func (e *Engine) KeyMetrics(bills []sales.Bill) sales.KeyMetrics {
	if len(bills) == 0 {
		return sales.KeyMetrics{}
	}

	var m sales.KeyMetrics
	m.PeriodStart = bills[0].PaidAt
	m.PeriodEnd = bills[0].PaidAt

	seatSum := 0
	seatCount := 0

	for _, b := range bills {
		if b.PaidAt.Before(m.PeriodStart) {
			m.PeriodStart = b.PaidAt
		}
		if b.PaidAt.After(m.PeriodEnd) {
			m.PeriodEnd = b.PaidAt
		}
		m.TotalRevenue = m.TotalRevenue.Add(b.SummaryPrice)
		if b.SeatAmount != nil {
			seatSum += *b.SeatAmount
			seatCount++
		}
	}

	m.TotalTransactions = int64(len(bills))
	spanDays := int64(m.PeriodEnd.Sub(m.PeriodStart)/(24*time.Hour)) + 1
	dayCount := decimal.NewFromInt(spanDays)
	m.AvgDailyRevenue = m.TotalRevenue.Div(dayCount).Round(2)
	m.AvgDailyTransactions = decimal.NewFromInt(m.TotalTransactions).Div(dayCount).Round(2)
	m.AvgBill = m.TotalRevenue.Div(decimal.NewFromInt(m.TotalTransactions)).Round(2)
	if seatCount > 0 {
		m.AvgGroupSize = decimal.NewFromInt(int64(seatSum)).
			Div(decimal.NewFromInt(int64(seatCount))).Round(2)
	}

	return m
}

// GroupMetrics buckets bills by party size. Bills with a missing seat
// count are skipped; cleaned data already nulled sizes outside
// (0, MaxGroupSize].
func (e *Engine) GroupMetrics(bills []sales.Bill) []sales.GroupMetric {
	type bucket struct {
		visits  int64
		revenue decimal.Decimal
	}
	buckets := make(map[int]*bucket)

	for _, b := range bills {
		if b.SeatAmount == nil {
			continue
		}
		size := *b.SeatAmount
		if size <= 0 || size > e.cfg.MaxGroupSize {
			continue
		}
		bk := buckets[size]
		if bk == nil {
			bk = &bucket{}
			buckets[size] = bk
		}
		bk.visits++
		bk.revenue = bk.revenue.Add(b.SummaryPrice)
	}

	metrics := make([]sales.GroupMetric, 0, len(buckets))
	for size, bk := range buckets {
		avgBill := bk.revenue.Div(decimal.NewFromInt(bk.visits)).Round(2)
		metrics = append(metrics, sales.GroupMetric{
			GroupSize:        size,
			VisitCount:       bk.visits,
			TotalRevenue:     bk.revenue,
			AvgBill:          avgBill,
			RevenuePerPerson: avgBill.Div(decimal.NewFromInt(int64(size))).Round(2),
		})
	}
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].GroupSize < metrics[j].GroupSize
	})

	return metrics
}

// RevenueByPeriod buckets bills on the requested granularity and
// returns the series in chronological order with per-bucket growth.
// The hourly and daily granularities are profiles: bills from every
// date fold into 24 time-of-day buckets or 7 weekday buckets.
func (e *Engine) RevenueByPeriod(bills []sales.Bill, g sales.Granularity) ([]sales.PeriodRevenue, error) {
	type bucket struct {
		label string
		count int64
		total decimal.Decimal
	}
	buckets := make(map[int]*bucket)

	for _, b := range bills {
		label, key, err := periodOf(b.PaidAt, g)
		if err != nil {
			return nil, err
		}
		bk := buckets[key]
		if bk == nil {
			bk = &bucket{label: label}
			buckets[key] = bk
		}
		bk.count++
		bk.total = bk.total.Add(b.SummaryPrice)
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	series := make([]sales.PeriodRevenue, 0, len(keys))
	totals := make([]decimal.Decimal, 0, len(keys))
	for _, k := range keys {
		bk := buckets[k]
		series = append(series, sales.PeriodRevenue{
			Label:   bk.label,
			SortKey: k,
			Count:   bk.count,
			Total:   bk.total,
			Mean:    bk.total.Div(decimal.NewFromInt(bk.count)).Round(2),
		})
		totals = append(totals, bk.total)
	}
	for i, rate := range GrowthRates(totals) {
		series[i].Growth = rate
	}

	return series, nil
}

// periodOf maps a timestamp to its bucket label and chronological
// sort key for one granularity.
func periodOf(t time.Time, g sales.Granularity) (string, int, error) {
	switch g {
	case sales.ByHour:
		return fmt.Sprintf("%02d:00", t.Hour()), t.Hour(), nil
	case sales.ByDay:
		// Monday-first weekday profile, folding all dates together.
		return t.Weekday().String(), (int(t.Weekday()) + 6) % 7, nil
	case sales.ByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), year*100 + week, nil
	case sales.ByMonth:
		return t.Format("2006-01"), t.Year()*100 + int(t.Month()), nil
	default:
		return "", 0, fmt.Errorf("unsupported granularity %q", g)
	}
}

// GrowthRates computes percent change against the previous value for
// each element. The first element has no prior period and yields nil,
// as does any element following a zero value.
func GrowthRates(values []decimal.Decimal) []*decimal.Decimal {
	rates := make([]*decimal.Decimal, len(values))
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev.IsZero() {
			continue
		}
		rate := values[i].Sub(prev).Div(prev).Mul(hundred).Round(2)
		rates[i] = &rate
	}
	return rates
}

// DwellTimes estimates table occupancy from the gap between
// consecutive bills at the same table. Gaps above the ceiling are
// separate sittings and excluded entirely rather than clipped.
func (e *Engine) DwellTimes(bills []sales.Bill) ([]sales.DwellSample, sales.DwellStats) {
	byTable := make(map[string][]sales.Bill)
	for _, b := range bills {
		if b.TableNumber == "" {
			continue
		}
		byTable[b.TableNumber] = append(byTable[b.TableNumber], b)
	}

	var samples []sales.DwellSample
	for table, tb := range byTable {
		sort.Slice(tb, func(i, j int) bool { return tb[i].PaidAt.Before(tb[j].PaidAt) })
		for i := 0; i+1 < len(tb); i++ {
			gap := tb[i+1].PaidAt.Sub(tb[i].PaidAt)
			if gap <= 0 || gap > e.cfg.MaxDwellTime {
				continue
			}
			samples = append(samples, sales.DwellSample{
				Table: table,
				Start: tb[i].PaidAt,
				Gap:   gap,
			})
		}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Start.Before(samples[j].Start) })

	return samples, dwellStats(samples)
}

func dwellStats(samples []sales.DwellSample) sales.DwellStats {
	if len(samples) == 0 {
		return sales.DwellStats{}
	}

	hours := make([]decimal.Decimal, len(samples))
	var sum decimal.Decimal
	for i, s := range samples {
		hours[i] = decimal.NewFromFloat(s.Gap.Hours())
		sum = sum.Add(hours[i])
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].LessThan(hours[j]) })

	n := len(hours)
	median := hours[n/2]
	if n%2 == 0 {
		median = hours[n/2-1].Add(hours[n/2]).Div(decimal.NewFromInt(2))
	}

	return sales.DwellStats{
		Count:       n,
		MeanHours:   sum.Div(decimal.NewFromInt(int64(n))).Round(2),
		MedianHours: median.Round(2),
		MinHours:    hours[0].Round(2),
		MaxHours:    hours[n-1].Round(2),
	}
}

// MenuPerformance ranks items by revenue over the subset appearing on
// at least MinMenuOrders distinct receipts. Revenue share is relative
// to the filtered subset's total, so the shares of one result sum to
// 100.
func (e *Engine) MenuPerformance(summaries []sales.MenuSummary) []sales.MenuPerformance {
	var kept []sales.MenuSummary
	var filteredTotal decimal.Decimal
	for _, s := range summaries {
		if s.OrderCount < e.cfg.MinMenuOrders {
			continue
		}
		kept = append(kept, s)
		filteredTotal = filteredTotal.Add(s.TotalRevenue)
	}

	perf := make([]sales.MenuPerformance, 0, len(kept))
	for _, s := range kept {
		p := sales.MenuPerformance{
			MenuCode:      s.MenuCode,
			MenuName:      s.MenuName,
			Category:      s.Category,
			TotalQuantity: s.TotalQuantity,
			TotalRevenue:  s.TotalRevenue,
			TotalDiscount: s.TotalDiscount,
			OrderCount:    s.OrderCount,
		}
		if !s.TotalQuantity.IsZero() {
			p.AvgPrice = s.TotalRevenue.Div(s.TotalQuantity).Round(2)
		}
		if !filteredTotal.IsZero() {
			p.RevenueShare = s.TotalRevenue.Div(filteredTotal).Mul(hundred).Round(2)
		}
		if !s.TotalRevenue.IsZero() {
			p.DiscountRate = s.TotalDiscount.Div(s.TotalRevenue).Mul(hundred).Round(2)
		}
		perf = append(perf, p)
	}
	sort.Slice(perf, func(i, j int) bool {
		return perf[i].TotalRevenue.GreaterThan(perf[j].TotalRevenue)
	})

	return perf
}

// CategoryTrends rolls monthly summaries up to (month, category)
// buckets and computes each category's month-over-month revenue
// growth independently of the other categories.
func (e *Engine) CategoryTrends(monthly []sales.MonthlySummary) []sales.CategoryTrend {
	type key struct {
		month    string
		category string
	}
	buckets := make(map[key]*sales.CategoryTrend)
	for _, m := range monthly {
		k := key{m.YearMonth, m.Category}
		t := buckets[k]
		if t == nil {
			t = &sales.CategoryTrend{YearMonth: m.YearMonth, Category: m.Category}
			buckets[k] = t
		}
		t.Quantity = t.Quantity.Add(m.Quantity)
		t.Revenue = t.Revenue.Add(m.Revenue)
		t.OrderCount += m.Orders
	}

	trends := make([]sales.CategoryTrend, 0, len(buckets))
	for _, t := range buckets {
		trends = append(trends, *t)
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Category != trends[j].Category {
			return trends[i].Category < trends[j].Category
		}
		return trends[i].YearMonth < trends[j].YearMonth
	})

	for i := 1; i < len(trends); i++ {
		prev := trends[i-1]
		if prev.Category != trends[i].Category || prev.Revenue.IsZero() {
			continue
		}
		g := trends[i].Revenue.Sub(prev.Revenue).Div(prev.Revenue).Mul(hundred).Round(2)
		trends[i].RevenueGrowth = &g
	}

	return trends
}

// TopCombinations counts distinct menu-item pairs co-occurring on the
// same receipt and returns pairs seen at least MinComboCount times,
// most frequent first.
func (e *Engine) TopCombinations(items []sales.LineItem) []sales.Combination {
	byReceipt := make(map[string]map[string]bool)
	for _, it := range items {
		if it.ReceiptNumber == "" {
			continue
		}
		names := byReceipt[it.ReceiptNumber]
		if names == nil {
			names = make(map[string]bool)
			byReceipt[it.ReceiptNumber] = names
		}
		names[it.MenuName] = true
	}

	type pair struct{ a, b string }
	counts := make(map[pair]int64)
	for _, names := range byReceipt {
		sorted := make([]string, 0, len(names))
		for n := range names {
			sorted = append(sorted, n)
		}
		sort.Strings(sorted)
		for i := 0; i < len(sorted); i++ {
			for j := i + 1; j < len(sorted); j++ {
				counts[pair{sorted[i], sorted[j]}]++
			}
		}
	}

	var combos []sales.Combination
	for p, c := range counts {
		if c < e.cfg.MinComboCount {
			continue
		}
		combos = append(combos, sales.Combination{ItemA: p.a, ItemB: p.b, Count: c})
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Count != combos[j].Count {
			return combos[i].Count > combos[j].Count
		}
		if combos[i].ItemA != combos[j].ItemA {
			return combos[i].ItemA < combos[j].ItemA
		}
		return combos[i].ItemB < combos[j].ItemB
	})

	return combos
}

// DiscountBreakdown summarizes discount behaviour per (category,
// menu) pair over items that actually carried a discount.
func (e *Engine) DiscountBreakdown(items []sales.LineItem) []sales.DiscountStat {
	type key struct {
		category string
		menu     string
	}
	type bucket struct {
		discount decimal.Decimal
		revenue  decimal.Decimal
		quantity decimal.Decimal
		count    int64
	}
	buckets := make(map[key]*bucket)

	for _, it := range items {
		if !it.DiscountAmount.IsPositive() {
			continue
		}
		k := key{it.Category, it.MenuName}
		bk := buckets[k]
		if bk == nil {
			bk = &bucket{}
			buckets[k] = bk
		}
		bk.discount = bk.discount.Add(it.DiscountAmount)
		bk.revenue = bk.revenue.Add(it.Revenue)
		bk.quantity = bk.quantity.Add(it.Quantity)
		bk.count++
	}

	stats := make([]sales.DiscountStat, 0, len(buckets))
	for k, bk := range buckets {
		s := sales.DiscountStat{
			Category:      k.category,
			MenuName:      k.menu,
			TotalDiscount: bk.discount,
			MeanDiscount:  bk.discount.Div(decimal.NewFromInt(bk.count)).Round(2),
			TotalRevenue:  bk.revenue,
			TotalQuantity: bk.quantity,
		}
		if !bk.revenue.IsZero() {
			s.DiscountRate = bk.discount.Div(bk.revenue).Mul(hundred).Round(2)
		}
		stats = append(stats, s)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].TotalDiscount.GreaterThan(stats[j].TotalDiscount)
	})

	return stats
}
