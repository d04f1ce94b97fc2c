package analytics

import (
	"testing"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bill(receipt string, paidAt time.Time, price int64, seats int, table string) sales.Bill {
	return sales.Bill{
		ReceiptNumber: receipt,
		PaidAt:        paidAt,
		SummaryPrice:  decimal.NewFromInt(price),
		SeatAmount:    &seats,
		TableNumber:   table,
	}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 12, day, hour, minute, 0, 0, time.UTC)
}

func TestGrowthRates(t *testing.T) {
	t.Run("first period has no growth", func(t *testing.T) {
		values := []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(150)}
		rates := GrowthRates(values)
		require.Len(t, rates, 2)
		assert.Nil(t, rates[0])
		require.NotNil(t, rates[1])
		assert.True(t, rates[1].Equal(decimal.NewFromInt(50)))
	})

	t.Run("negative growth", func(t *testing.T) {
		values := []decimal.Decimal{decimal.NewFromInt(200), decimal.NewFromInt(100)}
		rates := GrowthRates(values)
		require.NotNil(t, rates[1])
		assert.True(t, rates[1].Equal(decimal.NewFromInt(-50)))
	})

	t.Run("zero previous value yields nil", func(t *testing.T) {
		values := []decimal.Decimal{decimal.Zero, decimal.NewFromInt(100)}
		rates := GrowthRates(values)
		assert.Nil(t, rates[1])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, GrowthRates(nil))
	})
}

func TestKeyMetrics(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("empty input", func(t *testing.T) {
		m := engine.KeyMetrics(nil)
		assert.Zero(t, m.TotalTransactions)
		assert.True(t, m.TotalRevenue.IsZero())
	})

	t.Run("averages over the calendar span", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(1, 12, 0), 100, 2, "T1"),
			bill("R2", at(1, 18, 0), 300, 4, "T2"),
			bill("R3", at(3, 12, 0), 200, 3, "T1"),
		}
		m := engine.KeyMetrics(bills)

		assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(600)))
		assert.Equal(t, int64(3), m.TotalTransactions)
		// Three day span inclusive; the closed day 2 still counts.
		assert.True(t, m.AvgDailyRevenue.Equal(decimal.NewFromInt(200)))
		assert.True(t, m.AvgDailyTransactions.Equal(decimal.NewFromInt(1)))
		assert.True(t, m.AvgBill.Equal(decimal.NewFromInt(200)))
		assert.True(t, m.AvgGroupSize.Equal(decimal.NewFromInt(3)))
		assert.Equal(t, at(1, 12, 0), m.PeriodStart)
		assert.Equal(t, at(3, 12, 0), m.PeriodEnd)
	})

	t.Run("single day divides by one", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(5, 12, 0), 100, 2, "T1"),
			bill("R2", at(5, 20, 0), 200, 2, "T2"),
		}
		m := engine.KeyMetrics(bills)
		assert.True(t, m.AvgDailyRevenue.Equal(decimal.NewFromInt(300)))
	})

	t.Run("missing seats excluded from group average", func(t *testing.T) {
		b := bill("R1", at(1, 12, 0), 100, 4, "T1")
		noSeats := sales.Bill{ReceiptNumber: "R2", PaidAt: at(1, 13, 0), SummaryPrice: decimal.NewFromInt(50)}
		m := engine.KeyMetrics([]sales.Bill{b, noSeats})
		assert.True(t, m.AvgGroupSize.Equal(decimal.NewFromInt(4)))
	})
}

func TestGroupMetrics(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	bills := []sales.Bill{
		bill("R1", at(1, 12, 0), 100, 2, "T1"),
		bill("R2", at(1, 13, 0), 300, 2, "T2"),
		bill("R3", at(1, 14, 0), 400, 4, "T3"),
	}
	metrics := engine.GroupMetrics(bills)
	require.Len(t, metrics, 2)

	assert.Equal(t, 2, metrics[0].GroupSize)
	assert.Equal(t, int64(2), metrics[0].VisitCount)
	assert.True(t, metrics[0].AvgBill.Equal(decimal.NewFromInt(200)))
	assert.True(t, metrics[0].RevenuePerPerson.Equal(decimal.NewFromInt(100)))

	assert.Equal(t, 4, metrics[1].GroupSize)
	assert.True(t, metrics[1].RevenuePerPerson.Equal(decimal.NewFromInt(100)))
}

func TestRevenueByPeriod(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("weekly buckets sort chronologically", func(t *testing.T) {
		// Late February and mid March 2024: weeks 9 and 11.
		bills := []sales.Bill{
			bill("R1", time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC), 200, 2, "T1"),
			bill("R2", time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC), 100, 2, "T1"),
		}
		series, err := engine.RevenueByPeriod(bills, sales.ByWeek)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, "2024-W09", series[0].Label)
		assert.Equal(t, "2024-W11", series[1].Label)
		assert.True(t, series[0].SortKey < series[1].SortKey)
	})

	t.Run("hourly buckets fold dates together", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(1, 12, 0), 100, 2, "T1"),
			bill("R2", at(2, 12, 30), 200, 2, "T1"),
			bill("R3", at(2, 18, 0), 50, 2, "T1"),
		}
		series, err := engine.RevenueByPeriod(bills, sales.ByHour)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, "12:00", series[0].Label)
		assert.Equal(t, int64(2), series[0].Count)
		assert.True(t, series[0].Total.Equal(decimal.NewFromInt(300)))
	})

	t.Run("daily buckets fold into weekdays", func(t *testing.T) {
		// Two Mondays a week apart land in one bucket.
		bills := []sales.Bill{
			bill("R1", at(2, 12, 0), 100, 2, "T1"),
			bill("R2", at(9, 18, 0), 200, 2, "T1"),
			bill("R3", at(8, 12, 0), 50, 2, "T1"),
		}
		series, err := engine.RevenueByPeriod(bills, sales.ByDay)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, "Monday", series[0].Label)
		assert.Equal(t, int64(2), series[0].Count)
		assert.True(t, series[0].Total.Equal(decimal.NewFromInt(300)))
		// Monday-first ordering puts Sunday last.
		assert.Equal(t, "Sunday", series[1].Label)
	})

	t.Run("growth across buckets", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(2, 12, 0), 100, 2, "T1"),
			bill("R2", at(3, 12, 0), 150, 2, "T1"),
		}
		series, err := engine.RevenueByPeriod(bills, sales.ByDay)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, "Monday", series[0].Label)
		assert.Nil(t, series[0].Growth)
		require.NotNil(t, series[1].Growth)
		assert.True(t, series[1].Growth.Equal(decimal.NewFromInt(50)))
	})

	t.Run("unsupported granularity", func(t *testing.T) {
		_, err := engine.RevenueByPeriod(nil, sales.Granularity("decade"))
		assert.Error(t, err)
	})
}

func TestDwellTimes(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("gap within ceiling is a sample", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(1, 12, 0), 100, 2, "T1"),
			bill("R2", at(1, 13, 30), 100, 2, "T1"),
		}
		samples, stats := engine.DwellTimes(bills)
		require.Len(t, samples, 1)
		assert.Equal(t, 90*time.Minute, samples[0].Gap)
		assert.True(t, stats.MeanHours.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("gap above ceiling is excluded not clipped", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(1, 8, 0), 100, 2, "T1"),
			bill("R2", at(1, 21, 0), 100, 2, "T1"),
		}
		samples, stats := engine.DwellTimes(bills)
		assert.Empty(t, samples)
		assert.Zero(t, stats.Count)
	})

	t.Run("different tables never pair", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(1, 12, 0), 100, 2, "T1"),
			bill("R2", at(1, 13, 0), 100, 2, "T2"),
		}
		samples, _ := engine.DwellTimes(bills)
		assert.Empty(t, samples)
	})

	t.Run("bills without a table are skipped", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R1", at(1, 12, 0), 100, 2, ""),
			bill("R2", at(1, 13, 0), 100, 2, ""),
		}
		samples, _ := engine.DwellTimes(bills)
		assert.Empty(t, samples)
	})

	t.Run("unsorted input is handled", func(t *testing.T) {
		bills := []sales.Bill{
			bill("R2", at(1, 13, 0), 100, 2, "T1"),
			bill("R1", at(1, 12, 0), 100, 2, "T1"),
		}
		samples, _ := engine.DwellTimes(bills)
		require.Len(t, samples, 1)
		assert.Equal(t, time.Hour, samples[0].Gap)
	})
}

func menuSummary(code int, name, category string, revenue, discount, quantity int64, orders int64) sales.MenuSummary {
	return sales.MenuSummary{
		MenuCode:      code,
		MenuName:      name,
		Category:      category,
		TotalQuantity: decimal.NewFromInt(quantity),
		TotalRevenue:  decimal.NewFromInt(revenue),
		TotalDiscount: decimal.NewFromInt(discount),
		TimesOrdered:  orders,
		OrderCount:    orders,
	}
}

func TestMenuPerformance(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("filters below minimum orders", func(t *testing.T) {
		summaries := []sales.MenuSummary{
			menuSummary(1, "Pad Thai", "Noodles", 1000, 0, 10, 20),
			menuSummary(2, "One Off", "Specials", 9999, 0, 1, 1),
		}
		perf := engine.MenuPerformance(summaries)
		require.Len(t, perf, 1)
		assert.Equal(t, "Pad Thai", perf[0].MenuName)
	})

	t.Run("threshold counts distinct receipts, not rows", func(t *testing.T) {
		// An item repeated within the same receipts has more rows
		// than receipts; only the receipt count admits it.
		repeated := menuSummary(1, "Satay", "Grill", 500, 0, 12, 6)
		repeated.TimesOrdered = 12
		kept := menuSummary(2, "Pad Thai", "Noodles", 1000, 0, 10, 10)
		kept.TimesOrdered = 14

		perf := engine.MenuPerformance([]sales.MenuSummary{repeated, kept})
		require.Len(t, perf, 1)
		assert.Equal(t, "Pad Thai", perf[0].MenuName)
		assert.Equal(t, int64(10), perf[0].OrderCount)
	})

	t.Run("shares sum to one hundred over the filtered set", func(t *testing.T) {
		summaries := []sales.MenuSummary{
			menuSummary(1, "A", "X", 600, 0, 10, 20),
			menuSummary(2, "B", "X", 400, 0, 10, 20),
			menuSummary(3, "Rare", "X", 500, 0, 1, 1),
		}
		perf := engine.MenuPerformance(summaries)
		require.Len(t, perf, 2)

		var total decimal.Decimal
		for _, p := range perf {
			total = total.Add(p.RevenueShare)
		}
		assert.True(t, total.Equal(decimal.NewFromInt(100)))
		assert.True(t, perf[0].RevenueShare.Equal(decimal.NewFromInt(60)))
	})

	t.Run("zero revenue guards the discount rate", func(t *testing.T) {
		summaries := []sales.MenuSummary{
			menuSummary(1, "Freebie", "X", 0, 50, 5, 15),
		}
		perf := engine.MenuPerformance(summaries)
		require.Len(t, perf, 1)
		assert.True(t, perf[0].DiscountRate.IsZero())
		assert.True(t, perf[0].AvgPrice.IsZero())
	})

	t.Run("sorted by revenue descending", func(t *testing.T) {
		summaries := []sales.MenuSummary{
			menuSummary(1, "Low", "X", 100, 0, 10, 20),
			menuSummary(2, "High", "X", 900, 0, 10, 20),
		}
		perf := engine.MenuPerformance(summaries)
		assert.Equal(t, "High", perf[0].MenuName)
	})
}

func TestCategoryTrends(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	monthly := []sales.MonthlySummary{
		{YearMonth: "2024-01", MenuCode: 1, Category: "Noodles", Revenue: decimal.NewFromInt(100), Orders: 5},
		{YearMonth: "2024-02", MenuCode: 1, Category: "Noodles", Revenue: decimal.NewFromInt(150), Orders: 6},
		{YearMonth: "2024-02", MenuCode: 2, Category: "Noodles", Revenue: decimal.NewFromInt(50), Orders: 2},
		{YearMonth: "2024-02", MenuCode: 3, Category: "Drinks", Revenue: decimal.NewFromInt(80), Orders: 4},
	}

	trends := engine.CategoryTrends(monthly)
	require.Len(t, trends, 3)

	// Sorted by category, then month.
	assert.Equal(t, "Drinks", trends[0].Category)
	assert.Nil(t, trends[0].RevenueGrowth)

	assert.Equal(t, "Noodles", trends[1].Category)
	assert.Equal(t, "2024-01", trends[1].YearMonth)
	assert.Nil(t, trends[1].RevenueGrowth)

	// Codes 1 and 2 roll up: 200 vs 100 is 100 percent growth.
	assert.Equal(t, "2024-02", trends[2].YearMonth)
	assert.True(t, trends[2].Revenue.Equal(decimal.NewFromInt(200)))
	require.NotNil(t, trends[2].RevenueGrowth)
	assert.True(t, trends[2].RevenueGrowth.Equal(decimal.NewFromInt(100)))
}

func lineItem(receipt, menu string, discount int64) sales.LineItem {
	return sales.LineItem{
		ReceiptNumber:  receipt,
		MenuName:       menu,
		Category:       "Food",
		Quantity:       decimal.NewFromInt(1),
		Revenue:        decimal.NewFromInt(100),
		DiscountAmount: decimal.NewFromInt(discount),
	}
}

func TestTopCombinations(t *testing.T) {
	engine := NewEngine(Config{MinComboCount: 2})

	t.Run("three items make three pairs", func(t *testing.T) {
		var items []sales.LineItem
		for i := 0; i < 2; i++ {
			receipt := string(rune('X' + i))
			items = append(items,
				lineItem(receipt, "A", 0),
				lineItem(receipt, "B", 0),
				lineItem(receipt, "C", 0),
			)
		}
		combos := engine.TopCombinations(items)
		require.Len(t, combos, 3)
		for _, c := range combos {
			assert.Equal(t, int64(2), c.Count)
			assert.Less(t, c.ItemA, c.ItemB)
		}
	})

	t.Run("duplicate items on one receipt count once", func(t *testing.T) {
		items := []sales.LineItem{
			lineItem("R1", "A", 0),
			lineItem("R1", "A", 0),
			lineItem("R1", "B", 0),
			lineItem("R2", "A", 0),
			lineItem("R2", "B", 0),
		}
		combos := engine.TopCombinations(items)
		require.Len(t, combos, 1)
		assert.Equal(t, int64(2), combos[0].Count)
	})

	t.Run("below threshold pairs are dropped", func(t *testing.T) {
		items := []sales.LineItem{
			lineItem("R1", "A", 0),
			lineItem("R1", "B", 0),
		}
		combos := engine.TopCombinations(items)
		assert.Empty(t, combos)
	})
}

func TestDiscountBreakdown(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	t.Run("only discounted items counted", func(t *testing.T) {
		items := []sales.LineItem{
			lineItem("R1", "A", 20),
			lineItem("R2", "A", 10),
			lineItem("R3", "B", 0),
		}
		stats := engine.DiscountBreakdown(items)
		require.Len(t, stats, 1)
		assert.Equal(t, "A", stats[0].MenuName)
		assert.True(t, stats[0].TotalDiscount.Equal(decimal.NewFromInt(30)))
		assert.True(t, stats[0].MeanDiscount.Equal(decimal.NewFromInt(15)))
		assert.True(t, stats[0].DiscountRate.Equal(decimal.NewFromInt(15)))
	})

	t.Run("negative discounts are excluded", func(t *testing.T) {
		items := []sales.LineItem{lineItem("R1", "A", -5)}
		assert.Empty(t, engine.DiscountBreakdown(items))
	})

	t.Run("sorted by total discount descending", func(t *testing.T) {
		items := []sales.LineItem{
			lineItem("R1", "Small", 5),
			lineItem("R2", "Big", 50),
		}
		stats := engine.DiscountBreakdown(items)
		require.Len(t, stats, 2)
		assert.Equal(t, "Big", stats[0].MenuName)
	})
}
