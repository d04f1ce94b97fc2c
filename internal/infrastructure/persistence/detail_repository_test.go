package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupWithBills(t *testing.T) (*gorm.DB, context.Context) {
	t.Helper()
	ctx := context.Background()
	db := setupTestDB(t)
	billRepo := NewGormBillRepository(db)
	require.NoError(t, billRepo.Replace(ctx, []sales.Bill{
		testBill("R1", time.Date(2024, 12, 25, 13, 0, 0, 0, time.UTC), 100),
	}))
	return db, ctx
}

func testItem(receipt string, paidAt time.Time, code int, name, category string, qty, price int64) sales.LineItem {
	quantity := decimal.NewFromInt(qty)
	unit := decimal.NewFromInt(price)
	revenue := quantity.Mul(unit)
	return sales.LineItem{
		ReceiptNumber:  receipt,
		PaidAt:         paidAt,
		MenuCode:       code,
		MenuName:       name,
		Category:       category,
		Quantity:       quantity,
		PricePerUnit:   unit,
		SummaryPrice:   revenue,
		Revenue:        revenue,
		DiscountAmount: decimal.Zero,
	}
}

func TestGormDetailRepositoryReplace(t *testing.T) {
	t.Run("requires the sales relation", func(t *testing.T) {
		ctx := context.Background()
		repo := NewGormDetailRepository(setupTestDB(t))

		err := repo.Replace(ctx, nil)
		require.Error(t, err)

		var precondition *sales.PreconditionError
		require.ErrorAs(t, err, &precondition)
		assert.Equal(t, "sales", precondition.Relation)
	})

	t.Run("inserts items and recomputes summaries", func(t *testing.T) {
		db, ctx := setupWithBills(t)
		repo := NewGormDetailRepository(db)

		jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Replace(ctx, []sales.LineItem{
			testItem("R1", jan, 101, "Pad Thai", "Noodles", 2, 100),
			testItem("R2", jan, 101, "Pad Thai", "Noodles", 1, 100),
			testItem("R3", feb, 102, "Green Curry", "Curry", 1, 150),
		}))

		menus, err := repo.MenuSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, menus, 2)

		var padThai sales.MenuSummary
		for _, m := range menus {
			if m.MenuCode == 101 {
				padThai = m
			}
		}
		assert.Equal(t, "Pad Thai", padThai.MenuName)
		assert.True(t, padThai.TotalQuantity.Equal(decimal.NewFromInt(3)))
		assert.True(t, padThai.TotalRevenue.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, int64(2), padThai.TimesOrdered)
		assert.Equal(t, int64(2), padThai.OrderCount)

		monthly, err := repo.MonthlySummaries(ctx, "")
		require.NoError(t, err)
		require.Len(t, monthly, 2)
		assert.Equal(t, "2024-01", monthly[0].YearMonth)
		assert.Equal(t, int64(2), monthly[0].Orders)
		assert.Equal(t, "2024-02", monthly[1].YearMonth)
	})

	t.Run("repeated item on one receipt counts one order", func(t *testing.T) {
		db, ctx := setupWithBills(t)
		repo := NewGormDetailRepository(db)

		noon := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Replace(ctx, []sales.LineItem{
			testItem("R1", noon, 101, "Pad Thai", "Noodles", 1, 100),
			testItem("R1", noon.Add(30*time.Minute), 101, "Pad Thai", "Noodles", 2, 100),
		}))

		menus, err := repo.MenuSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, menus, 1)
		assert.Equal(t, int64(2), menus[0].TimesOrdered)
		assert.Equal(t, int64(1), menus[0].OrderCount)
	})

	t.Run("rerunning reproduces the same summaries", func(t *testing.T) {
		db, ctx := setupWithBills(t)
		repo := NewGormDetailRepository(db)

		items := []sales.LineItem{
			testItem("R1", time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), 101, "Pad Thai", "Noodles", 1, 100),
		}
		require.NoError(t, repo.Replace(ctx, items))
		require.NoError(t, repo.Replace(ctx, items))

		menus, err := repo.MenuSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, menus, 1)
		assert.True(t, menus[0].TotalQuantity.Equal(decimal.NewFromInt(1)))
	})
}

func TestGormDetailRepositoryQueries(t *testing.T) {
	db, ctx := setupWithBills(t)
	repo := NewGormDetailRepository(db)

	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Replace(ctx, []sales.LineItem{
		testItem("R2", feb, 102, "Green Curry", "Curry", 1, 150),
		testItem("R1", jan, 101, "Pad Thai", "Noodles", 1, 100),
	}))

	t.Run("query range ordered by timestamp", func(t *testing.T) {
		items, err := repo.QueryRange(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Pad Thai", items[0].MenuName)
	})

	t.Run("bounded window", func(t *testing.T) {
		end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
		items, err := repo.QueryRange(ctx, nil, &end)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Pad Thai", items[0].MenuName)
	})

	t.Run("distinct categories sorted", func(t *testing.T) {
		categories, err := repo.DistinctCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Curry", "Noodles"}, categories)
	})

	t.Run("monthly summaries filtered by category", func(t *testing.T) {
		monthly, err := repo.MonthlySummaries(ctx, "Curry")
		require.NoError(t, err)
		require.Len(t, monthly, 1)
		assert.Equal(t, "2024-02", monthly[0].YearMonth)
	})
}
