package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"gorm.io/gorm"
)

// GormDetailRepository implements sales.DetailRepository using GORM.
// It owns sales_detail plus the two summary relations derived from it.
type GormDetailRepository struct {
	db *gorm.DB
}

// NewGormDetailRepository creates a new GormDetailRepository
func NewGormDetailRepository(db *gorm.DB) *GormDetailRepository {
	return &GormDetailRepository{db: db}
}

// Replace atomically rebuilds sales_detail and recomputes the menu
// and monthly summaries from it, all in one transaction. Detail data
// is only meaningful alongside bills, so a missing sales relation is
// a precondition failure.
func (r *GormDetailRepository) Replace(ctx context.Context, items []sales.LineItem) error {
	if !r.db.WithContext(ctx).Migrator().HasTable(&sales.Bill{}) {
		return &sales.PreconditionError{
			Relation: "sales",
			Hint:     "load bill-level exports before detail exports",
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&sales.LineItem{}, &sales.MenuSummary{}, &sales.MonthlySummary{},
		} {
			if err := tx.Migrator().DropTable(model); err != nil {
				return fmt.Errorf("failed to drop table: %w", err)
			}
			if err := tx.Migrator().CreateTable(model); err != nil {
				return fmt.Errorf("failed to create table: %w", err)
			}
		}

		if len(items) > 0 {
			if err := tx.CreateInBatches(items, insertBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert line items: %w", err)
			}
		}

		if err := recomputeSummaries(tx); err != nil {
			return err
		}

		return nil
	})
}

// recomputeSummaries rebuilds menu_summary and monthly_summary from
// the freshly loaded sales_detail rows.
func recomputeSummaries(tx *gorm.DB) error {
	menuSQL := `
		INSERT INTO menu_summary
			(menu_code, menu_name, category, total_quantity, total_revenue, total_discount, times_ordered, order_count)
		SELECT
			menu_code, menu_name, category,
			SUM(quantity), SUM(revenue), SUM(discount_amount),
			COUNT(*), COUNT(DISTINCT receipt_number)
		FROM sales_detail
		GROUP BY menu_code, menu_name, category`
	if err := tx.Exec(menuSQL).Error; err != nil {
		return fmt.Errorf("failed to build menu summary: %w", err)
	}

	monthlySQL := `
		INSERT INTO monthly_summary
			(year_month, menu_code, menu_name, category, quantity, revenue, discount_amount, orders)
		SELECT
			strftime('%Y-%m', paid_at), menu_code, menu_name, category,
			SUM(quantity), SUM(revenue), SUM(discount_amount),
			COUNT(DISTINCT receipt_number)
		FROM sales_detail
		GROUP BY strftime('%Y-%m', paid_at), menu_code, menu_name, category`
	if err := tx.Exec(monthlySQL).Error; err != nil {
		return fmt.Errorf("failed to build monthly summary: %w", err)
	}

	return nil
}

// QueryRange returns line items within the inclusive window ordered
// by payment timestamp. Nil bounds leave that side open.
func (r *GormDetailRepository) QueryRange(ctx context.Context, start, end *time.Time) ([]sales.LineItem, error) {
	var items []sales.LineItem
	query := r.db.WithContext(ctx).Model(&sales.LineItem{})
	if start != nil {
		query = query.Where("paid_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("paid_at <= ?", *end)
	}
	if err := query.Order("paid_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DistinctCategories returns the sorted unique category set
func (r *GormDetailRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&sales.LineItem{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// MenuSummaries returns the all-time per-item summary relation
func (r *GormDetailRepository) MenuSummaries(ctx context.Context) ([]sales.MenuSummary, error) {
	var summaries []sales.MenuSummary
	if err := r.db.WithContext(ctx).Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// MonthlySummaries returns the month-bucketed summary relation,
// optionally filtered to one category.
func (r *GormDetailRepository) MonthlySummaries(ctx context.Context, category string) ([]sales.MonthlySummary, error) {
	var summaries []sales.MonthlySummary
	query := r.db.WithContext(ctx).Model(&sales.MonthlySummary{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("year_month ASC").Find(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

// Ensure GormDetailRepository implements sales.DetailRepository
var _ sales.DetailRepository = (*GormDetailRepository)(nil)
