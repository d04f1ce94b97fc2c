package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"gorm.io/gorm"
)

const insertBatchSize = 500

// GormBillRepository implements sales.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// Replace atomically rebuilds the sales relation from the batch. The
// old relation is dropped rather than truncated so schema drift
// between runs cannot accumulate.
func (r *GormBillRepository) Replace(ctx context.Context, bills []sales.Bill) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Migrator().DropTable(&sales.Bill{}); err != nil {
			return fmt.Errorf("failed to drop sales table: %w", err)
		}
		if err := tx.Migrator().CreateTable(&sales.Bill{}); err != nil {
			return fmt.Errorf("failed to create sales table: %w", err)
		}
		if len(bills) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(bills, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert bills: %w", err)
		}
		return nil
	})
}

// QueryRange returns bills within the inclusive window ordered by
// payment timestamp. Nil bounds leave that side open.
func (r *GormBillRepository) QueryRange(ctx context.Context, start, end *time.Time) ([]sales.Bill, error) {
	var bills []sales.Bill
	query := r.db.WithContext(ctx).Model(&sales.Bill{})
	if start != nil {
		query = query.Where("paid_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("paid_at <= ?", *end)
	}
	if err := query.Order("paid_at ASC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// Count returns the number of stored bills
func (r *GormBillRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&sales.Bill{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DateRange returns the earliest and latest payment timestamps.
// An empty relation returns zero times.
func (r *GormBillRepository) DateRange(ctx context.Context) (time.Time, time.Time, error) {
	var first, last sales.Bill

	err := r.db.WithContext(ctx).Order("paid_at ASC").First(&first).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if err := r.db.WithContext(ctx).Order("paid_at DESC").First(&last).Error; err != nil {
		return time.Time{}, time.Time{}, err
	}

	return first.PaidAt, last.PaidAt, nil
}

// Exists reports whether the sales relation has been created
func (r *GormBillRepository) Exists(ctx context.Context) (bool, error) {
	return r.db.WithContext(ctx).Migrator().HasTable(&sales.Bill{}), nil
}

// Ensure GormBillRepository implements sales.BillRepository
var _ sales.BillRepository = (*GormBillRepository)(nil)
