package sales

import (
	"context"
	"time"
)

// BillRepository is the durable home of the "sales" relation.
type BillRepository interface {
	// Replace atomically drops and reloads the relation. Re-running
	// with the same input reproduces the same state.
	Replace(ctx context.Context, bills []Bill) error

	// QueryRange returns bills within an inclusive timestamp window,
	// ordered by paid_at. A nil bound means unbounded on that side.
	QueryRange(ctx context.Context, start, end *time.Time) ([]Bill, error)

	// Count returns the number of stored bills
	Count(ctx context.Context) (int64, error)

	// DateRange returns the min and max paid_at across the relation
	DateRange(ctx context.Context) (time.Time, time.Time, error)

	// Exists reports whether the relation has been created. Detail
	// ingestion checks this precondition before writing.
	Exists(ctx context.Context) (bool, error)
}

// DetailRepository owns the "sales_detail" relation and the two
// derived summary relations recomputed from it.
type DetailRepository interface {
	// Replace atomically reloads sales_detail and recomputes
	// menu_summary and monthly_summary in the same transaction.
	// Returns *PreconditionError when the sales relation is missing.
	Replace(ctx context.Context, items []LineItem) error

	// QueryRange returns line items within an inclusive timestamp
	// window, ordered by paid_at. Nil bounds are unbounded.
	QueryRange(ctx context.Context, start, end *time.Time) ([]LineItem, error)

	// DistinctCategories returns the sorted unique category set,
	// used for building dashboard filter choices.
	DistinctCategories(ctx context.Context) ([]string, error)

	// MenuSummaries returns the all-time per-item summary relation
	MenuSummaries(ctx context.Context) ([]MenuSummary, error)

	// MonthlySummaries returns the month-bucketed summary relation,
	// optionally filtered to one category.
	MonthlySummaries(ctx context.Context, category string) ([]MonthlySummary, error)
}
