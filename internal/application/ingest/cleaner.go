package ingest

import (
	"fmt"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/foodstory/analytics/internal/infrastructure/csvload"
	"go.uber.org/zap"
)

// Canonical column tokens after header normalization.
const (
	colPaymentDate  = "payment_date"
	colPaymentTime  = "payment_time"
	colReceipt      = "receipt_number"
	colSummaryPrice = "summary_price"
	colSeatAmount   = "seat_amount"
	colMenuCode     = "menu_code"
	colMenuName     = "menu_name"
	colQuantity     = "quantity"
	colPricePerUnit = "price_per_unit"
	colCategory     = "category"

	colBillDiscount  = "subtotal_bill_discount"
	colItemDiscount  = "subtotal_summary_price___discount_by_item"
	colExVAT         = "ex_vat"
	colServiceCharge = "before_vat_subtotal_+_service_charge"

	colTable       = "table"
	colTableNumber = "table_number"
	colPaymentType = "payment_type"
	colBranch      = "branch"
	colBillOpenBy  = "bill_open_by"
	colBillCloseBy = "bill_close_by"
	colCustomer    = "customer_name"
	colPhone       = "phone_number"
	colRemark      = "remark"
	colOrderType   = "order_type"
	colChannel     = "channel"
)

// requiredBillColumns are the tokens a bill-level export must carry.
var requiredBillColumns = []string{
	colPaymentDate, colPaymentTime, colReceipt, colSummaryPrice, colSeatAmount,
}

// requiredDetailColumns are the tokens a detail-level export must carry.
var requiredDetailColumns = []string{
	colPaymentDate, colPaymentTime, colReceipt, colMenuCode, colMenuName,
	colQuantity, colPricePerUnit, colSummaryPrice, colCategory,
}

// CleanConfig parameterizes the row-set cleaner.
type CleanConfig struct {
	// MaxGroupSize caps the seat-amount range filter: values outside
	// (0, MaxGroupSize] become missing rather than dropping the row.
	MaxGroupSize int
}

// DefaultCleanConfig returns the documented cleaner defaults
func DefaultCleanConfig() CleanConfig {
	return CleanConfig{MaxGroupSize: 50}
}

// columnSet resolves canonical tokens back to the raw headers of one
// file, so cell lookups survive casing and spacing drift between
// exports.
type columnSet map[string]string

func newColumnSet(headers []string) columnSet {
	cs := make(columnSet, len(headers))
	for _, h := range headers {
		token := sales.NormalizeColumnName(h)
		if _, ok := cs[token]; !ok {
			cs[token] = h
		}
	}
	return cs
}

// require returns a SchemaError naming every missing token, or nil
func (cs columnSet) require(tokens []string) error {
	var missing []string
	for _, t := range tokens {
		if _, ok := cs[t]; !ok {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return sales.NewSchemaError(missing)
	}
	return nil
}

// get returns the cell for a canonical token, "" when the column is
// absent from this export
func (cs columnSet) get(row *csvload.Row, token string) string {
	raw, ok := cs[token]
	if !ok {
		return ""
	}
	return row.Get(raw)
}

func (cs columnSet) getOrDefault(row *csvload.Row, token, defaultVal string) string {
	if v := cs.get(row, token); v != "" {
		return v
	}
	return defaultVal
}

// BillCleaner turns raw bill-level rows into typed Bills.
type BillCleaner struct {
	cfg CleanConfig
	log *zap.Logger
}

// NewBillCleaner creates a cleaner for bill-level exports
func NewBillCleaner(cfg CleanConfig, log *zap.Logger) *BillCleaner {
	if cfg.MaxGroupSize <= 0 {
		cfg.MaxGroupSize = DefaultCleanConfig().MaxGroupSize
	}
	return &BillCleaner{cfg: cfg, log: log}
}

// Clean validates the schema, types every field and deduplicates by
// receipt number, keeping the first occurrence in input order.
// Timestamp failures abort the batch; monetary and count failures
// coerce per field.
func (c *BillCleaner) Clean(headers []string, rows []*csvload.Row) ([]sales.Bill, error) {
	cols := newColumnSet(headers)
	if err := cols.require(requiredBillColumns); err != nil {
		return nil, err
	}

	bills := make([]sales.Bill, 0, len(rows))
	invalidSeats := 0

	for _, row := range rows {
		paidAt, err := sales.ParseTimestamp(cols.get(row, colPaymentDate), cols.get(row, colPaymentTime))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.LineNumber, err)
		}

		seat := sales.ParseSeatCount(cols.get(row, colSeatAmount))
		if seat != nil && (*seat <= 0 || *seat > c.cfg.MaxGroupSize) {
			seat = nil
			invalidSeats++
		}

		bills = append(bills, sales.Bill{
			ReceiptNumber:          cols.get(row, colReceipt),
			PaidAt:                 paidAt,
			SeatAmount:             seat,
			SummaryPrice:           sales.ParseCurrencyOrZero(cols.get(row, colSummaryPrice)),
			SubtotalBillDiscount:   sales.ParseCurrencyOrZero(cols.get(row, colBillDiscount)),
			SubtotalItemDiscount:   sales.ParseCurrencyOrZero(cols.get(row, colItemDiscount)),
			ExVAT:                  sales.ParseCurrencyOrZero(cols.get(row, colExVAT)),
			BeforeVATServiceCharge: sales.ParseCurrencyOrZero(cols.get(row, colServiceCharge)),
			TableNumber:            c.tableNumber(cols, row),
			PaymentType:            cols.get(row, colPaymentType),
			Branch:                 cols.get(row, colBranch),
			BillOpenBy:             cols.get(row, colBillOpenBy),
			BillCloseBy:            cols.get(row, colBillCloseBy),
			CustomerName:           cols.get(row, colCustomer),
			PhoneNumber:            cols.get(row, colPhone),
			Remark:                 cols.get(row, colRemark),
		})
	}

	if invalidSeats > 0 {
		c.log.Warn("Found invalid group sizes", zap.Int("count", invalidSeats))
	}

	return DedupBills(bills, c.log), nil
}

// Exports label the table column either "Table" or "Table Number".
func (c *BillCleaner) tableNumber(cols columnSet, row *csvload.Row) string {
	if v := cols.get(row, colTableNumber); v != "" {
		return v
	}
	return cols.get(row, colTable)
}

// DedupBills removes duplicate receipt numbers, keeping the first
// occurrence in input order, and logs the count removed.
func DedupBills(bills []sales.Bill, log *zap.Logger) []sales.Bill {
	seen := make(map[string]bool, len(bills))
	out := bills[:0:0]
	for _, b := range bills {
		if seen[b.ReceiptNumber] {
			continue
		}
		seen[b.ReceiptNumber] = true
		out = append(out, b)
	}
	if removed := len(bills) - len(out); removed > 0 {
		log.Info("Removed duplicate records", zap.Int("count", removed))
	}
	return out
}

// DetailCleaner turns raw detail-level rows into typed LineItems.
type DetailCleaner struct {
	cfg CleanConfig
	log *zap.Logger
}

// NewDetailCleaner creates a cleaner for detail-level exports
func NewDetailCleaner(cfg CleanConfig, log *zap.Logger) *DetailCleaner {
	if cfg.MaxGroupSize <= 0 {
		cfg.MaxGroupSize = DefaultCleanConfig().MaxGroupSize
	}
	return &DetailCleaner{cfg: cfg, log: log}
}

// Clean validates the schema, types every field, computes revenue and
// discount, and deduplicates by the composite (receipt, menu code,
// menu name, timestamp) key, keeping first occurrence.
func (c *DetailCleaner) Clean(headers []string, rows []*csvload.Row) ([]sales.LineItem, error) {
	cols := newColumnSet(headers)
	if err := cols.require(requiredDetailColumns); err != nil {
		return nil, err
	}

	items := make([]sales.LineItem, 0, len(rows))

	for _, row := range rows {
		paidAt, err := sales.ParseTimestamp(cols.get(row, colPaymentDate), cols.get(row, colPaymentTime))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row.LineNumber, err)
		}

		quantity := sales.ParseQuantity(cols.get(row, colQuantity))
		unitPrice := sales.ParseCurrencyOrZero(cols.get(row, colPricePerUnit))
		summaryPrice := sales.ParseCurrencyOrZero(cols.get(row, colSummaryPrice))
		revenue := quantity.Mul(unitPrice)

		items = append(items, sales.LineItem{
			ReceiptNumber: cols.get(row, colReceipt),
			PaidAt:        paidAt,
			MenuCode:      sales.ParseMenuCode(cols.get(row, colMenuCode)),
			MenuName:      cols.getOrDefault(row, colMenuName, "Unknown"),
			Category:      cols.getOrDefault(row, colCategory, "Uncategorized"),
			Quantity:      quantity,
			PricePerUnit:  unitPrice,
			SummaryPrice:  summaryPrice,
			Revenue:       revenue,
			// Negative when the recorded summary exceeds computed
			// revenue; kept as-is rather than clamped.
			DiscountAmount: revenue.Sub(summaryPrice),
			OrderType:      cols.get(row, colOrderType),
			Channel:        cols.get(row, colChannel),
			TableNumber:    c.tableNumber(cols, row),
			Branch:         cols.get(row, colBranch),
		})
	}

	return DedupLineItems(items, c.log), nil
}

func (c *DetailCleaner) tableNumber(cols columnSet, row *csvload.Row) string {
	if v := cols.get(row, colTableNumber); v != "" {
		return v
	}
	return cols.get(row, colTable)
}

// DedupLineItems removes duplicates of the composite line-item key,
// keeping the first occurrence in input order.
func DedupLineItems(items []sales.LineItem, log *zap.Logger) []sales.LineItem {
	type key struct {
		receipt  string
		menuCode int
		menuName string
		paidAt   int64
	}
	seen := make(map[key]bool, len(items))
	out := items[:0:0]
	for _, it := range items {
		k := key{it.ReceiptNumber, it.MenuCode, it.MenuName, it.PaidAt.Unix()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	if removed := len(items) - len(out); removed > 0 {
		log.Info("Removed duplicate records", zap.Int("count", removed))
	}
	return out
}
