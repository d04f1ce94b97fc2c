package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is one header-level transaction: a single party's receipt.
// The receipt number is the business key; within a cleaned batch it is
// unique, with the first occurrence in input order kept.
type Bill struct {
	ReceiptNumber          string          `gorm:"column:receipt_number;primaryKey;size:64" json:"receipt_number"`
	PaidAt                 time.Time       `gorm:"column:paid_at;not null;index:idx_sales_paid_at" json:"paid_at"`
	SeatAmount             *int            `gorm:"column:seat_amount;index:idx_sales_seats" json:"seat_amount"`
	SummaryPrice           decimal.Decimal `gorm:"column:summary_price;type:decimal(20,4)" json:"summary_price"`
	SubtotalBillDiscount   decimal.Decimal `gorm:"column:subtotal_bill_discount;type:decimal(20,4)" json:"subtotal_bill_discount"`
	SubtotalItemDiscount   decimal.Decimal `gorm:"column:subtotal_item_discount;type:decimal(20,4)" json:"subtotal_item_discount"`
	ExVAT                  decimal.Decimal `gorm:"column:ex_vat;type:decimal(20,4)" json:"ex_vat"`
	BeforeVATServiceCharge decimal.Decimal `gorm:"column:before_vat_service_charge;type:decimal(20,4)" json:"before_vat_service_charge"`
	TableNumber            string          `gorm:"column:table_number;size:32" json:"table_number"`
	PaymentType            string          `gorm:"column:payment_type;size:64;index:idx_sales_payment" json:"payment_type"`
	Branch                 string          `gorm:"column:branch;size:128" json:"branch"`
	BillOpenBy             string          `gorm:"column:bill_open_by;size:128" json:"bill_open_by"`
	BillCloseBy            string          `gorm:"column:bill_close_by;size:128" json:"bill_close_by"`
	CustomerName           string          `gorm:"column:customer_name;size:255" json:"customer_name"`
	PhoneNumber            string          `gorm:"column:phone_number;size:32" json:"phone_number"`
	Remark                 string          `gorm:"column:remark" json:"remark"`
}

func (Bill) TableName() string {
	return "sales"
}

// LineItem is one menu item sold within a bill. The receipt number is
// a soft reference to Bill: orphans are tolerated and remain valid for
// menu and category analysis.
type LineItem struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ReceiptNumber  string          `gorm:"column:receipt_number;size:64;index:idx_detail_receipt" json:"receipt_number"`
	PaidAt         time.Time       `gorm:"column:paid_at;not null;index:idx_detail_paid_at" json:"paid_at"`
	MenuCode       int             `gorm:"column:menu_code;index:idx_detail_menu" json:"menu_code"`
	MenuName       string          `gorm:"column:menu_name;size:255" json:"menu_name"`
	Category       string          `gorm:"column:category;size:128;index:idx_detail_category" json:"category"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:decimal(20,4)" json:"quantity"`
	PricePerUnit   decimal.Decimal `gorm:"column:price_per_unit;type:decimal(20,4)" json:"price_per_unit"`
	SummaryPrice   decimal.Decimal `gorm:"column:summary_price;type:decimal(20,4)" json:"summary_price"`
	Revenue        decimal.Decimal `gorm:"column:revenue;type:decimal(20,4)" json:"revenue"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(20,4)" json:"discount_amount"`
	OrderType      string          `gorm:"column:order_type;size:64" json:"order_type"`
	Channel        string          `gorm:"column:channel;size:64" json:"channel"`
	TableNumber    string          `gorm:"column:table_number;size:32" json:"table_number"`
	Branch         string          `gorm:"column:branch;size:128" json:"branch"`
}

func (LineItem) TableName() string {
	return "sales_detail"
}

// MenuSummary aggregates line items per (menu code, name, category)
// across all time. Fully recomputed from sales_detail on each detail
// ingestion run. TimesOrdered counts line-item rows; OrderCount
// counts distinct receipts, which a receipt repeating the item at two
// timestamps increments only once.
type MenuSummary struct {
	MenuCode      int             `gorm:"column:menu_code;index:idx_menu_code" json:"menu_code"`
	MenuName      string          `gorm:"column:menu_name;size:255" json:"menu_name"`
	Category      string          `gorm:"column:category;size:128;index:idx_menu_category" json:"category"`
	TotalQuantity decimal.Decimal `gorm:"column:total_quantity;type:decimal(20,4)" json:"total_quantity"`
	TotalRevenue  decimal.Decimal `gorm:"column:total_revenue;type:decimal(20,4)" json:"total_revenue"`
	TotalDiscount decimal.Decimal `gorm:"column:total_discount;type:decimal(20,4)" json:"total_discount"`
	TimesOrdered  int64           `gorm:"column:times_ordered" json:"times_ordered"`
	OrderCount    int64           `gorm:"column:order_count" json:"order_count"`
}

func (MenuSummary) TableName() string {
	return "menu_summary"
}

// MonthlySummary is the time-bucketed variant of MenuSummary, one row
// per (year-month, menu code, name, category). Orders counts distinct
// receipts within the month.
type MonthlySummary struct {
	YearMonth      string          `gorm:"column:year_month;size:7;index:idx_year_month" json:"year_month"`
	MenuCode       int             `gorm:"column:menu_code;index:idx_menu_monthly" json:"menu_code"`
	MenuName       string          `gorm:"column:menu_name;size:255" json:"menu_name"`
	Category       string          `gorm:"column:category;size:128" json:"category"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:decimal(20,4)" json:"quantity"`
	Revenue        decimal.Decimal `gorm:"column:revenue;type:decimal(20,4)" json:"revenue"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(20,4)" json:"discount_amount"`
	Orders         int64           `gorm:"column:orders" json:"orders"`
}

func (MonthlySummary) TableName() string {
	return "monthly_summary"
}
