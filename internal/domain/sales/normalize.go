package sales

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the day-first payment timestamp format used by
// the POS exports: "25/12/2024 13:30".
const TimestampLayout = "02/01/2006 15:04"

// currencyReplacer strips the Baht glyph and thousands separators
// before numeric parsing.
var currencyReplacer = strings.NewReplacer("฿", "", ",", "")

// columnReplacer maps raw header characters to store-friendly ones.
var columnReplacer = strings.NewReplacer(
	" ", "_",
	"-", "_",
	".", "",
	"(", "",
	")", "",
)

// NormalizeColumnName converts a raw export header into its canonical
// token: lower-cased, spaces and hyphens replaced with underscores,
// periods and parentheses stripped. Idempotent.
func NormalizeColumnName(name string) string {
	return columnReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// ParseCurrency parses a monetary cell such as "฿1,234.50" into a
// decimal. Empty or whitespace-only input yields zero. Non-numeric
// residue after stripping the glyph and separators returns a
// *FormatError; use ParseCurrencyOrZero at call sites that coerce
// instead of propagating.
func ParseCurrency(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(value))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &FormatError{Field: "currency", Value: value}
	}
	return d, nil
}

// ParseCurrencyOrZero is the fail-open variant of ParseCurrency used
// by the ingestion cleaners: malformed input becomes zero so one bad
// cell cannot abort a batch.
func ParseCurrencyOrZero(value string) decimal.Decimal {
	d, err := ParseCurrency(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseSeatCount parses a party-size cell. Garbage input yields nil
// rather than an error so a batch with some bad counts still loads;
// downstream group-size aggregates skip nil values.
func ParseSeatCount(value string) *int {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return nil
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		// Exports occasionally format counts as "4.0".
		f, ferr := strconv.ParseFloat(cleaned, 64)
		if ferr != nil || f != float64(int(f)) {
			return nil
		}
		n = int(f)
	}
	return &n
}

// ParseQuantity parses an item quantity, coercing failures to zero.
func ParseQuantity(value string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseMenuCode parses a numeric menu code, coercing failures to zero.
func ParseMenuCode(value string) int {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		f, ferr := strconv.ParseFloat(cleaned, 64)
		if ferr != nil {
			return 0
		}
		n = int(f)
	}
	return n
}

// ParseTimestamp combines a payment date and time cell into one
// timestamp using strict day-first ordering. There is no coercion
// fallback: ordering and deduplication depend on this field, so
// malformed input fails the batch.
func ParseTimestamp(dateText, timeText string) (time.Time, error) {
	combined := strings.TrimSpace(dateText) + " " + strings.TrimSpace(timeText)
	ts, err := time.Parse(TimestampLayout, combined)
	if err != nil {
		return time.Time{}, &FormatError{Field: "timestamp", Value: combined}
	}
	return ts, nil
}
