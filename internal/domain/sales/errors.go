package sales

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	// ErrEmptyFile is returned when a CSV export contains no data
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrMissingHeader is returned when a CSV export has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrEmptyBatch is returned when a load produced zero records
	ErrEmptyBatch = errors.New("batch contains no records")
)

// SchemaError reports required columns absent from an export after
// column-name normalization. It aborts the batch (or the single file
// in multi-file mode).
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// NewSchemaError creates a SchemaError for the given missing columns
func NewSchemaError(missing []string) *SchemaError {
	return &SchemaError{Missing: missing}
}

// EncodingError reports that no configured text encoding could decode
// a file. Fatal for that file.
type EncodingError struct {
	Path  string
	Tried []string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("could not decode %s with any of: %s", e.Path, strings.Join(e.Tried, ", "))
}

// FormatError reports a cell value that could not be parsed into its
// typed form. Monetary callers may coerce it to zero; timestamp
// callers must propagate it.
type FormatError struct {
	Field string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s value: %q", e.Field, e.Value)
}

// NoValidDataError reports that every file in a multi-file load
// failed, or that a directory contained no matching exports.
type NoValidDataError struct {
	Path     string
	Failures int
}

func (e *NoValidDataError) Error() string {
	if e.Failures > 0 {
		return fmt.Sprintf("no valid data in %s: all %d files failed", e.Path, e.Failures)
	}
	return fmt.Sprintf("no CSV files found in %s", e.Path)
}

// PreconditionError reports an ingestion-ordering violation, such as
// loading line items before any bills exist.
type PreconditionError struct {
	Relation string
	Hint     string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("relation %q does not exist: %s", e.Relation, e.Hint)
}

// StoreAccessError reports a permission or path problem on the
// durable store, with actionable guidance for the operator.
type StoreAccessError struct {
	Path string
	Op   string
	Hint string
	Err  error
}

func (e *StoreAccessError) Error() string {
	return fmt.Sprintf("cannot %s store at %s: %v (%s)", e.Op, e.Path, e.Err, e.Hint)
}

func (e *StoreAccessError) Unwrap() error {
	return e.Err
}
