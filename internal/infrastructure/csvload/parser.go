package csvload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/foodstory/analytics/internal/domain/sales"
)

// Parser reads one CSV export: a required header row followed by data
// rows. Input must already be UTF-8 (see Decode).
type Parser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	headers    []string
	headerMap  map[string]int
	currentRow int
	reader     *csv.Reader
}

// Option is a functional option for Parser configuration
type Option func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// WithTrimSpace enables trimming of leading/trailing spaces from fields
func WithTrimSpace(trim bool) Option {
	return func(p *Parser) {
		p.trimSpace = trim
	}
}

// NewParser creates a parser from a reader of UTF-8 CSV text
func NewParser(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
		headerMap:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.reader = csv.NewReader(r)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = p.lazyQuotes
	p.reader.TrimLeadingSpace = p.trimSpace
	p.reader.FieldsPerRecord = -1 // exports pad rows inconsistently

	return p
}

// NewParserFromBytes creates a parser from decoded file contents
func NewParserFromBytes(data []byte, opts ...Option) *Parser {
	return NewParser(bytes.NewReader(data), opts...)
}

// ParseHeader reads and parses the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return sales.ErrEmptyFile
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := h
		if p.trimSpace {
			header = strings.TrimSpace(header)
		}
		p.headers[i] = header
		p.headerMap[header] = i
	}

	if len(p.headers) == 0 {
		return sales.ErrMissingHeader
	}

	p.currentRow = 1 // header is row 1

	return nil
}

// Headers returns the raw header names in column order
func (p *Parser) Headers() []string {
	return p.headers
}

// Row is one parsed data row with its source line number.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by raw header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// GetOrDefault returns the value for a column, or defaultVal when the
// cell is absent or empty
func (r *Row) GetOrDefault(header, defaultVal string) string {
	if v, ok := r.Data[header]; ok && v != "" {
		return v
	}
	return defaultVal
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		p.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", p.currentRow, err)
	}

	p.currentRow++

	row := &Row{
		LineNumber: p.currentRow,
		Data:       make(map[string]string, len(p.headers)),
	}

	for i, header := range p.headers {
		if i < len(record) {
			value := record[i]
			if p.trimSpace {
				value = strings.TrimSpace(value)
			}
			row.Data[header] = value
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads every remaining data row, skipping fully empty
// ones. File order is preserved; downstream deduplication keeps the
// first occurrence, so order matters.
func (p *Parser) ReadAllRows() ([]*Row, error) {
	var rows []*Row

	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}

		if row.IsEmpty() {
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}
