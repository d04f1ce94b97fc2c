package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/foodstory/analytics/internal/infrastructure/csvload"
	"go.uber.org/zap"
)

// LoaderConfig parameterizes file discovery and decoding.
type LoaderConfig struct {
	// Pattern matches export files inside a directory (default "*.csv").
	Pattern string
	// Encodings is the ordered decode fallback chain.
	Encodings []csvload.Encoding
}

// DefaultLoaderConfig returns the documented loader defaults
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		Pattern:   "*.csv",
		Encodings: csvload.DefaultEncodings(),
	}
}

// Loader reads sales exports from a file or a directory of files. In
// directory mode a file that fails to decode, parse or clean is logged
// and skipped; the load fails only when every file fails. In
// single-file mode any failure is fatal.
type Loader struct {
	cfg   LoaderConfig
	bills *BillCleaner
	items *DetailCleaner
	log   *zap.Logger
}

// NewLoader creates a loader over the given cleaners
func NewLoader(cfg LoaderConfig, bills *BillCleaner, items *DetailCleaner, log *zap.Logger) *Loader {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultLoaderConfig().Pattern
	}
	if len(cfg.Encodings) == 0 {
		cfg.Encodings = DefaultLoaderConfig().Encodings
	}
	return &Loader{cfg: cfg, bills: bills, items: items, log: log}
}

// LoadBills loads and cleans bill-level exports from path. The result
// is deduplicated across files, first occurrence kept.
func (l *Loader) LoadBills(path string) ([]sales.Bill, error) {
	var all []sales.Bill
	err := l.loadEach(path, func(file string, headers []string, rows []*csvload.Row) error {
		bills, err := l.bills.Clean(headers, rows)
		if err != nil {
			return err
		}
		all = append(all, bills...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Files may overlap in coverage; dedup again across the batch.
	return DedupBills(all, l.log), nil
}

// LoadLineItems loads and cleans detail-level exports from path.
func (l *Loader) LoadLineItems(path string) ([]sales.LineItem, error) {
	var all []sales.LineItem
	err := l.loadEach(path, func(file string, headers []string, rows []*csvload.Row) error {
		items, err := l.items.Clean(headers, rows)
		if err != nil {
			return err
		}
		all = append(all, items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return DedupLineItems(all, l.log), nil
}

type fileFunc func(file string, headers []string, rows []*csvload.Row) error

// loadEach resolves path to one or more export files and runs fn on
// each file's parsed contents.
func (l *Loader) loadEach(path string, fn fileFunc) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}

	if !info.IsDir() {
		return l.loadFile(path, fn)
	}

	files, err := filepath.Glob(filepath.Join(path, l.cfg.Pattern))
	if err != nil {
		return fmt.Errorf("bad file pattern %q: %w", l.cfg.Pattern, err)
	}
	if len(files) == 0 {
		return &sales.NoValidDataError{Path: path}
	}
	sort.Strings(files)

	failed := 0
	for _, file := range files {
		if err := l.loadFile(file, fn); err != nil {
			failed++
			l.log.Warn("Skipping file",
				zap.String("file", file),
				zap.Error(err))
		}
	}
	if failed == len(files) {
		return &sales.NoValidDataError{Path: path, Failures: failed}
	}

	return nil
}

func (l *Loader) loadFile(path string, fn fileFunc) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	decoded, enc, err := csvload.Decode(path, raw, l.cfg.Encodings)
	if err != nil {
		return err
	}

	parser := csvload.NewParserFromBytes(decoded)
	if err := parser.ParseHeader(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	l.log.Info("Loaded file",
		zap.String("file", path),
		zap.String("encoding", string(enc)),
		zap.Int("rows", len(rows)))

	return fn(path, parser.Headers(), rows)
}
