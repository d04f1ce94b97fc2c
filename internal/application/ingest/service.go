package ingest

import (
	"context"
	"time"

	"github.com/foodstory/analytics/internal/domain/sales"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunSummary describes one completed ingestion run.
type RunSummary struct {
	RunID    string        `json:"run_id"`
	Source   string        `json:"source"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration"`
}

// Service orchestrates a full load-clean-replace ingestion run.
type Service struct {
	loader  *Loader
	bills   sales.BillRepository
	details sales.DetailRepository
	log     *zap.Logger
}

// NewService creates an ingestion service
func NewService(loader *Loader, bills sales.BillRepository, details sales.DetailRepository, log *zap.Logger) *Service {
	return &Service{loader: loader, bills: bills, details: details, log: log}
}

// IngestBills loads bill-level exports from path and replaces the
// sales relation with the cleaned batch.
func (s *Service) IngestBills(ctx context.Context, path string) (*RunSummary, error) {
	runID := uuid.New().String()
	start := time.Now()

	log := s.log.With(zap.String("run_id", runID), zap.String("source", path))
	log.Info("Starting bill ingestion")

	bills, err := s.loader.LoadBills(path)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, sales.ErrEmptyBatch
	}

	if err := s.bills.Replace(ctx, bills); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:    runID,
		Source:   path,
		Records:  len(bills),
		Duration: time.Since(start),
	}
	log.Info("Bill ingestion complete",
		zap.Int("records", summary.Records),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// IngestDetails loads detail-level exports from path and replaces the
// sales_detail relation, recomputing the derived summaries. Bills must
// have been ingested first.
func (s *Service) IngestDetails(ctx context.Context, path string) (*RunSummary, error) {
	runID := uuid.New().String()
	start := time.Now()

	log := s.log.With(zap.String("run_id", runID), zap.String("source", path))
	log.Info("Starting detail ingestion")

	items, err := s.loader.LoadLineItems(path)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, sales.ErrEmptyBatch
	}

	if err := s.details.Replace(ctx, items); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:    runID,
		Source:   path,
		Records:  len(items),
		Duration: time.Since(start),
	}
	log.Info("Detail ingestion complete",
		zap.Int("records", summary.Records),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}
