package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/foodstory/analytics/internal/application/ingest"
	"github.com/foodstory/analytics/internal/infrastructure/config"
	"github.com/foodstory/analytics/internal/infrastructure/csvload"
	"github.com/foodstory/analytics/internal/infrastructure/logger"
	"github.com/foodstory/analytics/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	source := flag.String("source", "", "CSV file or directory of detail-level exports")
	flag.Parse()

	if *source == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest-details -source <file-or-directory>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Error("Failed to open store", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	svc := newIngestService(cfg, db, log)

	summary, err := svc.IngestDetails(context.Background(), *source)
	if err != nil {
		log.Error("Detail ingestion failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("Done",
		zap.String("run_id", summary.RunID),
		zap.Int("records", summary.Records),
		zap.Duration("duration", summary.Duration))
}

func newIngestService(cfg *config.Config, db *persistence.Database, log *zap.Logger) *ingest.Service {
	encodings := make([]csvload.Encoding, len(cfg.Ingest.Encodings))
	for i, e := range cfg.Ingest.Encodings {
		encodings[i] = csvload.Encoding(e)
	}

	cleanCfg := ingest.CleanConfig{MaxGroupSize: cfg.Analysis.MaxGroupSize}
	loader := ingest.NewLoader(
		ingest.LoaderConfig{Pattern: cfg.Ingest.Pattern, Encodings: encodings},
		ingest.NewBillCleaner(cleanCfg, log),
		ingest.NewDetailCleaner(cleanCfg, log),
		log,
	)

	return ingest.NewService(
		loader,
		persistence.NewGormBillRepository(db.DB),
		persistence.NewGormDetailRepository(db.DB),
		log,
	)
}
