package refresher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"prismadash/internal"
	"prismadash/internal/config"
	"prismadash/internal/pipeline"
	"prismadash/internal/source"
)

// Syncer fetches the sheets and stores a snapshot.
type Syncer interface {
	Sync(ctx context.Context) (source.SyncResult, error)
}

// Service periodically re-syncs the review data.
type Service struct {
	syncer Syncer
	memo   *pipeline.Memo
	cfg    config.Config
	logger *zap.Logger
	onLoad func(internal.Tables)
}

func NewService(syncer Syncer, memo *pipeline.Memo, cfg config.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{syncer: syncer, memo: memo, cfg: cfg, logger: logger}
}

// OnLoad registers fn to receive the tables of every successful cycle.
func (s *Service) OnLoad(fn func(internal.Tables)) {
	s.onLoad = fn
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.RefreshIntervalSec) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	for {
		if err := s.RunCycle(ctx); err != nil {
			s.logger.Error("refresh cycle failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle syncs once, optionally exports the processed view, and clears
// the normalizer cache.
func (s *Service) RunCycle(ctx context.Context) error {
	res, err := s.syncer.Sync(ctx)
	if err != nil {
		return err
	}

	if s.onLoad != nil {
		s.onLoad(res.Tables)
	}

	written := 0
	if s.cfg.RefreshAutoExport {
		written, err = s.exportProcessed(res.Tables)
		if err != nil {
			return err
		}
	}

	if s.memo != nil {
		s.memo.Clear()
	}

	s.logger.Info("refresh cycle done",
		zap.String("traceId", res.TraceID),
		zap.String("tier", string(res.Tier)),
		zap.Int("records", len(res.Tables.Aggregate.Records)),
		zap.Int("exports", written),
	)
	return nil
}

func (s *Service) exportProcessed(tables internal.Tables) (int, error) {
	dashboard := pipeline.NewDashboard(tables, pipeline.NewClassifier(s.memo), s.cfg.FlagColumns)
	table := dashboard.Table(pipeline.ViewState{View: pipeline.ViewProcessed})

	written := 0
	for _, format := range []pipeline.ExportFormat{pipeline.FormatCSV, pipeline.FormatXLSX, pipeline.FormatJSON} {
		outputPath := filepath.Join(s.cfg.OutputDir, "refresh", fmt.Sprintf("prisma_processed.%s", format))
		if err := pipeline.ExportTableToFile(table, format, outputPath); err != nil {
			return written, fmt.Errorf("export %s: %w", format, err)
		}
		written++
	}
	return written, nil
}
