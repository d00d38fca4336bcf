package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prismadash/internal"
	"prismadash/internal/storage"
)

// Metadata keys written by a sync.
const (
	MetaLastSync = "data.last_sync"
	MetaLastTier = "data.last_tier"
)

// ErrNoSnapshot is returned by LoadSnapshot before the first sync.
var ErrNoSnapshot = errors.New("no stored snapshot")

type SyncService struct {
	db     *storage.DB
	loader *Loader
	logger *zap.Logger
	now    func() time.Time
}

func NewSyncService(db *storage.DB, loader *Loader, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{db: db, loader: loader, logger: logger, now: time.Now}
}

type SyncResult struct {
	TraceID string
	Tier    Tier
	Tables  internal.Tables
}

// Sync loads the sheets and stores them as the current snapshot.
func (s *SyncService) Sync(ctx context.Context) (SyncResult, error) {
	start := s.now()
	traceID := uuid.NewString()
	logger := s.logger.With(zap.String("traceId", traceID))

	tables, tier, err := s.loader.LoadTables(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	fetchedMs := float64(s.now().Sub(start).Milliseconds())

	for _, ds := range []struct {
		name internal.TableName
		data internal.Dataset
	}{
		{internal.TableAggregate, tables.Aggregate},
		{internal.TableWaste, tables.Waste},
		{internal.TableTechnology, tables.Technology},
	} {
		if err := s.db.ReplaceDataset(ds.name, EncodeDataset(ds.data), start); err != nil {
			return SyncResult{}, fmt.Errorf("store %s: %w", ds.name, err)
		}
	}

	counts := map[string]int{
		string(internal.TableAggregate):  len(tables.Aggregate.Records),
		string(internal.TableWaste):      len(tables.Waste.Records),
		string(internal.TableTechnology): len(tables.Technology.Records),
	}
	timings := map[string]float64{
		"fetchMs": fetchedMs,
		"totalMs": float64(s.now().Sub(start).Milliseconds()),
	}
	if err := s.db.InsertRun(internal.RunRow{TraceID: traceID, Tier: string(tier), Counts: counts, Timings: timings}); err != nil {
		logger.Warn("record run failed", zap.Error(err))
	}
	_ = s.db.SetMetadata(MetaLastSync, start.UTC().Format(time.RFC3339))
	_ = s.db.SetMetadata(MetaLastTier, string(tier))

	logger.Info("data synced",
		zap.String("tier", string(tier)),
		zap.Int("records", len(tables.Aggregate.Records)),
		zap.Bool("degraded", tables.Degraded),
	)
	return SyncResult{TraceID: traceID, Tier: tier, Tables: tables}, nil
}

// LoadSnapshot rebuilds the tables from the last stored sync. Missing waste or
// technology snapshots fall back to the aggregate one.
func LoadSnapshot(db *storage.DB) (internal.Tables, error) {
	load := func(name internal.TableName) (*internal.Dataset, error) {
		t, err := db.LoadDataset(name)
		if err != nil || t == nil {
			return nil, err
		}
		ds := DecodeTable(name, *t)
		return &ds, nil
	}

	aggregate, err := load(internal.TableAggregate)
	if err != nil {
		return internal.Tables{}, err
	}
	if aggregate == nil {
		return internal.Tables{}, ErrNoSnapshot
	}

	tables := internal.Tables{Aggregate: *aggregate, Waste: *aggregate, Technology: *aggregate}
	waste, err := load(internal.TableWaste)
	if err != nil {
		return internal.Tables{}, err
	}
	technology, err := load(internal.TableTechnology)
	if err != nil {
		return internal.Tables{}, err
	}
	if waste == nil || technology == nil {
		tables.Degraded = true
		return tables, nil
	}
	tables.Waste, tables.Technology = *waste, *technology

	if tier, _ := db.GetMetadata(MetaLastTier); tier != nil && Tier(*tier) == TierFallback {
		tables.Degraded = true
	}
	return tables, nil
}
