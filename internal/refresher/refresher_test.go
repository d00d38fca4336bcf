package refresher

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prismadash/internal"
	"prismadash/internal/config"
	"prismadash/internal/pipeline"
	"prismadash/internal/source"
)

type fakeSyncer struct {
	calls int
	err   error
}

func (f *fakeSyncer) Sync(context.Context) (source.SyncResult, error) {
	f.calls++
	if f.err != nil {
		return source.SyncResult{}, f.err
	}
	table := internal.Table{
		Columns: []string{internal.ColumnTitle, internal.ColumnTechnology, internal.ColumnCountry},
		Rows:    [][]string{{"Estudo", "Biogás e pirólise", "Brasil"}},
	}
	ds := source.DecodeTable(internal.TableAggregate, table)
	return source.SyncResult{
		TraceID: "trace",
		Tier:    source.TierMulti,
		Tables:  internal.Tables{Aggregate: ds, Waste: ds, Technology: ds},
	}, nil
}

func TestRunCycleExportsAndClearsMemo(t *testing.T) {
	dir := t.TempDir()
	memo := pipeline.NewMemo()
	pipeline.Memoize(memo, "warm", func(s string) string { return s })("x")

	cfg := config.Config{OutputDir: dir, RefreshAutoExport: true}
	svc := NewService(&fakeSyncer{}, memo, cfg, zap.NewNop())

	var loaded internal.Tables
	svc.OnLoad(func(t internal.Tables) { loaded = t })

	require.NoError(t, svc.RunCycle(context.Background()))
	assert.Len(t, loaded.Aggregate.Records, 1)
	for _, ext := range []string{"csv", "xlsx", "json"} {
		assert.FileExists(t, filepath.Join(dir, "refresh", "prisma_processed."+ext))
	}
	assert.Equal(t, 0, memo.Stats().Entries)
}

func TestRunCycleWithoutExport(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&fakeSyncer{}, nil, config.Config{OutputDir: dir}, nil)
	require.NoError(t, svc.RunCycle(context.Background()))
	assert.NoFileExists(t, filepath.Join(dir, "refresh", "prisma_processed.csv"))
}

func TestRunKeepsGoingAfterErrors(t *testing.T) {
	syncer := &fakeSyncer{err: errors.New("sheet offline")}
	svc := NewService(syncer, nil, config.Config{RefreshIntervalSec: 1}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 1500*time.Millisecond)
	defer cancel()

	require.NoError(t, svc.Run(ctx))
	assert.GreaterOrEqual(t, syncer.calls, 2)
}
