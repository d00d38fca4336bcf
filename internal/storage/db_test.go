package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prismadash/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "prisma.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestReplaceAndLoadDataset(t *testing.T) {
	db := openTestDB(t)
	fetched := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	first := internal.Table{
		Columns: []string{"TITULO", "PAIS"},
		Rows:    [][]string{{"A", "Brasil"}, {"B", ""}, {"C", "Chile"}},
	}
	require.NoError(t, db.ReplaceDataset(internal.TableAggregate, first, fetched))

	got, err := db.LoadDataset(internal.TableAggregate)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first, *got)

	second := internal.Table{Columns: []string{"TITULO"}, Rows: [][]string{{"Pirólise"}}}
	require.NoError(t, db.ReplaceDataset(internal.TableAggregate, second, fetched.Add(time.Hour)))

	got, err = db.LoadDataset(internal.TableAggregate)
	require.NoError(t, err)
	assert.Equal(t, second, *got)

	infos, err := db.ListDatasets()
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, DatasetInfo{Name: internal.TableAggregate, Columns: 1, Rows: 1, FetchedAt: fetched.Add(time.Hour)}, infos[0])
}

func TestLoadMissingDataset(t *testing.T) {
	db := openTestDB(t)
	got, err := db.LoadDataset(internal.TableWaste)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunsAndMetadata(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertRun(internal.RunRow{TraceID: "a", Tier: "multi", Counts: map[string]int{"aggregate": 3}, Timings: map[string]float64{"totalMs": 12}}))
	require.NoError(t, db.InsertRun(internal.RunRow{TraceID: "b", Tier: "fallback", Counts: map[string]int{"aggregate": 3}}))

	runs, err := db.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "b", runs[0].TraceID)
	assert.Equal(t, "fallback", runs[0].Tier)
	assert.Equal(t, 3, runs[1].Counts["aggregate"])
	assert.NotEmpty(t, runs[1].CreatedAt)

	missing, err := db.GetMetadata("data.last_sync")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, db.SetMetadata("data.last_sync", "x"))
	require.NoError(t, db.SetMetadata("data.last_sync", "y"))
	value, err := db.GetMetadata("data.last_sync")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "y", *value)
}
