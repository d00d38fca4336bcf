package source

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prismadash/internal"
	"prismadash/internal/storage"
)

type fakeFetcher struct {
	mu    sync.Mutex
	fail  map[internal.TableName]error
	calls map[internal.TableName]int
}

func newFakeFetcher(fail map[internal.TableName]error) *fakeFetcher {
	return &fakeFetcher{fail: fail, calls: map[internal.TableName]int{}}
}

func (f *fakeFetcher) FetchSheet(_ context.Context, ref SheetRef) (internal.Dataset, error) {
	f.mu.Lock()
	f.calls[ref.Name]++
	err := f.fail[ref.Name]
	f.mu.Unlock()
	if err != nil {
		return internal.Dataset{}, err
	}
	table := internal.Table{
		Columns: []string{internal.ColumnTitle, internal.ColumnYear},
		Rows:    [][]string{{string(ref.Name) + " study", "2020"}},
	}
	return DecodeTable(ref.Name, table), nil
}

func testRefs() Refs {
	return Refs{
		Aggregate:  SheetRef{Name: internal.TableAggregate, Location: "a"},
		Waste:      SheetRef{Name: internal.TableWaste, Location: "w"},
		Technology: SheetRef{Name: internal.TableTechnology, Location: "t"},
	}
}

func TestLoadTablesAllSheets(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	tables, tier, err := NewLoader(fetcher, testRefs(), zap.NewNop()).LoadTables(context.Background())

	require.NoError(t, err)
	assert.Equal(t, TierMulti, tier)
	assert.False(t, tables.Degraded)
	assert.Equal(t, "waste study", tables.Waste.Records[0].Title)
	assert.Equal(t, "technology study", tables.Technology.Records[0].Title)
	assert.Equal(t, "aggregate study", tables.Aggregate.Records[0].Title)
}

func TestLoadTablesFallsBackToAggregate(t *testing.T) {
	fetcher := newFakeFetcher(map[internal.TableName]error{internal.TableTechnology: errors.New("404")})
	tables, tier, err := NewLoader(fetcher, testRefs(), nil).LoadTables(context.Background())

	require.NoError(t, err)
	assert.Equal(t, TierFallback, tier)
	assert.True(t, tables.Degraded)
	assert.Equal(t, tables.Aggregate, tables.Waste)
	assert.Equal(t, tables.Aggregate, tables.Technology)
	assert.Equal(t, "aggregate study", tables.Technology.Records[0].Title)
}

func TestLoadTablesUnavailable(t *testing.T) {
	fetcher := newFakeFetcher(map[internal.TableName]error{
		internal.TableAggregate: errors.New("timeout"),
		internal.TableWaste:     errors.New("timeout"),
	})
	_, _, err := NewLoader(fetcher, testRefs(), nil).LoadTables(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	// Tier 1 attempt plus one fallback attempt, no retries.
	assert.LessOrEqual(t, fetcher.calls[internal.TableAggregate], 2)
}

func TestSyncStoresSnapshot(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "prisma.db"))
	require.NoError(t, err)
	defer db.Close()

	svc := NewSyncService(db, NewLoader(newFakeFetcher(nil), testRefs(), nil), zap.NewNop())
	res, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TierMulti, res.Tier)
	assert.NotEmpty(t, res.TraceID)

	runs, err := db.ListRuns(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.TraceID, runs[0].TraceID)
	assert.Equal(t, 1, runs[0].Counts["aggregate"])

	last, err := db.GetMetadata(MetaLastSync)
	require.NoError(t, err)
	assert.NotNil(t, last)

	tables, err := LoadSnapshot(db)
	require.NoError(t, err)
	assert.False(t, tables.Degraded)
	assert.Equal(t, "waste study", tables.Waste.Records[0].Title)
	require.NotNil(t, tables.Aggregate.Records[0].Year)
	assert.Equal(t, 2020, *tables.Aggregate.Records[0].Year)
}

func TestSyncFailureLeavesSnapshot(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "prisma.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = LoadSnapshot(db)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	failing := newFakeFetcher(map[internal.TableName]error{internal.TableAggregate: errors.New("down")})
	_, err = NewSyncService(db, NewLoader(failing, testRefs(), nil), nil).Sync(context.Background())
	assert.ErrorIs(t, err, ErrDataUnavailable)

	runs, err := db.ListRuns(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestDecodeTableRoundTrip(t *testing.T) {
	in := internal.Table{
		Columns: []string{internal.ColumnTitle, internal.ColumnCountry, "EXTRA"},
		Rows:    [][]string{{"A", "Brasil", "x", "dropped"}, {"B"}},
	}
	ds := DecodeTable(internal.TableAggregate, in)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, "Brasil", ds.Records[0].Country)
	assert.Equal(t, "", ds.Records[1].Attr("EXTRA"))

	out := EncodeDataset(ds)
	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, [][]string{{"A", "Brasil", "x"}, {"B", "", ""}}, out.Rows)
}

func TestValuesToTable(t *testing.T) {
	table, err := valuesToTable([][]interface{}{{"TITULO", "ANO"}, {"A", 2019}, {"B"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"TITULO", "ANO"}, table.Columns)
	assert.Equal(t, [][]string{{"A", "2019"}, {"B"}}, table.Rows)

	_, err = valuesToTable(nil)
	assert.Error(t, err)
}
