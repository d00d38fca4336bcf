package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOURCE_KIND", "")
	t.Setenv("FLAG_COLUMNS", "")
	t.Setenv("REFRESH_INTERVAL_SEC", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 900, cfg.RefreshIntervalSec)
	assert.Contains(t, cfg.FlagColumns, "Pirolise")
	assert.Len(t, cfg.FlagColumns, 18)
	assert.Contains(t, cfg.SheetURLData, "output=csv")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOURCE_KIND", "Sheets")
	t.Setenv("FLAG_COLUMNS", " CHP , ,W2VA")
	t.Setenv("MEMO_ENABLED", "off")
	t.Setenv("FETCH_TIMEOUT_MS", "500")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceSheets, cfg.SourceKind)
	assert.Equal(t, []string{"CHP", "W2VA"}, cfg.FlagColumns)
	assert.False(t, cfg.MemoEnabled)
	assert.Equal(t, 500, cfg.FetchTimeoutMs)
}

func TestValidate(t *testing.T) {
	cfg := Config{SourceKind: SourceCSV, SheetURLData: "https://example.test/data.csv"}
	assert.NoError(t, cfg.Validate())

	cfg = Config{SourceKind: SourceSheets, GoogleClientID: "id"}
	assert.EqualError(t, cfg.Validate(), "missing required env var: GOOGLE_CLIENT_SECRET")

	cfg = Config{SourceKind: "ftp"}
	assert.Error(t, cfg.Validate())
}
