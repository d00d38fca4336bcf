package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"prismadash/internal"
)

type DB struct {
	conn *sql.DB
}

// DatasetInfo describes a stored sheet snapshot.
type DatasetInfo struct {
	Name      internal.TableName
	Columns   int
	Rows      int
	FetchedAt time.Time
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS datasets (
  name TEXT PRIMARY KEY,
  columnsJson TEXT NOT NULL,
  fetchedAt TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
  dataset TEXT NOT NULL,
  rowIndex INTEGER NOT NULL,
  rawJson TEXT NOT NULL,
  PRIMARY KEY(dataset, rowIndex),
  FOREIGN KEY(dataset) REFERENCES datasets(name)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  tier TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceDataset stores t as the current snapshot of name, dropping the
// previous rows in the same transaction.
func (d *DB) ReplaceDataset(name internal.TableName, t internal.Table, fetchedAt time.Time) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	columnsJSON, err := json.Marshal(t.Columns)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM records WHERE dataset = ?`, string(name)); err != nil {
		return err
	}
	if _, err := tx.Exec(`
INSERT INTO datasets (name, columnsJson, fetchedAt) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET columnsJson = excluded.columnsJson, fetchedAt = excluded.fetchedAt
`, string(name), string(columnsJSON), fetchedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO records (dataset, rowIndex, rawJson) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, row := range t.Rows {
		rowJSON, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(string(name), i, string(rowJSON)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadDataset returns the stored snapshot of name, or nil when none exists.
func (d *DB) LoadDataset(name internal.TableName) (*internal.Table, error) {
	var columnsJSON string
	err := d.conn.QueryRow(`SELECT columnsJson FROM datasets WHERE name = ?`, string(name)).Scan(&columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t := &internal.Table{}
	if err := json.Unmarshal([]byte(columnsJSON), &t.Columns); err != nil {
		return nil, fmt.Errorf("dataset %s columns: %w", name, err)
	}

	rows, err := d.conn.Query(`SELECT rawJson FROM records WHERE dataset = ? ORDER BY rowIndex ASC`, string(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rawJSON string
		if err := rows.Scan(&rawJSON); err != nil {
			return nil, err
		}
		var row []string
		if err := json.Unmarshal([]byte(rawJSON), &row); err != nil {
			return nil, fmt.Errorf("dataset %s row: %w", name, err)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, rows.Err()
}

func (d *DB) ListDatasets() ([]DatasetInfo, error) {
	rows, err := d.conn.Query(`
SELECT d.name, d.columnsJson, d.fetchedAt, COUNT(r.rowIndex)
FROM datasets d
LEFT JOIN records r ON r.dataset = d.name
GROUP BY d.name
ORDER BY d.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DatasetInfo
	for rows.Next() {
		var info DatasetInfo
		var name, columnsJSON, fetchedAt string
		if err := rows.Scan(&name, &columnsJSON, &fetchedAt, &info.Rows); err != nil {
			return nil, err
		}
		var columns []string
		_ = json.Unmarshal([]byte(columnsJSON), &columns)
		info.Name = internal.TableName(name)
		info.Columns = len(columns)
		info.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		out = append(out, info)
	}

	return out, rows.Err()
}

func (d *DB) InsertRun(run internal.RunRow) error {
	timingsJSON, _ := json.Marshal(run.Timings)
	countsJSON, _ := json.Marshal(run.Counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, tier, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, run.TraceID, run.Tier, string(timingsJSON), string(countsJSON))
	return err
}

// ListRuns returns the most recent runs first.
func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(`
SELECT traceId, tier, timingsJson, countsJson, createdAt
FROM runs
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var run internal.RunRow
		var timingsJSON, countsJSON string
		if err := rows.Scan(&run.TraceID, &run.Tier, &timingsJSON, &countsJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(timingsJSON), &run.Timings)
		_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
		out = append(out, run)
	}

	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
