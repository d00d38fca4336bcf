package source

import (
	"context"
	"errors"
	"strings"

	"prismadash/internal"
	"prismadash/internal/util"
)

// ErrDataUnavailable is returned when neither the per-sheet fetch nor the
// consolidated-sheet fallback produced data.
var ErrDataUnavailable = errors.New("review data unavailable")

// SheetRef locates one sheet: a published CSV URL or a Sheets API range.
type SheetRef struct {
	Name     internal.TableName
	Location string
}

// Fetcher reads one sheet from a remote provider.
type Fetcher interface {
	FetchSheet(ctx context.Context, ref SheetRef) (internal.Dataset, error)
}

// DecodeTable turns header plus string cells into records. Short rows are
// padded, extra cells beyond the header are dropped, and the well-known
// columns are lifted into typed fields.
func DecodeTable(name internal.TableName, t internal.Table) internal.Dataset {
	columns := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
	}

	ds := internal.Dataset{Name: name, Columns: columns, Records: make([]internal.Record, 0, len(t.Rows))}
	for i, row := range t.Rows {
		attrs := make(map[string]string, len(columns))
		for j, col := range columns {
			if j < len(row) {
				attrs[col] = row[j]
			} else {
				attrs[col] = ""
			}
		}
		ds.Records = append(ds.Records, decodeRecord(i, attrs))
	}
	return ds
}

func decodeRecord(index int, attrs map[string]string) internal.Record {
	r := internal.Record{
		Index:       index,
		Title:       strings.TrimSpace(attrs[internal.ColumnTitle]),
		Technology:  attrs[internal.ColumnTechnology],
		WasteType:   attrs[internal.ColumnWasteType],
		Methodology: attrs[internal.ColumnMethodology],
		Country:     attrs[internal.ColumnCountry],
		Year:        util.ParseYear(attrs[internal.ColumnYear]),
		Latitude:    util.ParseNumber(attrs[internal.ColumnLatitude]),
		Longitude:   util.ParseNumber(attrs[internal.ColumnLongitude]),
		Attributes:  attrs,
	}
	return r
}

// EncodeDataset is the inverse of DecodeTable over the raw cells.
func EncodeDataset(ds internal.Dataset) internal.Table {
	t := internal.Table{Columns: append([]string(nil), ds.Columns...), Rows: make([][]string, 0, len(ds.Records))}
	for _, r := range ds.Records {
		row := make([]string, len(ds.Columns))
		for i, col := range ds.Columns {
			row[i] = r.Attr(col)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
