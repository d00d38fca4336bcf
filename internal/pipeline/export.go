package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"prismadash/internal"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
	FormatJSON ExportFormat = "json"
)

// ExcelSheetName is the only sheet of an Excel export.
const ExcelSheetName = "Data"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", value)
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

func WriteTable(w io.Writer, format ExportFormat, t internal.Table) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ExportTableToFile writes t to outputPath, creating parent directories.
func ExportTableToFile(t internal.Table, format ExportFormat, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := WriteTable(f, format, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes UTF-8 CSV with a byte order mark so spreadsheet tools pick
// the right encoding.
func WriteCSV(w io.Writer, t internal.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, t internal.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ExcelSheetName); err != nil {
		return err
	}

	for i, h := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ExcelSheetName, cell, h); err != nil {
			return err
		}
	}

	for i, row := range t.Rows {
		r := i + 2
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			if err := f.SetCellValue(ExcelSheetName, cell, value); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// WriteJSON writes an indented array of objects whose keys follow the table's
// column order. Empty cells become null; non-ASCII text is written as is.
func WriteJSON(w io.Writer, t internal.Table) error {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			compact.WriteByte(',')
		}
		compact.WriteByte('{')
		for j, col := range t.Columns {
			if j > 0 {
				compact.WriteByte(',')
			}
			if err := writeJSONString(&compact, col); err != nil {
				return err
			}
			compact.WriteByte(':')
			value := ""
			if j < len(row) {
				value = row[j]
			}
			if value == "" {
				compact.WriteString("null")
				continue
			}
			if err := writeJSONString(&compact, value); err != nil {
				return err
			}
		}
		compact.WriteByte('}')
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := w.Write(out.Bytes())
	return err
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}
