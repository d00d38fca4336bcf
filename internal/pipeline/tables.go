package pipeline

import (
	"strconv"
	"strings"

	"prismadash/internal"
)

// Derived column names appended to exported views.
const (
	ColTechnologyProcessed    = "Tecnologia_Processada"
	ColWasteTypeProcessed     = "Tipo_Residuo_Processado"
	ColMethodologyProcessed   = "Metodologia_Processada"
	ColOriginalIndex          = "_original_index"
	ColTechnologiesProcessed  = "Tecnologias_Processadas"
	ColWasteTypesProcessed    = "Residuos_Processados"
	ColMethodologiesProcessed = "Metodologias_Processadas"
	ColCountryProcessed       = "País_Processado"
)

const listJoiner = "; "

func OriginalTable(columns []string, records []internal.Record) internal.Table {
	t := internal.Table{Columns: append([]string(nil), columns...), Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, rowValues(columns, r))
	}
	return t
}

// ExpandedTable repeats each record once per label combination and adds the
// combination plus the source index.
func (c *Classifier) ExpandedTable(columns []string, records []internal.Record) internal.Table {
	t := internal.Table{Columns: append(append([]string(nil), columns...),
		ColTechnologyProcessed, ColWasteTypeProcessed, ColMethodologyProcessed, ColOriginalIndex)}

	byIndex := make(map[int]internal.Record, len(records))
	for _, r := range records {
		byIndex[r.Index] = r
	}
	for _, row := range c.Expand(records) {
		values := rowValues(columns, byIndex[row.SourceIndex])
		values = append(values, row.Technology, row.WasteType, row.Methodology, strconv.Itoa(row.SourceIndex))
		t.Rows = append(t.Rows, values)
	}
	return t
}

// ProcessedTable keeps one row per record and adds the joined label lists.
func (c *Classifier) ProcessedTable(columns []string, records []internal.Record) internal.Table {
	t := internal.Table{
		Columns: append(append([]string(nil), columns...),
			ColTechnologiesProcessed, ColWasteTypesProcessed, ColMethodologiesProcessed, ColCountryProcessed),
		Rows: make([][]string, 0, len(records)),
	}
	for _, r := range records {
		labels := c.Labels(r)
		values := rowValues(columns, r)
		values = append(values,
			strings.Join(labels.Technologies, listJoiner),
			strings.Join(labels.WasteTypes, listJoiner),
			strings.Join(labels.Methodologies, listJoiner),
			labels.Country,
		)
		t.Rows = append(t.Rows, values)
	}
	return t
}

func (c *Classifier) BuildTable(view ViewKind, columns []string, records []internal.Record) internal.Table {
	switch view {
	case ViewExpanded:
		return c.ExpandedTable(columns, records)
	case ViewProcessed:
		return c.ProcessedTable(columns, records)
	default:
		return OriginalTable(columns, records)
	}
}

func rowValues(columns []string, r internal.Record) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = r.Attr(col)
	}
	return values
}
