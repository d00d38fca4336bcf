package pipeline

import (
	"prismadash/internal"
)

// Dashboard answers every presentation query from one loaded set of tables.
// It is immutable; a reload builds a new Dashboard.
type Dashboard struct {
	Tables      internal.Tables
	Classifier  *Classifier
	FlagColumns []string
}

func NewDashboard(tables internal.Tables, classifier *Classifier, flagColumns []string) *Dashboard {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Dashboard{
		Tables:      tables,
		Classifier:  classifier,
		FlagColumns: AvailableFlagColumns(tables.Aggregate.Columns, flagColumns),
	}
}

func (d *Dashboard) Columns() []string {
	return d.Tables.Aggregate.Columns
}

// Records returns the aggregate table's records that pass the state's filters.
func (d *Dashboard) Records(state ViewState) []internal.Record {
	return d.Classifier.ApplyFilter(d.Tables.Aggregate.Records, state)
}

// Table renders the filtered records in the state's view.
func (d *Dashboard) Table(state ViewState) internal.Table {
	return d.Classifier.BuildTable(state.View, d.Columns(), d.Records(state))
}

func (d *Dashboard) Summary(state ViewState) internal.Summary {
	return d.Classifier.Summarize(d.Records(state))
}

func (d *Dashboard) Labels(state ViewState, category internal.Category, top int) []internal.LabelCount {
	return TopCounts(d.Classifier.CountLabels(d.Records(state), category), top)
}

func (d *Dashboard) Combinations(state ViewState, top int) []internal.LabelCount {
	return TopCounts(d.Classifier.CountPairCombinations(d.Records(state)), top)
}

func (d *Dashboard) Cooccurrence(state ViewState, category internal.Category, top int) []internal.PairCount {
	return TopPairs(d.Classifier.CountCooccurrence(d.Records(state), category), top)
}

func (d *Dashboard) Pivot(state ViewState) map[string]map[string]int {
	return d.Classifier.PivotMatrix(d.Records(state))
}

func (d *Dashboard) Sankey(state ViewState, top int) internal.Sankey {
	return d.Classifier.SankeyFlow(d.Records(state), top)
}

func (d *Dashboard) Years(state ViewState) []internal.YearCount {
	return YearCounts(d.Records(state))
}

func (d *Dashboard) LabelYears(state ViewState, category internal.Category) []internal.YearLabelCount {
	return d.Classifier.LabelYearCounts(d.Records(state), category)
}

func (d *Dashboard) Countries(state ViewState, top int) []internal.LabelCount {
	return TopCounts(d.Classifier.CountryCounts(d.Records(state)), top)
}

// HasFlag reports whether flag is one of the technology flag columns present
// in the loaded sheet.
func (d *Dashboard) HasFlag(flag string) bool {
	return containsLabel(d.FlagColumns, flag)
}

func (d *Dashboard) MapCounts(state ViewState, flag string) []internal.LabelCount {
	return TopCounts(d.Classifier.FlagCountryCounts(d.Records(state), flag), 0)
}

func (d *Dashboard) Points(state ViewState, flag string) []internal.GeoPoint {
	return GeoPoints(d.Records(state), flag)
}

// Coverage reports the overall fill rate of column and its rate across the
// first countryLimit countries.
func (d *Dashboard) Coverage(state ViewState, column string, countryLimit int) (internal.Completeness, []internal.CountryCoverage) {
	records := d.Records(state)
	return FieldCompleteness(records, column), CountryCoverage(records, column, countryLimit)
}
