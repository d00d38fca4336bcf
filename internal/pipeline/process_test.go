package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prismadash/internal"
	"prismadash/internal/util"
)

func sampleDashboard() *Dashboard {
	columns := append(append([]string(nil), fixtureColumns...), "Pirolise", "CHP")
	records := sampleRecords()
	records[0].Attributes["Pirolise"] = "Sim"
	records[2].Attributes["Pirolise"] = "Sim"
	aggregate := internal.Dataset{Name: internal.TableAggregate, Columns: columns, Records: records}
	tables := internal.Tables{Aggregate: aggregate, Waste: aggregate, Technology: aggregate}
	return NewDashboard(tables, NewClassifier(NewMemo()), TechnologyFlagColumns)
}

func TestDashboardFlagColumns(t *testing.T) {
	d := sampleDashboard()
	assert.Equal(t, []string{"CHP", "Pirolise"}, d.FlagColumns)
	assert.True(t, d.HasFlag("Pirolise"))
	assert.False(t, d.HasFlag("W2VA"))
}

func TestDashboardQueriesHonorState(t *testing.T) {
	d := sampleDashboard()
	all := ViewState{}
	recent := ViewState{YearMin: util.IntPtr(2020)}

	assert.Equal(t, 3, d.Summary(all).TotalArticles)
	assert.Equal(t, 1, d.Summary(recent).TotalArticles)

	assert.Equal(t, []internal.LabelCount{{Label: TechPyrolysis, Count: 1}}, d.Labels(recent, internal.CategoryTechnology, 0))
	assert.Len(t, d.Combinations(all, 2), 2)
	assert.Equal(t, []internal.LabelCount{{Label: "Pyrolysis + Agricultural Waste", Count: 1}}, d.Combinations(recent, 0))
	assert.Len(t, d.Cooccurrence(all, internal.CategoryMethodology, 0), 3)
	assert.Equal(t, map[string]map[string]int{TechPyrolysis: {WasteAgricultural: 1}}, d.Pivot(recent))
	assert.Len(t, d.Sankey(all, 0).Links, 3)
	assert.Equal(t, []internal.YearCount{{Year: 2021, Count: 1}}, d.Years(recent))
	assert.Len(t, d.LabelYears(all, internal.CategoryTechnology), 3)
	assert.Len(t, d.Countries(all, 0), 3)
}

func TestDashboardMapAndPoints(t *testing.T) {
	d := sampleDashboard()
	assert.Equal(t, []internal.LabelCount{{Label: "Brazil", Count: 1}, {Label: "Kenya", Count: 1}}, d.MapCounts(ViewState{}, "Pirolise"))
	assert.Empty(t, d.Points(ViewState{}, "Pirolise"))
}

func TestDashboardTableUsesView(t *testing.T) {
	d := sampleDashboard()
	table := d.Table(ViewState{View: ViewProcessed, Countries: []string{"Brasil"}})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, ColCountryProcessed, table.Columns[len(table.Columns)-1])

	expanded := d.Table(ViewState{View: ViewExpanded})
	assert.Len(t, expanded.Rows, 6+1+2)
}

func TestDashboardCoverage(t *testing.T) {
	overall, byCountry := sampleDashboard().Coverage(ViewState{}, internal.ColumnTitle, 10)
	assert.Equal(t, 3, overall.Filled)
	assert.Len(t, byCountry, 2)
}
