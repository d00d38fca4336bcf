// Package report renders dashboard results as terminal tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"prismadash/internal"
	"prismadash/internal/storage"
)

func newWriter(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

func Summary(w io.Writer, s internal.Summary) {
	t := newWriter(w, "Summary")
	t.AppendRow(table.Row{"Articles", s.TotalArticles})
	t.AppendRow(table.Row{"Countries", s.Countries})
	t.AppendRow(table.Row{"Technology + waste combinations", s.Combinations})
	t.AppendRow(table.Row{"Combinations per article", fmt.Sprintf("%.2f", s.AvgCombinationsPerArticle)})
	if s.TopCombination != nil {
		t.AppendRow(table.Row{"Most common combination", fmt.Sprintf("%s (%d)", s.TopCombination.Label, s.TopCombination.Count)})
	}
	if s.FirstYear != nil && s.LastYear != nil {
		t.AppendRow(table.Row{"Years", fmt.Sprintf("%d-%d", *s.FirstYear, *s.LastYear)})
	}
	t.Render()

	fields := newWriter(w, "Labels per article")
	fields.AppendHeader(table.Row{"Category", "Distinct", "Mean", "Max"})
	for _, f := range s.Fields {
		fields.AppendRow(table.Row{f.Category, f.Distinct, fmt.Sprintf("%.2f", f.MeanPerRecord), f.Max})
	}
	fields.Render()
}

// LabelCounts renders a ranked tally with each label's share of the total.
func LabelCounts(w io.Writer, title string, counts []internal.LabelCount) {
	if len(counts) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	t := newWriter(w, title)
	t.AppendHeader(table.Row{"#", "Label", "Count", "Share"})
	for i, c := range counts {
		t.AppendRow(table.Row{i + 1, c.Label, c.Count, fmt.Sprintf("%.1f%%", float64(c.Count)/float64(total)*100)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	t.AppendFooter(table.Row{"", "Total", total, ""})
	t.Render()
}

func PairCounts(w io.Writer, title string, pairs []internal.PairCount) {
	if len(pairs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	t := newWriter(w, title)
	t.AppendHeader(table.Row{"#", "Label A", "Label B", "Count"})
	for i, p := range pairs {
		t.AppendRow(table.Row{i + 1, p.Pair.A, p.Pair.B, p.Count})
	}
	t.Render()
}

// Pivot renders technologies as rows and waste types as columns.
func Pivot(w io.Writer, matrix map[string]map[string]int) {
	if len(matrix) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	techs := make([]string, 0, len(matrix))
	wasteSet := map[string]struct{}{}
	for tech, row := range matrix {
		techs = append(techs, tech)
		for waste := range row {
			wasteSet[waste] = struct{}{}
		}
	}
	wastes := make([]string, 0, len(wasteSet))
	for waste := range wasteSet {
		wastes = append(wastes, waste)
	}
	sort.Strings(techs)
	sort.Strings(wastes)

	t := newWriter(w, "Technology x waste")
	header := table.Row{"Technology"}
	for _, waste := range wastes {
		header = append(header, waste)
	}
	t.AppendHeader(header)
	for _, tech := range techs {
		row := table.Row{tech}
		for _, waste := range wastes {
			row = append(row, matrix[tech][waste])
		}
		t.AppendRow(row)
	}
	t.Render()
}

func Years(w io.Writer, years []internal.YearCount) {
	if len(years) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}
	peak := 0
	for _, y := range years {
		peak = max(peak, y.Count)
	}
	t := newWriter(w, "Articles per year")
	t.AppendHeader(table.Row{"Year", "Count", ""})
	for _, y := range years {
		t.AppendRow(table.Row{y.Year, y.Count, bar(y.Count, peak, 30)})
	}
	t.Render()
}

func bar(n, peak, width int) string {
	if peak == 0 {
		return ""
	}
	return strings.Repeat("█", n*width/peak)
}

func Coverage(w io.Writer, overall internal.Completeness, countries []internal.CountryCoverage) {
	t := newWriter(w, fmt.Sprintf("%s coverage", overall.Column))
	t.AppendRow(table.Row{"Filled", fmt.Sprintf("%d of %d (%.1f%%)", overall.Filled, overall.Total, overall.Percent)})
	t.Render()

	if len(countries) == 0 {
		return
	}
	byCountry := newWriter(w, "By country")
	byCountry.AppendHeader(table.Row{"Country", "Articles", "Filled", "%"})
	for _, c := range countries {
		byCountry.AppendRow(table.Row{c.Country, c.Total, c.Filled, fmt.Sprintf("%.1f", c.Percent)})
	}
	byCountry.Render()
}

// Status renders the stored snapshots and the latest sync runs.
func Status(w io.Writer, datasets []storage.DatasetInfo, runs []internal.RunRow) {
	ds := newWriter(w, "Stored datasets")
	ds.AppendHeader(table.Row{"Dataset", "Columns", "Rows", "Fetched at"})
	for _, d := range datasets {
		ds.AppendRow(table.Row{d.Name, d.Columns, d.Rows, d.FetchedAt.Format("2006-01-02 15:04:05")})
	}
	ds.Render()

	if len(runs) == 0 {
		return
	}
	rs := newWriter(w, "Recent syncs")
	rs.AppendHeader(table.Row{"Trace", "Tier", "Records", "Total ms", "At"})
	for _, r := range runs {
		rs.AppendRow(table.Row{r.TraceID, r.Tier, r.Counts[string(internal.TableAggregate)], r.Timings["totalMs"], r.CreatedAt})
	}
	rs.Render()
}
