package pipeline

import (
	"sort"
	"strings"

	"prismadash/internal"
)

// Summarize computes the overview figures shown above the charts.
func (c *Classifier) Summarize(records []internal.Record) internal.Summary {
	summary := internal.Summary{TotalArticles: len(records)}

	for _, category := range []internal.Category{internal.CategoryTechnology, internal.CategoryWaste, internal.CategoryMethodology} {
		summary.Fields = append(summary.Fields, c.multiValueStats(records, category))
	}

	countries := map[string]struct{}{}
	for _, r := range records {
		if country := c.Country.NormalizeCountry(r.Country); country != internal.LabelNotSpecified {
			countries[country] = struct{}{}
		}
	}
	summary.Countries = len(countries)

	combos := c.CountPairCombinations(records)
	summary.Combinations = len(combos)
	total := 0
	for _, n := range combos {
		total += n
	}
	if len(records) > 0 {
		summary.AvgCombinationsPerArticle = float64(total) / float64(len(records))
	}
	if top := TopCounts(combos, 1); len(top) == 1 {
		summary.TopCombination = &top[0]
	}

	for _, r := range records {
		if r.Year == nil {
			continue
		}
		if summary.FirstYear == nil || *r.Year < *summary.FirstYear {
			y := *r.Year
			summary.FirstYear = &y
		}
		if summary.LastYear == nil || *r.Year > *summary.LastYear {
			y := *r.Year
			summary.LastYear = &y
		}
	}
	return summary
}

func (c *Classifier) multiValueStats(records []internal.Record, category internal.Category) internal.MultiValueStats {
	stats := internal.MultiValueStats{Category: category, Histogram: map[int]int{}}
	distinct := map[string]struct{}{}
	total := 0
	for _, r := range records {
		labels := c.Category(r, category)
		for _, l := range labels {
			if l != internal.LabelNotSpecified {
				distinct[l] = struct{}{}
			}
		}
		n := len(labels)
		total += n
		stats.Histogram[n]++
		if n > stats.Max {
			stats.Max = n
		}
	}
	stats.Distinct = len(distinct)
	if len(records) > 0 {
		stats.MeanPerRecord = float64(total) / float64(len(records))
	}
	return stats
}

// YearCounts counts articles per publication year; records without a year
// are left out.
func YearCounts(records []internal.Record) []internal.YearCount {
	counts := map[int]int{}
	for _, r := range records {
		if r.Year != nil {
			counts[*r.Year]++
		}
	}
	out := make([]internal.YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, internal.YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// LabelYearCounts counts (year, label) pairs for the evolution charts.
func (c *Classifier) LabelYearCounts(records []internal.Record, category internal.Category) []internal.YearLabelCount {
	type key struct {
		year  int
		label string
	}
	counts := map[key]int{}
	for _, r := range records {
		if r.Year == nil {
			continue
		}
		for _, label := range c.Category(r, category) {
			counts[key{*r.Year, label}]++
		}
	}
	out := make([]internal.YearLabelCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, internal.YearLabelCount{Year: k.year, Label: k.label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// SankeyFlow builds technology → waste flows from the top combinations.
// Technology and waste nodes are kept apart even when they share a name.
func (c *Classifier) SankeyFlow(records []internal.Record, top int) internal.Sankey {
	flow := internal.Sankey{Nodes: []internal.SankeyNode{}, Links: []internal.SankeyLink{}}
	index := map[internal.SankeyNode]int{}
	node := func(n internal.SankeyNode) int {
		if i, ok := index[n]; ok {
			return i
		}
		index[n] = len(flow.Nodes)
		flow.Nodes = append(flow.Nodes, n)
		return index[n]
	}

	for _, combo := range TopCounts(c.CountPairCombinations(records), top) {
		tech, waste, ok := strings.Cut(combo.Label, CombinationSeparator)
		if !ok {
			continue
		}
		src := node(internal.SankeyNode{Label: tech, Side: internal.CategoryTechnology})
		dst := node(internal.SankeyNode{Label: waste, Side: internal.CategoryWaste})
		flow.Links = append(flow.Links, internal.SankeyLink{Source: src, Target: dst, Value: combo.Count})
	}
	return flow
}

// CountryCounts tallies normalized countries.
func (c *Classifier) CountryCounts(records []internal.Record) map[string]int {
	out := map[string]int{}
	for _, r := range records {
		out[c.Country.NormalizeCountry(r.Country)]++
	}
	return out
}

func isFlagged(r internal.Record, flagColumn string) bool {
	return strings.TrimSpace(r.Attr(flagColumn)) == internal.FlagYes
}

// FlagCountryCounts counts flagged records per country under the names a
// choropleth map understands. Raw names that map to the same country merge.
func (c *Classifier) FlagCountryCounts(records []internal.Record, flagColumn string) map[string]int {
	out := map[string]int{}
	for _, r := range records {
		if !isFlagged(r, flagColumn) {
			continue
		}
		raw := strings.TrimSpace(r.Country)
		if raw == "" {
			continue
		}
		out[c.Country.CanonicalizeForMap(raw)]++
	}
	return out
}

// GeoPoints returns flagged records that carry usable coordinates; a zero
// latitude or longitude counts as unset.
func GeoPoints(records []internal.Record, flagColumn string) []internal.GeoPoint {
	out := []internal.GeoPoint{}
	for _, r := range records {
		if !isFlagged(r, flagColumn) || r.Latitude == nil || r.Longitude == nil {
			continue
		}
		if *r.Latitude == 0 || *r.Longitude == 0 {
			continue
		}
		out = append(out, internal.GeoPoint{
			Index:     r.Index,
			Title:     r.Title,
			Country:   r.Country,
			Location:  r.Attr(internal.ColumnLocation),
			Climate:   r.Attr(internal.ColumnClimate),
			Year:      r.Year,
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		})
	}
	return out
}

// AvailableFlagColumns keeps the known flag columns present in the sheet, in
// the known order.
func AvailableFlagColumns(columns []string, known []string) []string {
	present := map[string]struct{}{}
	for _, col := range columns {
		present[col] = struct{}{}
	}
	out := []string{}
	for _, col := range known {
		if _, ok := present[col]; ok {
			out = append(out, col)
		}
	}
	return out
}

func FieldCompleteness(records []internal.Record, column string) internal.Completeness {
	out := internal.Completeness{Column: column, Total: len(records)}
	for _, r := range records {
		if strings.TrimSpace(r.Attr(column)) != "" {
			out.Filled++
		}
	}
	out.Percent = percent(out.Filled, out.Total)
	return out
}

// CountryCoverage reports the fill rate of column for the first limit
// distinct countries of the sheet, largest first.
func CountryCoverage(records []internal.Record, column string, limit int) []internal.CountryCoverage {
	order := []string{}
	byCountry := map[string]*internal.CountryCoverage{}
	for _, r := range records {
		country := strings.TrimSpace(r.Country)
		if country == "" {
			continue
		}
		cov, ok := byCountry[country]
		if !ok {
			cov = &internal.CountryCoverage{Country: country}
			byCountry[country] = cov
			order = append(order, country)
		}
		cov.Total++
		if strings.TrimSpace(r.Attr(column)) != "" {
			cov.Filled++
		}
	}

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	out := make([]internal.CountryCoverage, 0, len(order))
	for _, country := range order {
		cov := *byCountry[country]
		cov.Percent = percent(cov.Filled, cov.Total)
		out = append(out, cov)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
