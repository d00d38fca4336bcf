package pipeline

import (
	"sort"

	"prismadash/internal"
)

// CombinationSeparator joins a technology and a waste label into one key.
const CombinationSeparator = " + "

// CountLabels tallies labels of one category; a record with k labels adds k.
func (c *Classifier) CountLabels(records []internal.Record, category internal.Category) map[string]int {
	out := map[string]int{}
	for _, r := range records {
		for _, label := range c.Category(r, category) {
			out[label]++
		}
	}
	return out
}

// CountPairCombinations counts "{tech} + {waste}" pairs, skipping any pair
// with an unspecified side.
func (c *Classifier) CountPairCombinations(records []internal.Record) map[string]int {
	out := map[string]int{}
	for _, r := range records {
		c.eachTechWaste(r, func(tech, waste string) {
			out[tech+CombinationSeparator+waste]++
		})
	}
	return out
}

// CountCooccurrence counts unordered pairs of distinct labels that appear in
// the same record, once per record. Pair members are sorted so (B, A) and
// (A, B) share a key.
func (c *Classifier) CountCooccurrence(records []internal.Record, category internal.Category) map[internal.LabelPair]int {
	out := map[internal.LabelPair]int{}
	for _, r := range records {
		labels := distinctSpecified(c.Category(r, category))
		for i := 0; i < len(labels); i++ {
			for j := i + 1; j < len(labels); j++ {
				out[sortedPair(labels[i], labels[j])]++
			}
		}
	}
	return out
}

// PivotMatrix counts technology × waste cells for heatmaps.
func (c *Classifier) PivotMatrix(records []internal.Record) map[string]map[string]int {
	out := map[string]map[string]int{}
	for _, r := range records {
		c.eachTechWaste(r, func(tech, waste string) {
			row, ok := out[tech]
			if !ok {
				row = map[string]int{}
				out[tech] = row
			}
			row[waste]++
		})
	}
	return out
}

func (c *Classifier) eachTechWaste(r internal.Record, fn func(tech, waste string)) {
	techs := c.Technology.Normalize(r.Technology)
	wastes := c.Waste.Normalize(r.WasteType)
	for _, tech := range techs {
		if tech == internal.LabelNotSpecified {
			continue
		}
		for _, waste := range wastes {
			if waste == internal.LabelNotSpecified {
				continue
			}
			fn(tech, waste)
		}
	}
}

func distinctSpecified(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != internal.LabelNotSpecified && !containsLabel(out, l) {
			out = append(out, l)
		}
	}
	return out
}

func sortedPair(a, b string) internal.LabelPair {
	if b < a {
		a, b = b, a
	}
	return internal.LabelPair{A: a, B: b}
}

// TopCounts orders a tally by count descending, then label ascending, and
// keeps the first n entries (all when n <= 0).
func TopCounts(counts map[string]int, n int) []internal.LabelCount {
	out := make([]internal.LabelCount, 0, len(counts))
	for label, count := range counts {
		out = append(out, internal.LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func TopPairs(counts map[internal.LabelPair]int, n int) []internal.PairCount {
	out := make([]internal.PairCount, 0, len(counts))
	for pair, count := range counts {
		out = append(out, internal.PairCount{Pair: pair, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Pair.A != out[j].Pair.A {
			return out[i].Pair.A < out[j].Pair.A
		}
		return out[i].Pair.B < out[j].Pair.B
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
