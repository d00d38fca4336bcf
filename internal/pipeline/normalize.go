package pipeline

import (
	"strings"

	"prismadash/internal"
	"prismadash/internal/util"
)

// Normalizer maps one raw categorical cell to its canonical labels.
type Normalizer interface {
	Normalize(raw string) []string
}

// CategoryNormalizer splits a cell into tokens and resolves each token
// against an ordered lookup table.
type CategoryNormalizer struct {
	Category internal.Category
	Table    LookupTable
	Split    func(string) []string

	// StopOnFirstMatch ends the table scan for a token at the first hit.
	// When false every entry the token contains is considered, so one token
	// can yield several labels.
	StopOnFirstMatch bool
	// Dedupe skips appending a label already present in the output.
	Dedupe bool
	// Unmatched decides what an unrecognized token contributes, if anything.
	Unmatched func(token string) (string, bool)
}

func (n *CategoryNormalizer) Normalize(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{internal.LabelNotSpecified}
	}

	split := n.Split
	if split == nil {
		split = defaultSplit
	}

	out := []string{}
	for _, token := range split(raw) {
		lower := util.FoldLower(token)
		matched := false
		for _, entry := range n.Table {
			if !strings.Contains(lower, entry.Pattern) {
				continue
			}
			matched = true
			if !n.Dedupe || !containsLabel(out, entry.Label) {
				out = append(out, entry.Label)
			}
			if n.StopOnFirstMatch {
				break
			}
		}
		if matched || n.Unmatched == nil {
			continue
		}
		if label, ok := n.Unmatched(token); ok {
			out = append(out, label)
		}
	}

	if len(out) == 0 {
		return []string{internal.LabelNotSpecified}
	}
	return out
}

func defaultSplit(raw string) []string {
	return util.SplitValues(raw, util.DefaultSeparators)
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func titleCaseUnmatched(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return util.TitleCase(token), true
}

// verbatimUnmatched keeps tokens longer than two characters as written.
func verbatimUnmatched(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if len([]rune(token)) <= 2 {
		return "", false
	}
	return token, true
}

func NewTechnologyNormalizer() *CategoryNormalizer {
	return &CategoryNormalizer{
		Category:         internal.CategoryTechnology,
		Table:            TechnologyTable,
		StopOnFirstMatch: true,
		Dedupe:           false,
		Unmatched:        titleCaseUnmatched,
	}
}

func NewWasteNormalizer() *CategoryNormalizer {
	return &CategoryNormalizer{
		Category:         internal.CategoryWaste,
		Table:            WasteTable,
		StopOnFirstMatch: true,
		Dedupe:           true,
		Unmatched:        titleCaseUnmatched,
	}
}

// NewMethodologyNormalizer scans the whole table for every token, unlike the
// technology and waste normalizers.
// TODO: decide with the review team whether methodology tokens should stop
// on the first match like the other categories.
func NewMethodologyNormalizer() *CategoryNormalizer {
	return &CategoryNormalizer{
		Category:         internal.CategoryMethodology,
		Table:            MethodologyTable,
		StopOnFirstMatch: false,
		Dedupe:           true,
		Unmatched:        verbatimUnmatched,
	}
}

// CountryResolver maps country cells to canonical names.
type CountryResolver interface {
	NormalizeCountry(raw string) string
	CanonicalizeForMap(name string) string
}

// CountryNormalizer matches the whole cell, not split tokens.
type CountryNormalizer struct {
	Table    LookupTable
	MapNames map[string]string
}

func NewCountryNormalizer() *CountryNormalizer {
	return &CountryNormalizer{Table: CountryTable, MapNames: MapCountryNames}
}

func (c *CountryNormalizer) NormalizeCountry(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return internal.LabelNotSpecified
	}
	lower := util.FoldLower(raw)
	for _, entry := range c.Table {
		if strings.Contains(lower, entry.Pattern) {
			return entry.Label
		}
	}
	return internal.LabelOther
}

func (c *CountryNormalizer) CanonicalizeForMap(name string) string {
	if mapped, ok := c.MapNames[name]; ok {
		return mapped
	}
	return name
}
