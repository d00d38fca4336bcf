package pipeline

import (
	"fmt"
	"strings"

	"prismadash/internal"
	"prismadash/internal/util"
)

type ViewKind string

const (
	ViewOriginal  ViewKind = "original"
	ViewExpanded  ViewKind = "expanded"
	ViewProcessed ViewKind = "processed"
)

func ParseViewKind(value string) (ViewKind, error) {
	switch ViewKind(strings.ToLower(strings.TrimSpace(value))) {
	case "", ViewOriginal:
		return ViewOriginal, nil
	case ViewExpanded:
		return ViewExpanded, nil
	case ViewProcessed:
		return ViewProcessed, nil
	default:
		return "", fmt.Errorf("unsupported view: %s", value)
	}
}

// ViewState is the presentation layer's current selection. It is passed by
// value into every query; the core keeps no selection of its own.
type ViewState struct {
	Section      string
	View         ViewKind
	YearMin      *int
	YearMax      *int
	Countries    []string
	Search       string
	SearchColumn string
}

func (v ViewState) HasYearRange() bool {
	return v.YearMin != nil || v.YearMax != nil
}

// ApplyFilter keeps the records matching every active filter. A year range
// drops records without a year; countries match the normalized country; the
// search is a case-insensitive substring over one column or all of them.
func (c *Classifier) ApplyFilter(records []internal.Record, state ViewState) []internal.Record {
	countries := map[string]struct{}{}
	for _, name := range state.Countries {
		if name = strings.TrimSpace(name); name != "" {
			countries[name] = struct{}{}
		}
	}
	search := strings.TrimSpace(state.Search)

	out := make([]internal.Record, 0, len(records))
	for _, r := range records {
		if state.HasYearRange() && !inYearRange(r.Year, state.YearMin, state.YearMax) {
			continue
		}
		if len(countries) > 0 {
			if _, ok := countries[c.Country.NormalizeCountry(r.Country)]; !ok {
				continue
			}
		}
		if search != "" && !matchesSearch(r, search, state.SearchColumn) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func inYearRange(year, lo, hi *int) bool {
	if year == nil {
		return false
	}
	if lo != nil && *year < *lo {
		return false
	}
	if hi != nil && *year > *hi {
		return false
	}
	return true
}

func matchesSearch(r internal.Record, term, column string) bool {
	if column != "" {
		return util.ContainsFold(r.Attr(column), term)
	}
	for _, value := range r.Attributes {
		if util.ContainsFold(value, term) {
			return true
		}
	}
	return false
}
