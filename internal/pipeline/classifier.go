package pipeline

import (
	"prismadash/internal"
	"prismadash/internal/util"
)

// Classifier bundles the normalizers every aggregation runs records through.
type Classifier struct {
	Technology  Normalizer
	Waste       Normalizer
	Methodology Normalizer
	Country     CountryResolver
}

// NewClassifier builds the standard normalizers. With a non-nil memo the
// splitter, the three category normalizers and both country lookups are
// served from the cache.
func NewClassifier(memo *Memo) *Classifier {
	tech := NewTechnologyNormalizer()
	waste := NewWasteNormalizer()
	method := NewMethodologyNormalizer()
	country := NewCountryNormalizer()
	if memo == nil {
		return &Classifier{Technology: tech, Waste: waste, Methodology: method, Country: country}
	}

	split := MemoizeSlice(memo, "split_values", func(raw string) []string {
		return util.SplitValues(raw, util.DefaultSeparators)
	})
	tech.Split, waste.Split, method.Split = split, split, split

	return &Classifier{
		Technology:  funcNormalizer(MemoizeSlice(memo, "normalize_technology", tech.Normalize)),
		Waste:       funcNormalizer(MemoizeSlice(memo, "normalize_waste", waste.Normalize)),
		Methodology: funcNormalizer(MemoizeSlice(memo, "normalize_methodology", method.Normalize)),
		Country: memoCountry{
			normalize: Memoize(memo, "normalize_country", country.NormalizeCountry),
			forMap:    Memoize(memo, "canonicalize_for_map", country.CanonicalizeForMap),
		},
	}
}

func (c *Classifier) Labels(r internal.Record) internal.RecordLabels {
	return internal.RecordLabels{
		Index:         r.Index,
		Technologies:  c.Technology.Normalize(r.Technology),
		WasteTypes:    c.Waste.Normalize(r.WasteType),
		Methodologies: c.Methodology.Normalize(r.Methodology),
		Country:       c.Country.NormalizeCountry(r.Country),
	}
}

// Category returns the labels of one category for a record. Unknown
// categories yield nil.
func (c *Classifier) Category(r internal.Record, category internal.Category) []string {
	switch category {
	case internal.CategoryTechnology:
		return c.Technology.Normalize(r.Technology)
	case internal.CategoryWaste:
		return c.Waste.Normalize(r.WasteType)
	case internal.CategoryMethodology:
		return c.Methodology.Normalize(r.Methodology)
	default:
		return nil
	}
}

func (c *Classifier) Annotate(records []internal.Record) []internal.RecordLabels {
	out := make([]internal.RecordLabels, 0, len(records))
	for _, r := range records {
		out = append(out, c.Labels(r))
	}
	return out
}

func ParseCategory(value string) (internal.Category, bool) {
	switch internal.Category(value) {
	case internal.CategoryTechnology, internal.CategoryWaste, internal.CategoryMethodology:
		return internal.Category(value), true
	}
	switch value {
	case "tech", "technologies":
		return internal.CategoryTechnology, true
	case "waste_type", "wastes":
		return internal.CategoryWaste, true
	case "method", "methodologies":
		return internal.CategoryMethodology, true
	}
	return "", false
}
