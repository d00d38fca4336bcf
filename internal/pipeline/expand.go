package pipeline

import "prismadash/internal"

// Expand emits one row per technology × waste × methodology combination of
// each record. Every record contributes at least one row.
func (c *Classifier) Expand(records []internal.Record) []internal.ExpandedRow {
	out := make([]internal.ExpandedRow, 0, len(records))
	for _, r := range records {
		techs := c.Technology.Normalize(r.Technology)
		wastes := c.Waste.Normalize(r.WasteType)
		methods := c.Methodology.Normalize(r.Methodology)
		for _, tech := range techs {
			for _, waste := range wastes {
				for _, method := range methods {
					out = append(out, internal.ExpandedRow{
						SourceIndex: r.Index,
						Technology:  tech,
						WasteType:   waste,
						Methodology: method,
					})
				}
			}
		}
	}
	return out
}
