package pipeline

import (
	"strconv"

	"prismadash/internal"
	"prismadash/internal/util"
)

var fixtureColumns = []string{
	internal.ColumnTitle,
	internal.ColumnTechnology,
	internal.ColumnWasteType,
	internal.ColumnMethodology,
	internal.ColumnCountry,
	internal.ColumnYear,
}

func record(index int, title, tech, waste, method, country string, year *int) internal.Record {
	r := internal.Record{
		Index:       index,
		Title:       title,
		Technology:  tech,
		WasteType:   waste,
		Methodology: method,
		Country:     country,
		Year:        year,
		Attributes: map[string]string{
			internal.ColumnTitle:       title,
			internal.ColumnTechnology:  tech,
			internal.ColumnWasteType:   waste,
			internal.ColumnMethodology: method,
			internal.ColumnCountry:     country,
		},
	}
	if year != nil {
		r.Attributes[internal.ColumnYear] = strconv.Itoa(*year)
	}
	return r
}

// sampleRecords is a three-article review: one with two technologies and
// three methodologies, one with nothing specified, one single-valued.
func sampleRecords() []internal.Record {
	return []internal.Record{
		record(0, "Biogas siting in Paraná", "Biogás e pirólise", "Esterco bovino", "GIS, AHP e MCDA", "Brasil", util.IntPtr(2019)),
		record(1, "Untitled draft", "", "Palha", "", "", nil),
		record(2, "Rice straw pyrolysis & GIS", "Pirólise", "Palha de arroz", "SIG; AHP", "Kenya", util.IntPtr(2021)),
	}
}
