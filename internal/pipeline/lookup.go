package pipeline

// LookupEntry maps a lowercase substring to a canonical label.
type LookupEntry struct {
	Pattern string
	Label   string
}

// LookupTable is scanned top to bottom; earlier entries take precedence over
// later ones regardless of how specific the later pattern is.
type LookupTable []LookupEntry

// Labels returns the distinct canonical labels in first-appearance order.
func (t LookupTable) Labels() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(t))
	for _, e := range t {
		if _, ok := seen[e.Label]; ok {
			continue
		}
		seen[e.Label] = struct{}{}
		out = append(out, e.Label)
	}
	return out
}

const (
	TechAnaerobicDigestion       = "Anaerobic Biodigestion"
	TechPyrolysis                = "Pyrolysis"
	TechGasification             = "Gasification"
	TechFermentation             = "Fermentation"
	TechAlcoholicFermentation    = "Alcoholic Fermentation"
	TechDirectCombustion         = "Direct Combustion"
	TechTransesterification      = "Transesterification"
	TechComposting               = "Composting"
	TechHydrothermalLiquefaction = "Hydrothermal Liquefaction"
	TechTorrefaction             = "Torrefaction"
	TechBriquetting              = "Briquetting"
	TechPelletization            = "Pelletization"
	TechCoDigestion              = "Co-digestion"
)

var TechnologyTable = LookupTable{
	{"biodigestão", TechAnaerobicDigestion},
	{"biogas", TechAnaerobicDigestion},
	{"biogás", TechAnaerobicDigestion},
	{"anaerobic", TechAnaerobicDigestion},
	{"digestão anaeróbia", TechAnaerobicDigestion},
	{"ad", TechAnaerobicDigestion},
	{"pirólise", TechPyrolysis},
	{"pyrolysis", TechPyrolysis},
	{"gaseificação", TechGasification},
	{"gasification", TechGasification},
	{"fermentação", TechFermentation},
	{"fermentation", TechFermentation},
	{"etanol", TechAlcoholicFermentation},
	{"ethanol", TechAlcoholicFermentation},
	{"combustão", TechDirectCombustion},
	{"combustion", TechDirectCombustion},
	{"incineração", TechDirectCombustion},
	{"transesterificação", TechTransesterification},
	{"biodiesel", TechTransesterification},
	{"compostagem", TechComposting},
	{"composting", TechComposting},
	{"htl", TechHydrothermalLiquefaction},
	{"hydrothermal", TechHydrothermalLiquefaction},
	{"torrefação", TechTorrefaction},
	{"torrefaction", TechTorrefaction},
	{"briquetagem", TechBriquetting},
	{"pelletização", TechPelletization},
	{"codigestão", TechCoDigestion},
	{"co-digestion", TechCoDigestion},
}

const (
	WasteAgricultural = "Agricultural Waste"
	WasteLivestock    = "Livestock Waste"
	WasteUrban        = "Urban Waste"
	WasteIndustrial   = "Industrial Waste"
	WasteForest       = "Forest Waste"
	WasteFood         = "Food Waste"
	WasteOrganic      = "Organic Waste"
)

var WasteTable = LookupTable{
	{"agrícola", WasteAgricultural},
	{"agricultural", WasteAgricultural},
	{"crop", WasteAgricultural},
	{"palha", WasteAgricultural},
	{"bagaço", WasteAgricultural},
	{"casca", WasteAgricultural},
	{"pecuária", WasteLivestock},
	{"animal", WasteLivestock},
	{"livestock", WasteLivestock},
	{"esterco", WasteLivestock},
	{"dejeto", WasteLivestock},
	{"suíno", WasteLivestock},
	{"bovino", WasteLivestock},
	{"urbano", WasteUrban},
	{"urban", WasteUrban},
	{"municipal", WasteUrban},
	{"rsu", WasteUrban},
	{"lixo", WasteUrban},
	{"industrial", WasteIndustrial},
	{"indústria", WasteIndustrial},
	{"factory", WasteIndustrial},
	{"florestal", WasteForest},
	{"forest", WasteForest},
	{"madeira", WasteForest},
	{"wood", WasteForest},
	{"alimentar", WasteFood},
	{"food", WasteFood},
	{"alimento", WasteFood},
	{"orgânico", WasteOrganic},
	{"organic", WasteOrganic},
}

const (
	MethodGIS                = "GIS"
	MethodRemoteSensing      = "Remote Sensing"
	MethodMCDA               = "MCDA/MCDM"
	MethodAHP                = "AHP"
	MethodFuzzy              = "Fuzzy Logic"
	MethodOptimization       = "Optimization"
	MethodPMedian            = "P-Median"
	MethodLocationAllocation = "Location-Allocation"
	MethodMachineLearning    = "Machine Learning"
	MethodNeuralNetworks     = "Neural Networks"
	MethodDeepLearning       = "Deep Learning"
	MethodLCA                = "LCA"
	MethodModeling           = "Modeling"
	MethodSimulation         = "Simulation"
)

var MethodologyTable = LookupTable{
	{"gis", MethodGIS},
	{"sig", MethodGIS},
	{"geographic information", MethodGIS},
	{"arcgis", MethodGIS},
	{"qgis", MethodGIS},
	{"sensoriamento", MethodRemoteSensing},
	{"remote sensing", MethodRemoteSensing},
	{"satellite", MethodRemoteSensing},
	{"satélite", MethodRemoteSensing},
	{"landsat", MethodRemoteSensing},
	{"sentinel", MethodRemoteSensing},
	{"mcda", MethodMCDA},
	{"mcdm", MethodMCDA},
	{"multicritério", MethodMCDA},
	{"multicriteria", MethodMCDA},
	{"ahp", MethodAHP},
	{"analytic hierarchy", MethodAHP},
	{"fuzzy", MethodFuzzy},
	{"difuso", MethodFuzzy},
	{"otimização", MethodOptimization},
	{"optimization", MethodOptimization},
	{"p-mediana", MethodPMedian},
	{"p-median", MethodPMedian},
	{"localização", MethodLocationAllocation},
	{"location", MethodLocationAllocation},
	{"allocation", MethodLocationAllocation},
	{"machine learning", MethodMachineLearning},
	{"aprendizado de máquina", MethodMachineLearning},
	{"ml", MethodMachineLearning},
	{"neural", MethodNeuralNetworks},
	{"deep learning", MethodDeepLearning},
	{"lca", MethodLCA},
	{"life cycle", MethodLCA},
	{"ciclo de vida", MethodLCA},
	{"modelagem", MethodModeling},
	{"modeling", MethodModeling},
	{"simulação", MethodSimulation},
	{"simulation", MethodSimulation},
}

// CountryTable resolves free text to the Portuguese country name used in the sheet.
var CountryTable = LookupTable{
	{"brasil", "Brasil"},
	{"brazil", "Brasil"},
	{"estados unidos", "Estados Unidos"},
	{"usa", "Estados Unidos"},
	{"united states", "Estados Unidos"},
	{"alemanha", "Alemanha"},
	{"germany", "Alemanha"},
	{"china", "China"},
	{"itália", "Itália"},
	{"italia", "Itália"},
	{"italy", "Itália"},
	{"frança", "França"},
	{"france", "França"},
	{"espanha", "Espanha"},
	{"spain", "Espanha"},
	{"reino unido", "Reino Unido"},
	{"uk", "Reino Unido"},
	{"canadá", "Canadá"},
	{"canada", "Canadá"},
	{"austrália", "Austrália"},
	{"australia", "Austrália"},
	{"índia", "Índia"},
	{"india", "Índia"},
	{"japão", "Japão"},
	{"japan", "Japão"},
}

// MapCountryNames translates sheet country names to the names choropleth
// renderers recognize. Lookups are exact.
var MapCountryNames = map[string]string{
	"EUA":                    "United States",
	"USA":                    "United States",
	"Estados Unidos":         "United States",
	"Reino Unido":            "United Kingdom",
	"UK":                     "United Kingdom",
	"Coreia do Sul":          "South Korea",
	"Holanda":                "Netherlands",
	"Alemanha":               "Germany",
	"França":                 "France",
	"Espanha":                "Spain",
	"Itália":                 "Italy",
	"China":                  "China",
	"Brasil":                 "Brazil",
	"Canadá":                 "Canada",
	"Canada":                 "Canada",
	"Austrália":              "Australia",
	"Australia":              "Australia",
	"Japão":                  "Japan",
	"India":                  "India",
	"Índia":                  "India",
	"Turquia":                "Turkey",
	"México":                 "Mexico",
	"Iran":                   "Iran",
	"Irã":                    "Iran",
	"Suécia":                 "Sweden",
	"Noruega":                "Norway",
	"Dinamarca":              "Denmark",
	"Finlândia":              "Finland",
	"Bélgica":                "Belgium",
	"Suíça":                  "Switzerland",
	"Áustria":                "Austria",
	"Polônia":                "Poland",
	"República Tcheca":       "Czech Republic",
	"Grécia":                 "Greece",
	"Portugal":               "Portugal",
	"Tailândia":              "Thailand",
	"Malásia":                "Malaysia",
	"Singapura":              "Singapore",
	"Filipinas":              "Philippines",
	"Indonésia":              "Indonesia",
	"África do Sul":          "South Africa",
	"Egito":                  "Egypt",
	"Marrocos":               "Morocco",
	"Israel":                 "Israel",
	"Arábia Saudita":         "Saudi Arabia",
	"Emirados Árabes Unidos": "United Arab Emirates",
	"Argentina":              "Argentina",
	"Chile":                  "Chile",
	"Colômbia":               "Colombia",
	"Peru":                   "Peru",
	"Equador":                "Ecuador",
	"Venezuela":              "Venezuela",
	"Uruguai":                "Uruguay",
	"Paraguai":               "Paraguay",
	"Bolívia":                "Bolivia",
	"Rússia":                 "Russia",
	"Ucrânia":                "Ukraine",
	"Cazaquistão":            "Kazakhstan",
	"Nova Zelândia":          "New Zealand",
}

// TechnologyFlagColumns are the per-technology "Sim" columns used for map filtering.
var TechnologyFlagColumns = []string{
	"Aterro_Sanitario", "BECCS", "Biocombustiveis", "Biocombustivel_Aviacao",
	"Biodigestao_Anaerobia", "Bioetanol_Fermentacao", "Biorrefinaria_Integrada",
	"Briquetagem_Solar", "CHP", "Co_Firing", "Codigestao", "Combustao_Direta",
	"Compostagem", "Gaseificacao", "Pelletizacao", "Pirolise",
	"Transesterificacao", "W2VA",
}
