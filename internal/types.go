package internal

// Source columns of the review spreadsheet.
const (
	ColumnTitle       = "TITULO"
	ColumnTechnology  = "TECNOLOGIA"
	ColumnWasteType   = "TIPO_RESIDUO"
	ColumnMethodology = "METODOLOGIA"
	ColumnCountry     = "PAIS"
	ColumnYear        = "ANO"
	ColumnLocation    = "LOCALIZACAO"
	ColumnClimate     = "CLIMA"
	ColumnLatitude    = "LATITUDE_DECIMAL"
	ColumnLongitude   = "LONGITUDE_DECIMAL"
)

// FlagYes is the value a technology flag column holds when the article covers it.
const FlagYes = "Sim"

const (
	LabelNotSpecified = "Not specified"
	LabelOther        = "Other"
)

type Category string

const (
	CategoryTechnology  Category = "technology"
	CategoryWaste       Category = "waste"
	CategoryMethodology Category = "methodology"
)

type TableName string

const (
	TableAggregate  TableName = "aggregate"
	TableWaste      TableName = "waste"
	TableTechnology TableName = "technology"
)

// Record is one reviewed article. Index is its position in the source table.
type Record struct {
	Index       int
	Title       string
	Technology  string
	WasteType   string
	Methodology string
	Country     string
	Year        *int
	Latitude    *float64
	Longitude   *float64
	Attributes  map[string]string
}

func (r Record) Attr(column string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[column]
}

// Dataset is a decoded sheet: its header order plus one Record per row.
type Dataset struct {
	Name    TableName
	Columns []string
	Records []Record
}

// Tables is what the data provider hands to the core.
type Tables struct {
	Aggregate  Dataset
	Waste      Dataset
	Technology Dataset
	Degraded   bool
}

type ExpandedRow struct {
	SourceIndex int    `json:"sourceIndex"`
	Technology  string `json:"technology"`
	WasteType   string `json:"wasteType"`
	Methodology string `json:"methodology"`
}

type RecordLabels struct {
	Index         int      `json:"index"`
	Technologies  []string `json:"technologies"`
	WasteTypes    []string `json:"wasteTypes"`
	Methodologies []string `json:"methodologies"`
	Country       string   `json:"country"`
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type LabelPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

type PairCount struct {
	Pair  LabelPair `json:"pair"`
	Count int       `json:"count"`
}

type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type YearLabelCount struct {
	Year  int    `json:"year"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SankeyNode struct {
	Label string   `json:"label"`
	Side  Category `json:"side"`
}

type SankeyLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

type Sankey struct {
	Nodes []SankeyNode `json:"nodes"`
	Links []SankeyLink `json:"links"`
}

type GeoPoint struct {
	Index     int     `json:"index"`
	Title     string  `json:"title"`
	Country   string  `json:"country"`
	Location  string  `json:"location"`
	Climate   string  `json:"climate"`
	Year      *int    `json:"year"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Completeness struct {
	Column  string  `json:"column"`
	Filled  int     `json:"filled"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

type CountryCoverage struct {
	Country string  `json:"country"`
	Total   int     `json:"total"`
	Filled  int     `json:"filled"`
	Percent float64 `json:"percent"`
}

// MultiValueStats describes how many labels records carry for one category.
type MultiValueStats struct {
	Category      Category    `json:"category"`
	Distinct      int         `json:"distinct"`
	MeanPerRecord float64     `json:"meanPerRecord"`
	Max           int         `json:"max"`
	Histogram     map[int]int `json:"histogram"`
}

type Summary struct {
	TotalArticles             int               `json:"totalArticles"`
	Fields                    []MultiValueStats `json:"fields"`
	Countries                 int               `json:"countries"`
	Combinations              int               `json:"combinations"`
	AvgCombinationsPerArticle float64           `json:"avgCombinationsPerArticle"`
	TopCombination            *LabelCount       `json:"topCombination"`
	FirstYear                 *int              `json:"firstYear"`
	LastYear                  *int              `json:"lastYear"`
}

// Table is a flat string table used for exports and record listings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// RunRow is one recorded data sync.
type RunRow struct {
	TraceID   string
	Tier      string
	Counts    map[string]int
	Timings   map[string]float64
	CreatedAt string
}
