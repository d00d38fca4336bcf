package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SourceCSV    = "csv"
	SourceSheets = "sheets"
)

const (
	defaultSheetURLData  = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRnTrJ0DW6_N99xSBTTMrRza3YuRkkzRmB1OuIX28JDBRdsmF1XAginDVCHNbWZGMomjf4B28AZlHHq/pub?gid=0&single=true&output=csv"
	defaultSheetURLWaste = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRnTrJ0DW6_N99xSBTTMrRza3YuRkkzRmB1OuIX28JDBRdsmF1XAginDVCHNbWZGMomjf4B28AZlHHq/pub?gid=1882708214&single=true&output=csv"
	defaultSheetURLTech  = "https://docs.google.com/spreadsheets/d/e/2PACX-1vRnTrJ0DW6_N99xSBTTMrRza3YuRkkzRmB1XAginDVCHNbWZGMomjf4B28AZlHHq/pub?gid=745302211&single=true&output=csv"
)

var defaultFlagColumns = []string{
	"Aterro_Sanitario", "BECCS", "Biocombustiveis", "Biocombustivel_Aviacao",
	"Biodigestao_Anaerobia", "Bioetanol_Fermentacao", "Biorrefinaria_Integrada",
	"Briquetagem_Solar", "CHP", "Co_Firing", "Codigestao", "Combustao_Direta",
	"Compostagem", "Gaseificacao", "Pelletizacao", "Pirolise",
	"Transesterificacao", "W2VA",
}

type Config struct {
	DBPath    string
	OutputDir string

	SourceKind     string
	SheetURLData   string
	SheetURLWaste  string
	SheetURLTech   string
	FetchTimeoutMs int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleRefreshToken string

	SheetsSpreadsheetID string
	SheetsRangeData     string
	SheetsRangeWaste    string
	SheetsRangeTech     string

	ServerAddr string

	RefreshIntervalSec int
	RefreshAutoExport  bool

	MemoEnabled bool
	LogLevel    string
	FlagColumns []string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "prisma.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		SourceKind:     strings.ToLower(getEnv("SOURCE_KIND", SourceCSV)),
		SheetURLData:   getEnv("SHEET_URL_DATA", defaultSheetURLData),
		SheetURLWaste:  getEnv("SHEET_URL_WASTE", defaultSheetURLWaste),
		SheetURLTech:   getEnv("SHEET_URL_TECH", defaultSheetURLTech),
		FetchTimeoutMs: getEnvInt("FETCH_TIMEOUT_MS", 30000),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		SheetsSpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRangeData:     getEnv("SHEETS_RANGE_DATA", "Dados"),
		SheetsRangeWaste:    getEnv("SHEETS_RANGE_WASTE", "Residuos"),
		SheetsRangeTech:     getEnv("SHEETS_RANGE_TECH", "Tecnologias"),

		ServerAddr: getEnv("SERVER_ADDR", ":8080"),

		RefreshIntervalSec: getEnvInt("REFRESH_INTERVAL_SEC", 900),
		RefreshAutoExport:  getEnvBool("REFRESH_AUTO_EXPORT", true),

		MemoEnabled: getEnvBool("MEMO_ENABLED", true),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		FlagColumns: getEnvList("FLAG_COLUMNS", defaultFlagColumns),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// Validate checks the keys the selected source needs.
func (c Config) Validate() error {
	switch c.SourceKind {
	case SourceCSV:
		return c.Require("SHEET_URL_DATA", c.SheetURLData)
	case SourceSheets:
		for _, kv := range [][2]string{
			{"GOOGLE_CLIENT_ID", c.GoogleClientID},
			{"GOOGLE_CLIENT_SECRET", c.GoogleClientSecret},
			{"GOOGLE_REFRESH_TOKEN", c.GoogleRefreshToken},
			{"SHEETS_SPREADSHEET_ID", c.SheetsSpreadsheetID},
			{"SHEETS_RANGE_DATA", c.SheetsRangeData},
		} {
			if err := c.Require(kv[0], kv[1]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported SOURCE_KIND: %s", c.SourceKind)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvList reads a comma-separated list; blank entries are dropped.
func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return append([]string(nil), fallback...)
	}
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
