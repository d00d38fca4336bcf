package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	reThousandsDot   = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
	reThousandsComma = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)
)

// ParseNumber reads a spreadsheet cell as a float. Blank or non-numeric cells
// give nil. A lone decimal comma ("-23,55") is accepted.
func ParseNumber(input string) *float64 {
	token := normalizeNumericToken(input)
	if token == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return FloatPtr(parsed)
}

// ParseYear reads a publication year. "2019" and "2019.0" are both 2019;
// fractional or non-numeric cells are missing.
func ParseYear(input string) *int {
	value := ParseNumber(input)
	if value == nil || *value != math.Trunc(*value) {
		return nil
	}
	return IntPtr(int(*value))
}

func normalizeNumericToken(token string) string {
	compact := strings.ReplaceAll(token, "\u00A0", " ")
	compact = strings.ReplaceAll(strings.TrimSpace(compact), " ", "")
	if compact == "" {
		return ""
	}
	// Coordinates carry at most three integer digits, so a single dot or
	// comma followed by exactly three digits stays a decimal separator.
	if strings.Count(compact, ".") > 1 && reThousandsDot.MatchString(compact) {
		return strings.ReplaceAll(compact, ".", "")
	}
	if strings.Count(compact, ",") > 1 && reThousandsComma.MatchString(compact) {
		return strings.ReplaceAll(compact, ",", "")
	}
	if strings.Contains(compact, ",") && !strings.Contains(compact, ".") {
		return strings.ReplaceAll(compact, ",", ".")
	}
	return compact
}
