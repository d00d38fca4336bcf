package util

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultSeparators are tried in this order when a cell holds several values.
var DefaultSeparators = []string{",", ";", "/", "|", " e ", " and ", " & "}

var splitPatterns sync.Map

// SplitValues breaks a multi-valued cell on any of the literal separators,
// trims every piece and drops empty ones. An empty cell yields no values.
func SplitValues(text string, separators []string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	if len(separators) == 0 {
		return []string{text}
	}

	parts := splitPattern(separators).Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitPattern(separators []string) *regexp.Regexp {
	quoted := make([]string, len(separators))
	for i, sep := range separators {
		quoted[i] = regexp.QuoteMeta(sep)
	}
	expr := strings.Join(quoted, "|")
	if re, ok := splitPatterns.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(expr)
	splitPatterns.Store(expr, re)
	return re
}

// FoldLower composes accents (NFC) and lowercases, so "biogás" typed with a
// combining acute still matches the table pattern.
func FoldLower(input string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(input)))
}

// TitleCase capitalizes the first letter of every word and lowercases the rest.
func TitleCase(input string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(norm.NFC.String(input)))
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(FoldLower(haystack), FoldLower(needle))
}

func FloatPtr(v float64) *float64 { return &v }

func IntPtr(v int) *int { return &v }
