package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitValues(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "mixed separators", input: "a, b; c", want: []string{"a", "b", "c"}},
		{name: "empty", input: "", want: []string{}},
		{name: "blank", input: "   ", want: []string{}},
		{name: "portuguese conjunction", input: "Biogás e pirólise", want: []string{"Biogás", "pirólise"}},
		{name: "english conjunction and ampersand", input: "GIS and AHP & LCA", want: []string{"GIS", "AHP", "LCA"}},
		{name: "slash and pipe", input: "ArcGIS/QGIS | Landsat", want: []string{"ArcGIS", "QGIS", "Landsat"}},
		{name: "drops empty pieces", input: ",, a ;; ", want: []string{"a"}},
		{name: "no separator", input: "  Compostagem  ", want: []string{"Compostagem"}},
		{name: "e inside a word is not a separator", input: "Pelletização", want: []string{"Pelletização"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitValues(tc.input, DefaultSeparators))
		})
	}
}

func TestSplitValuesSingleTokenIsIdempotent(t *testing.T) {
	first := SplitValues(" pirólise ", DefaultSeparators)
	require.Len(t, first, 1)
	assert.Equal(t, first, SplitValues(first[0], DefaultSeparators))
}

func TestSplitValuesSeparatorsAreLiteral(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitValues("a.*b", []string{".*"}))
	assert.Equal(t, []string{"a.b"}, SplitValues("a.b", []string{".*"}))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Resíduo De Mandioca", TitleCase("resíduo de MANDIOCA"))
	assert.Equal(t, "Co-Firing", TitleCase(" co-firing "))
}

func TestFoldLowerComposesAccents(t *testing.T) {
	decomposed := "BIOGA\u0301S"
	assert.Equal(t, "biogás", FoldLower(decomposed))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Análise de Biogás", "BIOGÁS"))
	assert.False(t, ContainsFold("Pirólise", "gás"))
	assert.True(t, ContainsFold("anything", ""))
}
