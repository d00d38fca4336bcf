package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoizeCallsOncePerArgument(t *testing.T) {
	memo := NewMemo()
	calls := 0
	upper := Memoize(memo, "upper", func(s string) int {
		calls++
		return len(s)
	})

	assert.Equal(t, 3, upper("abc"))
	assert.Equal(t, 3, upper("abc"))
	assert.Equal(t, 1, upper("x"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, MemoStats{Entries: 2, Hits: 1, Misses: 2}, memo.Stats())
}

func TestMemoKeysIncludeFunctionName(t *testing.T) {
	memo := NewMemo()
	a := Memoize(memo, "a", func(string) string { return "a" })
	b := Memoize(memo, "b", func(string) string { return "b" })
	assert.Equal(t, "a", a("same"))
	assert.Equal(t, "b", b("same"))
}

func TestMemoClear(t *testing.T) {
	memo := NewMemo()
	calls := 0
	fn := Memoize(memo, "count", func(string) int { calls++; return calls })

	assert.Equal(t, 1, fn("k"))
	assert.Equal(t, 1, fn("k"))
	memo.Clear()
	assert.Equal(t, MemoStats{}, memo.Stats())
	assert.Equal(t, 2, fn("k"))
}

func TestMemoizeSliceReturnsCopies(t *testing.T) {
	memo := NewMemo()
	normalize := MemoizeSlice(memo, "normalize_technology", NewTechnologyNormalizer().Normalize)

	first := normalize("Pirólise")
	require.Equal(t, []string{TechPyrolysis}, first)
	first[0] = "mutated"
	assert.Equal(t, []string{TechPyrolysis}, normalize("Pirólise"))
}

func TestNilMemoPassesThrough(t *testing.T) {
	calls := 0
	fn := Memoize[int](nil, "n", func(string) int { calls++; return calls })
	fn("a")
	fn("a")
	assert.Equal(t, 2, calls)
}

func TestClassifierMemoStats(t *testing.T) {
	memo := NewMemo()
	c := NewClassifier(memo)
	r := record(0, "", "Pirólise", "Esterco", "GIS", "Brasil", nil)

	c.Labels(r)
	// Three category normalizers with their splits, plus the country.
	assert.Equal(t, int64(7), memo.Stats().Misses)
	c.Labels(r)
	assert.Equal(t, int64(4), memo.Stats().Hits)
	assert.Equal(t, 7, memo.Stats().Entries)
}
