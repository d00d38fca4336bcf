package pipeline

import (
	"slices"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"
)

// Memo is a process-wide cache of pure function results keyed by function
// name and argument. Entries never expire; Clear drops everything.
type Memo struct {
	cache  *gocache.Cache
	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemo() *Memo {
	return &Memo{cache: gocache.New(gocache.NoExpiration, 0)}
}

func (m *Memo) Clear() {
	m.cache.Flush()
	m.hits.Store(0)
	m.misses.Store(0)
}

type MemoStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func (m *Memo) Stats() MemoStats {
	return MemoStats{Entries: m.cache.ItemCount(), Hits: m.hits.Load(), Misses: m.misses.Load()}
}

func memoKey(name, arg string) string {
	return name + "\x00" + arg
}

// Memoize wraps a pure string function. A nil Memo returns fn unchanged.
func Memoize[V any](m *Memo, name string, fn func(string) V) func(string) V {
	if m == nil {
		return fn
	}
	return func(arg string) V {
		key := memoKey(name, arg)
		if v, ok := m.cache.Get(key); ok {
			m.hits.Add(1)
			return v.(V)
		}
		m.misses.Add(1)
		v := fn(arg)
		m.cache.Set(key, v, gocache.NoExpiration)
		return v
	}
}

// MemoizeSlice is Memoize for slice results; callers get their own copy so
// the cached value cannot be mutated through them.
func MemoizeSlice(m *Memo, name string, fn func(string) []string) func(string) []string {
	cached := Memoize(m, name, fn)
	if m == nil {
		return fn
	}
	return func(arg string) []string {
		return slices.Clone(cached(arg))
	}
}

type funcNormalizer func(string) []string

func (f funcNormalizer) Normalize(raw string) []string { return f(raw) }

type memoCountry struct {
	normalize func(string) string
	forMap    func(string) string
}

func (c memoCountry) NormalizeCountry(raw string) string { return c.normalize(raw) }

func (c memoCountry) CanonicalizeForMap(name string) string { return c.forMap(name) }
