package store

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/tradeloom/loom/loomtest/assert"
)

// TestSuite runs the same checks against any CacheableKVStore
// implementation. Package tests only provide the constructor.
type TestSuite struct {
	newStore StoreConstructor
}

// StoreConstructor returns a fresh store and a function releasing it.
type StoreConstructor func() (CacheableKVStore, func())

// NewTestSuite returns a suite running against stores built by c.
func NewTestSuite(c StoreConstructor) *TestSuite {
	return &TestSuite{newStore: c}
}

// GetSet checks that a cache layer reads through to the store below and
// that its own writes reach that store only on Write.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.newStore()
	defer cleanup()

	escrow, record := []byte("escrow:01"), []byte("maker")
	vault, balance := []byte("vault:01"), []byte("100 IOV")

	s.AssertGetHas(t, base, escrow, nil, false)
	assert.Nil(t, base.Set(escrow, record))
	s.AssertGetHas(t, base, escrow, record, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, escrow, record, true)
	assert.Nil(t, cache.Set(vault, balance))
	s.AssertGetHas(t, cache, vault, balance, true)
	s.AssertGetHas(t, base, vault, nil, false)
	assert.Nil(t, cache.Write())
	s.AssertGetHas(t, base, vault, balance, true)

	dropped := base.CacheWrap()
	assert.Nil(t, dropped.Delete(escrow))
	assert.Nil(t, dropped.Set([]byte("escrow:02"), record))
	s.AssertGetHas(t, dropped, escrow, nil, false)
	dropped.Discard()
	s.AssertGetHas(t, base, escrow, record, true)
	s.AssertGetHas(t, base, []byte("escrow:02"), nil, false)

	closing := base.CacheWrap()
	assert.Nil(t, closing.Delete(escrow))
	assert.Nil(t, closing.Write())
	s.AssertGetHas(t, base, escrow, nil, false)
	s.AssertGetHas(t, base, vault, balance, true)
}

// CacheConflicts checks a cache layer overwriting and deleting data of the
// store below.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	cases := map[string]struct {
		below  []write
		cache  []write
		before map[string]string
		after  map[string]string
	}{
		"overwrite one, delete another, add a third": {
			below:  []write{set("a", "1"), set("b", "2")},
			cache:  []write{set("a", "11"), set("c", "7"), del("b")},
			before: map[string]string{"a": "1", "b": "2", "c": ""},
			after:  map[string]string{"a": "11", "b": "", "c": "7"},
		},
		"add and remove in the cache": {
			below:  []write{set("d", "4")},
			cache:  []write{set("e", "5"), del("e"), del("d"), set("d", "14")},
			before: map[string]string{"d": "4", "e": ""},
			after:  map[string]string{"d": "14", "e": ""},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.newStore()
			defer cleanup()

			applyAll(t, base, tc.below)
			cache := base.CacheWrap()
			applyAll(t, cache, tc.cache)

			s.assertState(t, base, tc.before)
			s.assertState(t, cache, tc.after)
			assert.Nil(t, cache.Write())
			s.assertState(t, base, tc.after)
		})
	}
}

// Iteration checks bounded iteration in both directions over data split
// between a cache layer and the store below.
func (s *TestSuite) Iteration(t *testing.T) {
	base, cleanup := s.newStore()
	defer cleanup()

	want := make(map[string]string)
	key := func(i int) string { return fmt.Sprintf("escrow:%02d", i) }

	var below, cached []write
	for i := 0; i < 30; i += 2 {
		below = append(below, set(key(i), "below"))
		want[key(i)] = "below"
	}
	for i := 0; i < 30; i += 3 {
		cached = append(cached, set(key(i), "cached"))
		want[key(i)] = "cached"
	}
	for i := 0; i < 30; i += 5 {
		cached = append(cached, del(key(i)))
		delete(want, key(i))
	}
	applyAll(t, base, below)
	cache := base.CacheWrap()
	applyAll(t, cache, cached)

	bounds := [][2][]byte{
		{nil, nil},
		{[]byte(key(7)), nil},
		{nil, []byte(key(21))},
		{[]byte(key(4)), []byte(key(26))},
		{[]byte(key(10)), []byte(key(11))},
		{[]byte("vault"), nil},
	}
	for _, b := range bounds {
		expected := expectRange(want, b[0], b[1])
		for _, reverse := range []bool{false, true} {
			var it Iterator
			var err error
			if reverse {
				it, err = cache.ReverseIterator(b[0], b[1])
				expected = reversed(expected)
			} else {
				it, err = cache.Iterator(b[0], b[1])
			}
			assert.Nil(t, err)
			assertIterates(t, it, expected)
			if reverse {
				expected = reversed(expected)
			}
		}
	}

	// After writing, the store below must iterate to the same result.
	assert.Nil(t, cache.Write())
	it, err := base.Iterator(nil, nil)
	assert.Nil(t, err)
	assertIterates(t, it, expectRange(want, nil, nil))
}

// AssertGetHas checks both the value and the existence of a key.
func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("%q: want %q value, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// assertState checks every key of the state, an empty value means the key
// must be absent.
func (s *TestSuite) assertState(t testing.TB, kv ReadOnlyKVStore, state map[string]string) {
	t.Helper()
	for k, v := range state {
		if v == "" {
			s.AssertGetHas(t, kv, []byte(k), nil, false)
		} else {
			s.AssertGetHas(t, kv, []byte(k), []byte(v), true)
		}
	}
}

type write = entry

func set(key, value string) write {
	return write{key: []byte(key), value: []byte(value)}
}

func del(key string) write {
	return write{key: []byte(key), deleted: true}
}

func applyAll(t testing.TB, kv SetDeleter, writes []write) {
	t.Helper()
	for _, w := range writes {
		assert.Nil(t, w.apply(kv))
	}
}

func expectRange(state map[string]string, start, end []byte) []Model {
	var res []Model
	for k, v := range state {
		key := []byte(k)
		if start != nil && bytes.Compare(key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(key, end) >= 0 {
			continue
		}
		res = append(res, Pair(key, []byte(v)))
	}
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func assertIterates(t testing.TB, it Iterator, expected []Model) {
	t.Helper()
	defer it.Close()
	for i, m := range expected {
		if !it.Valid() {
			t.Fatalf("iterator exhausted after %d of %d entries", i, len(expected))
		}
		if !bytes.Equal(m.Key, it.Key()) || !bytes.Equal(m.Value, it.Value()) {
			t.Fatalf("entry %d: want %q=%q, got %q=%q", i, m.Key, m.Value, it.Key(), it.Value())
		}
		assert.Nil(t, it.Next())
	}
	if it.Valid() {
		t.Fatalf("iterator not exhausted, got %q", it.Key())
	}
}
