package store

import "bytes"

// SliceIterator iterates over preloaded models.
type SliceIterator struct {
	models []Model
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator returns an iterator over the models in the given order.
func NewSliceIterator(models []Model) *SliceIterator {
	return &SliceIterator{models: models}
}

func (s *SliceIterator) Valid() bool {
	return len(s.models) > 0
}

func (s *SliceIterator) Next() error {
	s.mustBeValid()
	s.models = s.models[1:]
	return nil
}

func (s *SliceIterator) Key() []byte {
	s.mustBeValid()
	return s.models[0].Key
}

func (s *SliceIterator) Value() []byte {
	s.mustBeValid()
	return s.models[0].Value
}

func (s *SliceIterator) Close() {
	s.models = nil
}

func (s *SliceIterator) mustBeValid() {
	if len(s.models) == 0 {
		panic("iterator is not valid")
	}
}

// side tells which source holds the key under the cursor.
type side int

const (
	onNone side = iota
	onCache
	onBelow
	onBoth
)

// mergedIterator walks the cached writes of a layer together with the
// iterator of the store below, in key order. A cached write shadows the
// same key below and cached deletions are skipped.
type mergedIterator struct {
	cache   []entry
	below   Iterator
	reverse bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(cache []entry, below Iterator, reverse bool) (*mergedIterator, error) {
	it := &mergedIterator{cache: cache, below: below, reverse: reverse}
	if err := it.skipDeleted(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

func (m *mergedIterator) side() side {
	inCache := len(m.cache) > 0
	inBelow := m.below != nil && m.below.Valid()
	switch {
	case !inCache && !inBelow:
		return onNone
	case !inBelow:
		return onCache
	case !inCache:
		return onBelow
	}

	cmp := bytes.Compare(m.cache[0].key, m.below.Key())
	if m.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return onCache
	case cmp > 0:
		return onBelow
	default:
		return onBoth
	}
}

func (m *mergedIterator) Valid() bool {
	return m.side() != onNone
}

func (m *mergedIterator) Next() error {
	if err := m.advance(m.side()); err != nil {
		return err
	}
	return m.skipDeleted()
}

func (m *mergedIterator) advance(s side) error {
	switch s {
	case onNone:
		panic("iterator is not valid")
	case onCache:
		m.cache = m.cache[1:]
		return nil
	case onBoth:
		m.cache = m.cache[1:]
	}
	return m.below.Next()
}

// skipDeleted moves the cursor past cached deletions.
func (m *mergedIterator) skipDeleted() error {
	for {
		s := m.side()
		if s != onCache && s != onBoth {
			return nil
		}
		if !m.cache[0].deleted {
			return nil
		}
		if err := m.advance(s); err != nil {
			return err
		}
	}
}

func (m *mergedIterator) Key() []byte {
	switch m.side() {
	case onCache, onBoth:
		return m.cache[0].key
	case onBelow:
		return m.below.Key()
	}
	panic("iterator is not valid")
}

func (m *mergedIterator) Value() []byte {
	switch m.side() {
	case onCache, onBoth:
		return m.cache[0].value
	case onBelow:
		return m.below.Value()
	}
	panic("iterator is not valid")
}

func (m *mergedIterator) Close() {
	if m.below != nil {
		m.below.Close()
	}
	m.cache = nil
}
