package orm

import (
	"bytes"
	"sort"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// MultiRef is the set of primary keys sharing one index value, kept in
// ascending byte order.
type MultiRef struct {
	Refs [][]byte
}

// NewMultiRef returns a set holding refs. Duplicates are rejected.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	var m MultiRef
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// search returns the position of ref, or where it would be inserted.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Add inserts ref at its sorted position.
func (m *MultiRef) Add(ref []byte) error {
	if len(ref) == 0 {
		return errors.Wrap(errors.ErrEmpty, "reference")
	}
	i, found := m.search(ref)
	if found {
		return errors.Wrapf(errors.ErrDuplicate, "reference %X", ref)
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref from the set.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrapf(errors.ErrNotFound, "reference %X", ref)
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// Validate rejects empty references.
func (m *MultiRef) Validate() error {
	for i, r := range m.Refs {
		if len(r) == 0 {
			return errors.Wrapf(errors.ErrEmpty, "reference %d", i)
		}
	}
	return nil
}

func (m *MultiRef) Marshal() ([]byte, error) { return loom.Marshal(m) }

func (m *MultiRef) Unmarshal(raw []byte) error { return loom.Unmarshal(raw, m) }
