package orm

import (
	"bytes"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

const indexPrefix = "_i."

// Index is a secondary index on some bucket data. It is indexed by an
// arbitrary key returned by the Indexer. The value stored under each index
// key is the set of primary keys having that index value, serialized as a
// MultiRef. A unique index holds at most one primary key per value.
type Index struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ loom.QueryHandler = (*Index)(nil)

// newIndex constructs an index. refKey calculates the absolute db key of a
// referenced primary key, so queries can return the referenced data.
func newIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) *Index {
	return &Index{
		name:   name,
		id:     append([]byte(indexPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

// Name returns the name of this index.
func (i *Index) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix.
func (i *Index) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update moves the reference to the primary key pk from the index value of
// prev to the index value of next. prev == nil means insert and next == nil
// means delete.
func (i *Index) Update(db loom.KVStore, pk []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}
	var before, after []byte
	if prev != nil {
		k, err := i.index(prev)
		if err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
		before = k
	}
	if next != nil {
		k, err := i.index(next)
		if err != nil {
			return errors.Wrapf(err, "index %s", i.name)
		}
		after = k
	}
	if prev != nil && next != nil && bytes.Equal(before, after) {
		return nil
	}
	if before != nil {
		if err := i.remove(db, before, pk); err != nil {
			return err
		}
	}
	if after != nil {
		if err := i.insert(db, after, pk); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns all primary keys indexed under the given value.
func (i *Index) Keys(db loom.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.refs(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query handles queries from the QueryRouter. It returns the data of all
// entities referenced by the index value.
func (i *Index) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	if mod != loom.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	pks, err := i.Keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]loom.Model, 0, len(pks))
	for _, pk := range pks {
		key := i.refKey(pk)
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if value == nil {
			return nil, errors.Wrapf(errors.ErrState, "index %s references missing %X", i.name, pk)
		}
		res = append(res, loom.Pair(key, value))
	}
	return res, nil
}

func (i *Index) refs(db loom.ReadOnlyKVStore, value []byte) (*MultiRef, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	var refs MultiRef
	if raw == nil {
		return &refs, nil
	}
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "index %s", i.name)
	}
	return &refs, nil
}

func (i *Index) insert(db loom.KVStore, value, pk []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %s: %X", i.name, value)
	}
	if err := refs.Add(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.write(db, value, refs)
}

func (i *Index) remove(db loom.KVStore, value, pk []byte) error {
	refs, err := i.refs(db, value)
	if err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.write(db, value, refs)
}

func (i *Index) write(db loom.KVStore, value []byte, refs *MultiRef) error {
	key := i.indexKey(value)
	if len(refs.Refs) == 0 {
		if err := db.Delete(key); err != nil {
			return errors.Wrap(errors.ErrDatabase, err.Error())
		}
		return nil
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	if err := db.Set(key, raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
