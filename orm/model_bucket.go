package orm

import (
	"reflect"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// ModelBucket stores Models of one type. Every method rejects models of
// another type with ErrType.
type ModelBucket interface {
	// One loads the entity stored under key into dest, or fails with
	// ErrNotFound.
	One(db loom.ReadOnlyKVStore, key []byte, dest Model) error

	// Has fails with ErrNotFound when nothing is stored under key.
	Has(db loom.ReadOnlyKVStore, key []byte) error

	// ByIndex loads every entity indexed under value into dest, a
	// pointer to a slice of models or of model pointers, and returns
	// their keys in the same order.
	ByIndex(db loom.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error)

	// Put validates m and stores it under key, updating the indexes.
	Put(db loom.KVStore, key []byte, m Model) error

	// Delete removes the entity stored under key, or fails with
	// ErrNotFound.
	Delete(db loom.KVStore, key []byte) error

	// Register serves the bucket and its indexes under /<name>.
	Register(name string, r loom.QueryRouter)
}

// ModelBucketOption configures a ModelBucket on creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex declares a secondary index computed by indexer. A unique
// index refuses a second entity with the same index value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer, unique)
	}
}

// NewModelBucket returns a bucket for the type m points to.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("orm: model must be a pointer")
	}
	mb := &modelBucket{b: NewBucket(name), model: tp.Elem()}
	for _, opt := range opts {
		opt(mb)
	}
	return mb
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

func (mb *modelBucket) notFound(key []byte) error {
	return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.b.Name(), key)
}

func (mb *modelBucket) One(db loom.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.assignable(dest); err != nil {
		return err
	}
	raw, err := mb.b.get(db, key)
	switch {
	case err != nil:
		return err
	case raw == nil:
		return mb.notFound(key)
	}
	return errors.Wrapf(dest.Unmarshal(raw), "decode %s %X", mb.b.Name(), key)
}

func (mb *modelBucket) Has(db loom.ReadOnlyKVStore, key []byte) error {
	ok, err := mb.b.has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return mb.notFound(key)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db loom.ReadOnlyKVStore, indexName string, value []byte, dest interface{}) ([][]byte, error) {
	out := reflect.ValueOf(dest)
	if out.Kind() != reflect.Ptr || out.IsNil() || out.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination %T is not a pointer to a slice", dest)
	}
	elem := out.Elem().Type().Elem()
	byPtr := elem.Kind() == reflect.Ptr
	if byPtr {
		elem = elem.Elem()
	}
	if elem != mb.model {
		return nil, errors.Wrapf(errors.ErrType, "bucket %s holds %s, not %s", mb.b.Name(), mb.model, elem)
	}

	idx, err := mb.b.Index(indexName)
	if err != nil {
		return nil, err
	}
	keys, err := idx.Keys(db, value)
	if err != nil {
		return nil, err
	}

	list := out.Elem()
	for _, key := range keys {
		m := reflect.New(mb.model)
		if err := mb.One(db, key, m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(err, "index %s references %X", indexName, key)
		}
		if !byPtr {
			m = m.Elem()
		}
		list = reflect.Append(list, m)
	}
	out.Elem().Set(list)
	return keys, nil
}

func (mb *modelBucket) Put(db loom.KVStore, key []byte, m Model) error {
	if err := mb.assignable(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "encode model")
	}
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	return mb.b.save(db, key, prev, m, raw)
}

func (mb *modelBucket) Delete(db loom.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return mb.notFound(key)
	}
	return mb.b.save(db, key, prev, nil, nil)
}

func (mb *modelBucket) Register(name string, r loom.QueryRouter) {
	mb.b.Register(name, r)
}

// load returns the entity stored under key, or nil.
func (mb *modelBucket) load(db loom.ReadOnlyKVStore, key []byte) (Model, error) {
	m := reflect.New(mb.model).Interface().(Model)
	err := mb.One(db, key, m)
	if errors.ErrNotFound.Is(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (mb *modelBucket) assignable(m Model) error {
	if tp := reflect.TypeOf(m); tp == nil || tp.Kind() != reflect.Ptr || tp.Elem() != mb.model {
		return errors.Wrapf(errors.ErrType, "bucket %s holds %s, got %T", mb.b.Name(), mb.model, m)
	}
	return nil
}
