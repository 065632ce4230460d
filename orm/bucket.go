package orm

import (
	"fmt"
	"regexp"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket stores raw values under "<name>:<key>" and maintains the
// indexes declared on it. Use it through a ModelBucket, which fixes the
// type of the stored values.
type Bucket struct {
	name    string
	prefix  []byte
	indexes map[string]*Index
}

var _ loom.QueryHandler = Bucket{}

// NewBucket returns a bucket without indexes. It panics unless name has
// 3 to 10 lower case letters or underscores.
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{name: name, prefix: []byte(name + ":")}
}

func (b Bucket) Name() string {
	return b.name
}

// DBKey returns the store key of key. The result never shares memory
// with the prefix.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// WithIndex returns a copy of the bucket with one more index. It panics
// if the name is already taken.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, taken := b.indexes[name]; taken {
		panic(fmt.Sprintf("bucket %s: index %s declared twice", b.name, name))
	}
	indexes := map[string]*Index{
		name: newIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// Index returns the index declared under name.
func (b Bucket) Index(name string) (*Index, error) {
	if idx, ok := b.indexes[name]; ok {
		return idx, nil
	}
	return nil, errors.Wrapf(ErrInvalidIndex, "bucket %s has no index %s", b.name, name)
}

// Register serves the bucket under /<name> and each index under
// /<name>/<index>. An empty name falls back to the bucket name.
func (b Bucket) Register(name string, r loom.QueryRouter) {
	if name == "" {
		name = b.name
	}
	path := "/" + name
	r.Register(path, b)
	for idxName, idx := range b.indexes {
		r.Register(path+"/"+idxName, idx)
	}
}

// Query returns the value under a key, or every value under a key
// prefix. A missing key yields no models.
func (b Bucket) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	key := b.DBKey(data)
	switch mod {
	case loom.PrefixQueryMod:
		return queryPrefix(db, key)
	case loom.KeyQueryMod:
		value, err := db.Get(key)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if value == nil {
			return nil, nil
		}
		return []loom.Model{loom.Pair(key, value)}, nil
	}
	return nil, errors.Wrapf(errors.ErrInput, "query mod %q", mod)
}

func (b Bucket) get(db loom.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	return raw, dbErr(err)
}

func (b Bucket) has(db loom.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	return ok, dbErr(err)
}

// save updates the indexes from prev to next, then stores raw, or deletes
// the key when next is nil. prev is nil for a new entity.
func (b Bucket) save(db loom.KVStore, key []byte, prev, next Model, raw []byte) error {
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, next); err != nil {
			return err
		}
	}
	if next == nil {
		return dbErr(db.Delete(b.DBKey(key)))
	}
	return dbErr(db.Set(b.DBKey(key), raw))
}

// dbErr marks a store failure as ErrDatabase.
func dbErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrDatabase, err.Error())
}
