package loom

// ReadOnlyKVStore reads from a key value store. Keys must not be nil.
type ReadOnlyKVStore interface {
	// Get returns nil when the key does not exist.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written to while the iterator is open.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks [start, end) in descending key order. A nil
	// bound is open. The range must not be written to while the iterator
	// is open.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter writes to a store or a batch. Keys and values passed in must
// not be modified afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store every handler works on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that are applied together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a range of keys. The usual loop is:
//
//	it, err := db.Iterator(start, end)
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for ; it.Valid(); it.Next() {
//		key, value := it.Key(), it.Value()
//	}
//
// Key, Value and Next panic when the iterator is not valid.
type Iterator interface {
	// Valid returns false once the range is exhausted. An invalid
	// iterator never becomes valid again.
	Valid() bool
	Next() error
	Key() []byte
	Value() []byte
	Close()
}

// CacheableKVStore can stack a cache layer on top of itself. Writes to
// the cache stay invisible to the store until the cache is written, much
// like a database savepoint.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a cache layer. Reads see its own writes first. Call Write
// to apply them to the store below or Discard to drop them.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent, versioned root store of an
// application.
type CommitKVStore interface {
	// Get reads from the last committed version.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a cache layer over the working version.
	CacheWrap() KVCacheWrap

	// Commit persists the working version as a new version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest complete version, skipping one
	// left behind by an interrupted commit.
	LoadLatestVersion() error

	// LatestVersion describes the latest committed version.
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
