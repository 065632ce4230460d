package store

import (
	"bytes"

	"github.com/google/btree"
)

// entry is a write kept in a cache layer. A deleted entry hides the key in
// the store below.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

// apply replays the write onto the given store.
func (e entry) apply(out SetDeleter) error {
	if e.deleted {
		return out.Delete(e.key)
	}
	return out.Set(e.key, e.value)
}

// MemStore returns an empty store kept in memory only.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps writes in a btree until they are written to the
// store below or discarded. Reads see the cached writes first.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes on top of back. Every write is also
// recorded in batch, which is flushed on Write. Nested cache layers share
// the free list, a nil one allocates a new list.
func NewBTreeCacheWrap(back ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(2, free),
		free:  free,
		back:  back,
		batch: batch,
	}
}

// CacheWrap layers another cache on top of this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the cached writes to the store below and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached writes.
func (b BTreeCacheWrap) Discard() {
	b.tree.Clear(true)
	if r, ok := b.batch.(interface{ Reset() }); ok {
		r.Reset()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.back.Has(key)
}

// Iterator walks [start, end) in ascending order, merging the cached
// writes with the store below.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	below, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(b.entries(start, end, false), below, false)
}

// ReverseIterator walks [start, end) in descending order, merging the
// cached writes with the store below.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	below, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(b.entries(start, end, true), below, true)
}

// entries returns the cached writes within [start, end). A nil bound is
// open.
func (b BTreeCacheWrap) entries(start, end []byte, reverse bool) []entry {
	var res []entry
	collect := func(item btree.Item) bool {
		res = append(res, item.(entry))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.tree.Ascend(collect)
	case start == nil:
		b.tree.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		b.tree.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		b.tree.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	if reverse {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}
