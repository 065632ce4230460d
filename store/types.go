package store

import "github.com/tradeloom/loom"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = loom.ReadOnlyKVStore
type SetDeleter = loom.SetDeleter
type KVStore = loom.KVStore
type Batch = loom.Batch
type Iterator = loom.Iterator
type CacheableKVStore = loom.CacheableKVStore
type KVCacheWrap = loom.KVCacheWrap
type CommitKVStore = loom.CommitKVStore
type CommitID = loom.CommitID
type Model = loom.Model

// Pair constructs a model from a key-value pair
var Pair = loom.Pair
