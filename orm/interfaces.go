package orm

import "github.com/tradeloom/loom"

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	loom.Persistent
	Validate() error
}

// Indexer calculates the secondary index key for a given model. A nil key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)
