package utils

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// Savepoint runs the next handler on a cache layer. The layer is written
// when the handler succeeds and discarded when it fails, so a failed
// transaction leaves no partial state behind.
//
// A Savepoint does nothing until enabled with OnCheck or OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ loom.Decorator = Savepoint{}

// NewSavepoint returns a disabled Savepoint.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck enables the savepoint for CheckTx.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver enables the savepoint for DeliverTx.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	cache, ok := s.cacheFor(s.onCheck, db)
	if !ok {
		return next.Check(ctx, db, tx)
	}
	res, err := next.Check(ctx, cache, tx)
	if err := settle(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	cache, ok := s.cacheFor(s.onDeliver, db)
	if !ok {
		return next.Deliver(ctx, db, tx)
	}
	res, err := next.Deliver(ctx, cache, tx)
	if err := settle(cache, err); err != nil {
		return nil, err
	}
	return res, nil
}

// cacheFor returns a cache layer over db when the savepoint is enabled and
// db supports caching.
func (Savepoint) cacheFor(enabled bool, db loom.KVStore) (loom.KVCacheWrap, bool) {
	if !enabled {
		return nil, false
	}
	cacheable, ok := db.(loom.CacheableKVStore)
	if !ok {
		return nil, false
	}
	return cacheable.CacheWrap(), true
}

// settle writes the cache if the handler succeeded and discards it
// otherwise. The handler error is returned unchanged.
func settle(cache loom.KVCacheWrap, handlerErr error) error {
	if handlerErr != nil {
		cache.Discard()
		return handlerErr
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
