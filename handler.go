package loom

import (
	"encoding/json"

	"github.com/tradeloom/loom/errors"
)

// Checker validates a transaction without persisting its effects.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Handler processes the messages of one or more paths, for example
// making or taking an escrow.
type Handler interface {
	Checker
	Deliverer
}

// Decorator runs around the next handler in a chain. It can stop the
// call, alter the context or the store, or inspect the result.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message paths.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the app_state of the genesis file, keyed by extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the JSON stored under key into obj. A missing key
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "genesis %q: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializer runs initializers in order and stops at the first
// failure.
type ChainInitializer []Initializer

var _ Initializer = ChainInitializer{}

// ChainInitializers returns a ChainInitializer of inits.
func ChainInitializers(inits ...Initializer) ChainInitializer {
	return ChainInitializer(inits)
}

func (c ChainInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, init := range c {
		if err := init.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
