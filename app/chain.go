package app

import (
	"reflect"

	"github.com/tradeloom/loom"
)

// Decorators is an ordered list of decorators waiting for the Handler
// they will wrap. The first decorator runs first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []loom.Decorator
}

// ChainDecorators starts a chain. Nil decorators are skipped so that
// optional ones can be passed unconditionally.
func ChainDecorators(chain ...loom.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with the given decorators appended. The
// receiver is not modified.
func (d Decorators) Chain(chain ...loom.Decorator) Decorators {
	joined := make([]loom.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(joined, d.chain)
	for _, dec := range chain {
		if !isNilDecorator(dec) {
			joined = append(joined, dec)
		}
	}
	return Decorators{chain: joined}
}

func isNilDecorator(d loom.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the chain with h.
func (d Decorators) WithHandler(h loom.Handler) loom.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{decorator: d.chain[i], next: h}
	}
	return h
}

// link binds a decorator to the handler it wraps.
type link struct {
	decorator loom.Decorator
	next      loom.Handler
}

func (l link) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return l.decorator.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	return l.decorator.Deliver(ctx, db, tx, l.next)
}
