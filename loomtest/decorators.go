package loomtest

import "github.com/tradeloom/loom"

// Decorator counts its calls and passes them to the next handler unless
// CheckErr or DeliverErr is set, in which case that error is returned and
// the next handler is not called.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks   int
	delivers int
}

var _ loom.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

// Decorate wraps h with d.
func Decorate(h loom.Handler, d loom.Decorator) loom.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   loom.Handler
	decorator loom.Decorator
}

func (d decorated) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
