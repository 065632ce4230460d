package utils

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// Recovery turns a panic in any later decorator or handler into an
// ErrPanic result. The panic value is logged at error level together with
// the message path, because ABCI redacts it outside of debug mode.
type Recovery struct{}

var _ loom.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (res *loom.CheckResult, err error) {
	defer recovered(ctx, tx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (res *loom.DeliverResult, err error) {
	defer recovered(ctx, tx, &err)
	return next.Deliver(ctx, db, tx)
}

// recovered must be deferred directly, recover has no effect otherwise.
func recovered(ctx loom.Context, tx loom.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	loom.GetLogger(ctx).Error("panic recovered", "path", loom.GetPath(tx), "panic", r)
}
