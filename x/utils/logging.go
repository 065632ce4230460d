package utils

import (
	"time"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/tradeloom/loom"
)

// Logging writes one log entry per transaction with its path, duration
// and outcome. Failures are logged as errors, successful checks at debug
// level and successful deliveries at info level.
type Logging struct{}

var _ loom.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	done := startTxLog(ctx, tx)
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		done.failed(err)
	} else {
		done.logger().Debug(res.Log)
	}
	return res, err
}

func (Logging) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	done := startTxLog(ctx, tx)
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		done.failed(err)
	} else {
		done.logger().Info(res.Log)
	}
	return res, err
}

type txLog struct {
	ctx   loom.Context
	tx    loom.Tx
	start time.Time
}

func startTxLog(ctx loom.Context, tx loom.Tx) txLog {
	return txLog{ctx: ctx, tx: tx, start: time.Now()}
}

// logger carries the path and the elapsed time in microseconds. An entry
// is written even when the result has no log message.
func (l txLog) logger() log.Logger {
	return loom.GetLogger(l.ctx).With(
		"path", loom.GetPath(l.tx),
		"duration", time.Since(l.start)/time.Microsecond,
	)
}

func (l txLog) failed(err error) {
	l.logger().Error("", "err", err)
}
