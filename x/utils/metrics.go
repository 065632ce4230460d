package utils

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// Metrics is a decorator that counts processed transactions by message
// path and result code, and observes how long the processing took.
type Metrics struct {
	txs     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var _ loom.Decorator = Metrics{}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (Metrics, error) {
	m := Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "loom",
			Subsystem: "tx",
			Name:      "processed_total",
			Help:      "Total transactions processed segmented by phase, message path and result code.",
		}, []string{"phase", "path", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "loom",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Latency distribution of transaction processing.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase", "path"}),
	}
	for _, c := range []prometheus.Collector{m.txs, m.latency} {
		if err := reg.Register(c); err != nil {
			return Metrics{}, errors.Wrapf(errors.ErrHuman, "register metrics: %s", err)
		}
	}
	return m, nil
}

// Check records the check phase.
func (m Metrics) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the deliver phase.
func (m Metrics) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m Metrics) observe(phase string, tx loom.Tx, start time.Time, err error) {
	path := loom.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.latency.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
