package server

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tradeloom/loom/errors"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// Options are the settings an AppGenerator builds the application from.
type Options struct {
	Home   string
	Logger log.Logger
	Debug  bool
	// Registry collects the application metrics.
	Registry prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// parseFlags applies the command line flags on top of the loaded
// configuration.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	startFlags.StringVar(&conf.MetricsBind, flagMetrics, conf.MetricsBind, "address metrics are served on, empty to disable")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, nil
}

// StartCmd initializes the application and serves it over an ABCI socket
// until the process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := LoadConfig(home)
	if err != nil {
		return err
	}
	conf, err = parseFlags(conf, args)
	if err != nil {
		return err
	}

	if logger == nil {
		logger, err = NewLogger(conf.Log, os.Stdout)
		if err != nil {
			return err
		}
	}

	registry := prometheus.NewRegistry()
	app, err := gen(&Options{
		Home:     home,
		Logger:   logger,
		Debug:    conf.Debug,
		Registry: registry,
	})
	if err != nil {
		return err
	}

	if conf.MetricsBind != "" {
		go serveMetrics(logger, conf.MetricsBind, registry)
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	// Wait for a termination signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Stopping ABCI app", "signal", s.String())
	if err := svr.Stop(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot stop server: %s", err)
	}
	return nil
}

func serveMetrics(logger log.Logger, addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	logger.Info("Serving metrics", "bind", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server stopped", "err", err)
	}
}
