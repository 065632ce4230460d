/*
Package app assembles the loomd escrow node out of the loom extensions.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/app"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/store/iavl"
	"github.com/tradeloom/loom/x"
	"github.com/tradeloom/loom/x/cash"
	"github.com/tradeloom/loom/x/escrow"
	"github.com/tradeloom/loom/x/sigs"
	"github.com/tradeloom/loom/x/utils"
)

// Authenticator accepts ed25519 signatures verified by the sigs
// decorator.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns the decorators every transaction passes through. The
// metrics decorator is optional.
//
// Signature checks run between two savepoints. A transaction failing in
// CheckTx leaves the check state untouched. A transaction failing in
// DeliverTx still consumes the signer sequence but none of its message
// changes are kept.
func Chain(metrics loom.Decorator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router dispatches the cash and escrow messages. Both extensions move
// coins through the same cash controller.
func Router(auth x.Authenticator) *app.Router {
	bank := cash.NewController(cash.NewBucket())
	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, bank)
	escrow.RegisterRoutes(r, auth, bank)
	return r
}

// QueryRouter serves /wallets, /escrows and /auth.
func QueryRouter() loom.QueryRouter {
	r := loom.NewQueryRouter()
	r.RegisterAll(cash.RegisterQuery, escrow.RegisterQuery, sigs.RegisterQuery)
	return r
}

// Initializers loads the genesis state. Wallets come first so that
// genesis escrows can be funded.
func Initializers() loom.Initializer {
	return loom.ChainInitializers(
		cash.Initializer{},
		&escrow.Initializer{Minter: cash.NewController(cash.NewBucket())},
	)
}

// Stack returns the complete transaction handler. Metrics are collected
// into reg when it is not nil.
func Stack(reg prometheus.Registerer) (loom.Handler, error) {
	var metrics loom.Decorator
	if reg != nil {
		m, err := utils.NewMetrics(reg)
		if err != nil {
			return nil, errors.Wrap(err, "metrics")
		}
		metrics = m
	}
	return Chain(metrics).WithHandler(Router(Authenticator())), nil
}

// Application returns an ABCI application running h on the state stored
// at dbPath. An empty dbPath keeps the state in memory.
func Application(name string, h loom.Handler, decoder loom.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, errors.Wrap(err, "open state")
	}
	storeApp := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	return app.NewBaseApp(storeApp, decoder, h, debug), nil
}

// CommitKVStore opens the iavl state at dbPath, or an in-memory one when
// dbPath is empty. A trailing extension such as ".db" is ignored.
func CommitKVStore(dbPath string) (loom.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	abs = strings.TrimSuffix(abs, filepath.Ext(abs))
	return iavl.NewCommitStore(filepath.Dir(abs), filepath.Base(abs))
}
