package app

import (
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// BaseApp is a StoreApp that also runs transactions through a handler.
type BaseApp struct {
	*StoreApp
	decoder loom.TxDecoder
	handler loom.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns an application decoding transactions with decoder
// and running them through handler. In debug mode internal errors are
// returned to the client unredacted.
func NewBaseApp(store *StoreApp, decoder loom.TxDecoder, handler loom.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

// DeliverTx runs the transaction on the deliver store.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return loom.DeliverTxError(err, b.debug)
	}
	ctx := b.txContext("deliver_tx", tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return loom.DeliverOrError(res, err, b.debug)
}

// CheckTx runs the transaction on the check store.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return loom.CheckTxError(err, b.debug)
	}
	ctx := b.txContext("check_tx", tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return loom.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx loom.Tx) loom.Context {
	return loom.WithLogInfo(b.BlockContext(), "call", call, "path", loom.GetPath(tx))
}

// decode turns a decoder panic into an error.
func (b BaseApp) decode(raw []byte) (tx loom.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
