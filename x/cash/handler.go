package cash

import (
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/x"
)

// RegisterRoutes binds the cash handlers to r.
func RegisterRoutes(r loom.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
}

// RegisterQuery exposes the wallets under /wallets.
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler moves coins between two wallets. The source must sign.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ loom.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.load(ctx, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, err := h.load(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, err
	}
	tags := []common.KVPair{loom.Tag("source", msg.Source.String())}
	return &loom.DeliverResult{Tags: tags}, nil
}

func (h SendHandler) load(ctx loom.Context, tx loom.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", msg.Source)
	}
	return &msg, nil
}
