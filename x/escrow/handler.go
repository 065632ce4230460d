package escrow

import (
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/orm"
	"github.com/tradeloom/loom/x"
	"github.com/tradeloom/loom/x/cash"
)

const (
	// pay escrow cost up-front
	makeEscrowCost   int64 = 300
	takeEscrowCost   int64 = 100
	refundEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r loom.Registry, auth x.Authenticator, bank cash.Controller) {
	bucket := NewBucket()

	r.Handle(pathMakeMsg, MakeEscrowHandler{auth, bucket, bank})
	r.Handle(pathTakeMsg, TakeEscrowHandler{auth, bucket, bank})
	r.Handle(pathRefundMsg, RefundEscrowHandler{auth, bucket, bank})
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// MakeEscrowHandler opens an escrow and funds its vault.
type MakeEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ loom.Handler = MakeEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h MakeEscrowHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{GasAllocated: makeEscrowCost}, nil
}

// Deliver stores the escrow record and moves the deposit from the maker to
// the vault.
func (h MakeEscrowHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.bucket.Put(db, e.record, e.Escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := h.bank.MoveCoins(db, e.Maker, e.vault, *e.Deposit); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	if err := payRent(db, h.bank, e.Maker, e.vault, e.VaultRent); err != nil {
		return nil, errors.Wrap(err, "vault rent")
	}
	if err := payRent(db, h.bank, e.Maker, e.record, e.RecordRent); err != nil {
		return nil, errors.Wrap(err, "record rent")
	}

	loom.GetLogger(ctx).Info("escrow made",
		"escrow", e.record, "maker", e.Maker, "seed", e.Seed, "deposit", e.Deposit)
	return &loom.DeliverResult{
		Data: e.record,
		Tags: tags(e.record),
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h MakeEscrowHandler) validate(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*openEscrow, error) {
	var msg MakeMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	// Maker must authorize this (if not set, defaults to MainSigner).
	maker := msg.Maker
	if maker == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		maker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker signature missing")
	}

	rd, err := FindRecord(maker, msg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "record derivation")
	}
	record, err := rd.Address()
	if err != nil {
		return nil, errors.Wrap(err, "record address")
	}
	switch err := h.bucket.Has(db, record); {
	case err == nil:
		return nil, errors.Wrapf(ErrDuplicateEscrow, "maker %s seed %d", maker, msg.Seed)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	vd, err := FindVault(record, msg.Deposit.Ticker)
	if err != nil {
		return nil, errors.Wrap(err, "vault derivation")
	}
	vault, err := vd.Address()
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	switch held, err := h.bank.Balance(db, vault); {
	case err == nil && !held.IsEmpty():
		return nil, errors.Wrapf(ErrDuplicateEscrow, "vault %s holds funds", vault)
	case err != nil && !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "vault balance")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	esc := &Escrow{
		Metadata:      &loom.Metadata{Schema: 1},
		Seed:          msg.Seed,
		Maker:         maker,
		MintA:         msg.Deposit.Ticker,
		MintB:         msg.ReceiveAmount.Ticker,
		ReceiveAmount: msg.ReceiveAmount,
		Deposit:       msg.Deposit,
		Bump:          rd.Bump,
		VaultBump:     vd.Bump,
		RecordRent:    conf.RecordRent.Clone(),
		VaultRent:     conf.VaultRent.Clone(),
	}
	if err := esc.Validate(); err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	if err := h.canPay(db, esc); err != nil {
		return nil, err
	}
	return &openEscrow{Escrow: esc, record: record, vault: vault}, nil
}

// canPay ensures the maker holds the deposit and the rent, so that nothing
// is written when the maker cannot fund the escrow.
func (h MakeEscrowHandler) canPay(db loom.ReadOnlyKVStore, esc *Escrow) error {
	total, err := coin.CombineCoins(*esc.Deposit, rentOrZero(esc.RecordRent), rentOrZero(esc.VaultRent))
	if err != nil {
		return errors.Wrap(err, "total")
	}
	held, err := h.bank.Balance(db, esc.Maker)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "maker balance")
	}
	for _, c := range total {
		if !held.Contains(*c) {
			return errors.Wrapf(errors.ErrInsufficientFunds, "maker cannot pay %s", c)
		}
	}
	return nil
}

func rentOrZero(c *coin.Coin) coin.Coin {
	if c == nil {
		return coin.Coin{}
	}
	return *c
}

// TakeEscrowHandler completes an escrow: the taker pays the maker and
// receives the deposit.
type TakeEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ loom.Handler = TakeEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h TakeEscrowHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{GasAllocated: takeEscrowCost}, nil
}

// Deliver pays the maker first. Only then the deposit is released to the
// taker and the escrow is destroyed.
func (h TakeEscrowHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	taker, e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.bank.MoveCoins(db, taker, e.Maker, *e.ReceiveAmount); err != nil {
		return nil, errors.Wrap(err, "pay maker")
	}
	if err := release(db, h.bucket, h.bank, e, taker, taker); err != nil {
		return nil, err
	}

	loom.GetLogger(ctx).Info("escrow taken",
		"escrow", e.record, "maker", e.Maker, "seed", e.Seed, "taker", taker)
	return &loom.DeliverResult{Tags: tags(e.record)}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h TakeEscrowHandler) validate(ctx loom.Context, db loom.KVStore, tx loom.Tx) (loom.Address, *openEscrow, error) {
	var msg TakeMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	taker := msg.Taker
	if taker == nil {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		taker = signer.Address()
	}
	if !h.auth.HasAddress(ctx, taker) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "taker signature missing")
	}

	e, err := loadEscrow(db, h.bucket, msg.Maker, msg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if _, err := e.payout(db, h.bank); err != nil {
		return nil, nil, err
	}
	return taker, e, nil
}

// RefundEscrowHandler returns the deposit to the maker and destroys the
// escrow.
type RefundEscrowHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	bank   cash.Controller
}

var _ loom.Handler = RefundEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h RefundEscrowHandler) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{GasAllocated: refundEscrowCost}, nil
}

// Deliver moves the deposit back to the maker. All rent goes to the maker
// as well.
func (h RefundEscrowHandler) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	e, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := release(db, h.bucket, h.bank, e, e.Maker, e.Maker); err != nil {
		return nil, err
	}

	loom.GetLogger(ctx).Info("escrow refunded",
		"escrow", e.record, "maker", e.Maker, "seed", e.Seed)
	return &loom.DeliverResult{Tags: tags(e.record)}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h RefundEscrowHandler) validate(ctx loom.Context, db loom.KVStore, tx loom.Tx) (*openEscrow, error) {
	var msg RefundMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	e, err := loadEscrow(db, h.bucket, msg.Maker, msg.Seed)
	if err != nil {
		return nil, err
	}
	if !h.auth.HasAddress(ctx, e.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the maker can refund")
	}
	if _, err := e.payout(db, h.bank); err != nil {
		return nil, err
	}
	return e, nil
}

// tags allow clients to search for all transactions of an escrow. The
// action tag is added by the ActionTagger decorator.
func tags(record loom.Address) []common.KVPair {
	return []common.KVPair{loom.Tag("escrow", record.String())}
}
