package cash

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/orm"
)

// Controller is the functionality needed by cash.Handler and by any
// extension that moves funds on behalf of an address.
type Controller interface {
	// Balance returns all coins held by given address. ErrNotFound is
	// returned if the address has no wallet.
	Balance(loom.ReadOnlyKVStore, loom.Address) (coin.Coins, error)

	// MoveCoins transfers the amount from src to dest. It fails with
	// ErrInsufficientFunds if src does not hold the amount.
	MoveCoins(db loom.KVStore, src loom.Address, dest loom.Address, amount coin.Coin) error

	CoinMinter

	// Close removes the wallet of addr. Anything the wallet still holds is
	// moved to dest first.
	Close(db loom.KVStore, addr loom.Address, dest loom.Address) error
}

// CoinMinter creates new coins in the wallet of dest.
type CoinMinter interface {
	CoinMint(db loom.KVStore, dest loom.Address, amount coin.Coin) error
}

// BaseController is a simple implementation of the Controller interface.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller that keeps wallets in given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db loom.ReadOnlyKVStore, addr loom.Address) (coin.Coins, error) {
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return nil, errors.Wrap(err, "wallet")
	}
	return w.Coins, nil
}

func (c BaseController) MoveCoins(db loom.KVStore, src loom.Address, dest loom.Address, amount coin.Coin) error {
	if err := amount.ValidatePositive(); err != nil {
		return errors.Wrap(err, "amount")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if !sender.Coins.Contains(amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "%s cannot pay %s", src, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	if sender.Coins, err = sender.Coins.Clone().Subtract(amount); err != nil {
		return errors.Wrap(err, "subtract")
	}
	recipient, err := c.load(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient.Coins, err = recipient.Coins.Clone().Add(amount); err != nil {
		return errors.Wrap(err, "add")
	}

	if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) CoinMint(db loom.KVStore, dest loom.Address, amount coin.Coin) error {
	if err := amount.ValidatePositive(); err != nil {
		return errors.Wrap(err, "amount")
	}
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if w.Coins, err = w.Coins.Clone().Add(amount); err != nil {
		return errors.Wrap(err, "add")
	}
	return c.bucket.Put(db, dest, w)
}

func (c BaseController) Close(db loom.KVStore, addr loom.Address, dest loom.Address) error {
	var w Wallet
	if err := c.bucket.One(db, addr, &w); err != nil {
		return errors.Wrap(err, "wallet")
	}
	if !w.Coins.IsEmpty() && !addr.Equals(dest) {
		recipient, err := c.load(db, dest)
		if err != nil {
			return errors.Wrap(err, "recipient")
		}
		if recipient.Coins, err = recipient.Coins.Combine(w.Coins); err != nil {
			return errors.Wrap(err, "combine")
		}
		if err := c.bucket.Put(db, dest, recipient); err != nil {
			return errors.Wrap(err, "save recipient")
		}
	}
	return c.bucket.Delete(db, addr)
}

// load returns the wallet stored under addr or a new, empty one.
func (c BaseController) load(db loom.ReadOnlyKVStore, addr loom.Address) (*Wallet, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "address")
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Metadata: &loom.Metadata{Schema: 1}}, nil
	default:
		return nil, err
	}
}
