package cash

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is a set of coins held by a single address. The address is the
// key the wallet is stored under.
type Wallet struct {
	Metadata *loom.Metadata `json:"metadata"`
	Coins    coin.Coins     `json:"coins"`
}

var _ orm.Model = (*Wallet)(nil)

// NewWallet returns a wallet holding given coins. Coins are normalized.
func NewWallet(coins ...*coin.Coin) (*Wallet, error) {
	cs, err := coin.NormalizeCoins(coins)
	if err != nil {
		return nil, errors.Wrap(err, "coins")
	}
	return &Wallet{Metadata: &loom.Metadata{Schema: 1}, Coins: cs}, nil
}

// Validate requires that all coins are in alphabetical order and none of
// them is negative.
func (w *Wallet) Validate() error {
	if err := w.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := w.Coins.Validate(); err != nil {
		return errors.Wrap(err, "coins")
	}
	if !w.Coins.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return loom.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, w)
}

// NewBucket returns a bucket for storing wallets, keyed by the owner
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
