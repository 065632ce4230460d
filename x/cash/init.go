package cash

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use loom.Address, so address in hex, not base64
type GenesisAccount struct {
	Address loom.Address `json:"address"`
	Coins   coin.Coins   `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts loom.Options, kv loom.KVStore) error {
	accts := []GenesisAccount{}
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d address", i)
		}
		switch err := bucket.Has(kv, acct.Address); {
		case err == nil:
			return errors.Wrapf(errors.ErrDuplicate, "account %s", acct.Address)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "account %s", acct.Address)
		}
		wallet, err := NewWallet(acct.Coins...)
		if err != nil {
			return errors.Wrapf(err, "account %s", acct.Address)
		}
		if err := bucket.Put(kv, acct.Address, wallet); err != nil {
			return errors.Wrapf(err, "account %s", acct.Address)
		}
	}
	return nil
}
