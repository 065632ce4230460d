package escrow

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/gconf"
	"github.com/tradeloom/loom/x/cash"
)

// Initializer fulfils the Initializer interface to load the configuration
// and the open escrows from the genesis file.
type Initializer struct {
	Minter cash.CoinMinter
}

var _ loom.Initializer = (*Initializer)(nil)

// FromGenesis stores the rent configuration found under conf.escrow. Each
// escrow listed under "escrow" is created with its deposit minted into the
// vault. Genesis escrows carry no rent.
func (i *Initializer) FromGenesis(opts loom.Options, db loom.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, confKey, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}

	var escrows []struct {
		Maker         loom.Address `json:"maker"`
		Seed          uint64       `json:"seed"`
		ReceiveAmount coin.Coin    `json:"receive_amount"`
		Deposit       coin.Coin    `json:"deposit"`
	}
	if err := opts.ReadOptions("escrow", &escrows); err != nil {
		return err
	}

	bucket := NewBucket()
	for j, e := range escrows {
		rd, err := FindRecord(e.Maker, e.Seed)
		if err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		record, err := rd.Address()
		if err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		switch err := bucket.Has(db, record); {
		case err == nil:
			return errors.Wrapf(ErrDuplicateEscrow, "escrow %d", j)
		case !errors.ErrNotFound.Is(err):
			return errors.Wrapf(err, "escrow %d", j)
		}
		vd, err := FindVault(record, e.Deposit.Ticker)
		if err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		vault, err := vd.Address()
		if err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}

		receive, deposit := e.ReceiveAmount, e.Deposit
		esc := Escrow{
			Metadata:      &loom.Metadata{Schema: 1},
			Seed:          e.Seed,
			Maker:         e.Maker,
			MintA:         deposit.Ticker,
			MintB:         receive.Ticker,
			ReceiveAmount: &receive,
			Deposit:       &deposit,
			Bump:          rd.Bump,
			VaultBump:     vd.Bump,
		}
		if err := bucket.Put(db, record, &esc); err != nil {
			return errors.Wrapf(err, "escrow %d", j)
		}
		if err := i.Minter.CoinMint(db, vault, deposit); err != nil {
			return errors.Wrapf(err, "escrow %d: deposit", j)
		}
	}
	return nil
}
