package escrow

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/orm"
	"github.com/tradeloom/loom/x/cash"
)

// openEscrow is a record loaded from the store together with the record
// and vault addresses reproduced from its stored bumps.
type openEscrow struct {
	*Escrow
	record loom.Address
	vault  loom.Address
}

// loadEscrow returns the escrow of given maker and seed. It fails with
// ErrRecordNotFound if there is none and with ErrDerivationMismatch if the
// stored bumps do not reproduce the record or the vault address.
func loadEscrow(db loom.ReadOnlyKVStore, bucket orm.ModelBucket, maker loom.Address, seed uint64) (*openEscrow, error) {
	rd, err := FindRecord(maker, seed)
	if err != nil {
		return nil, errors.Wrap(err, "record derivation")
	}
	record, err := rd.Address()
	if err != nil {
		return nil, errors.Wrap(err, "record address")
	}

	var esc Escrow
	switch err := bucket.One(db, record, &esc); {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(ErrRecordNotFound, "maker %s seed %d", maker, seed)
	case err != nil:
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if err := esc.RecordDerivation().ReproduceAndVerify(record); err != nil {
		return nil, errors.Wrap(err, "record")
	}

	vd, err := FindVault(record, esc.MintA)
	if err != nil {
		return nil, errors.Wrap(err, "vault derivation")
	}
	vault, err := vd.Address()
	if err != nil {
		return nil, errors.Wrap(err, "vault address")
	}
	if err := esc.VaultDerivation(record).ReproduceAndVerify(vault); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	return &openEscrow{Escrow: &esc, record: record, vault: vault}, nil
}

// release moves the whole asset A balance of the vault, less the vault rent
// kept in that currency, to the beneficiary and destroys the vault and the
// record. Coins sent to the vault on top of the deposit go along with it.
// The vault rent and any other currency left in the vault go to
// vaultRentTo, whatever the record wallet holds goes to the maker.
func release(db loom.KVStore, bucket orm.ModelBucket, bank cash.Controller, e *openEscrow, beneficiary, vaultRentTo loom.Address) error {
	amount, err := e.payout(db, bank)
	if err != nil {
		return err
	}
	if err := bank.MoveCoins(db, e.vault, beneficiary, amount); err != nil {
		return errors.Wrap(err, "withdraw")
	}
	if err := bank.Close(db, e.vault, vaultRentTo); err != nil {
		return errors.Wrap(err, "close vault")
	}
	if err := bucket.Delete(db, e.record); err != nil {
		return errors.Wrap(err, "delete record")
	}
	switch err := bank.Close(db, e.record, e.Maker); {
	case errors.ErrNotFound.Is(err):
		// no rent was paid and nothing was sent to the record
	case err != nil:
		return errors.Wrap(err, "close record")
	}
	return nil
}

// payout returns the asset A balance of the vault less the vault rent kept
// in that currency. It fails with ErrState when that is below the deposit.
func (e *openEscrow) payout(db loom.ReadOnlyKVStore, bank cash.Controller) (coin.Coin, error) {
	held, err := bank.Balance(db, e.vault)
	if err != nil {
		return coin.Coin{}, errors.Wrapf(errors.ErrState, "vault %s: %s", e.vault, err)
	}
	amount, err := held.Get(e.MintA).Subtract(e.rentIn(e.MintA))
	if err != nil {
		return coin.Coin{}, errors.Wrap(err, "vault balance")
	}
	if amount.Compare(*e.Deposit) < 0 {
		return coin.Coin{}, errors.Wrapf(errors.ErrState, "vault holds %s, deposit is %s", amount, e.Deposit)
	}
	return amount, nil
}

// payRent moves the rent from the maker to the given holder. A missing or
// zero rent is not paid.
func payRent(db loom.KVStore, bank cash.Controller, maker, holder loom.Address, rent *coin.Coin) error {
	if !isPositive(rent) {
		return nil
	}
	return bank.MoveCoins(db, maker, holder, *rent)
}

func isPositive(c *coin.Coin) bool {
	return c != nil && c.IsPositive()
}
