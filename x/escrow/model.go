package escrow

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/orm"
)

const (
	// BucketName is where the escrow records are stored.
	BucketName = "escrow"

	recordSeed = "escrow"
	vaultSeed  = "vault"
)

// Escrow is the record of a single open trade. It is stored under its
// derived address.
type Escrow struct {
	Metadata *loom.Metadata `json:"metadata"`
	// Seed allows a maker to open many escrows at the same time.
	Seed  uint64       `json:"seed"`
	Maker loom.Address `json:"maker"`
	// MintA is the currency of the deposit, MintB the currency the maker
	// wants in return.
	MintA string `json:"mint_a"`
	MintB string `json:"mint_b"`
	// ReceiveAmount is what a taker pays to the maker. It never changes.
	ReceiveAmount *coin.Coin `json:"receive_amount"`
	// Deposit is the amount of MintA locked in the vault.
	Deposit *coin.Coin `json:"deposit"`
	// Bump and VaultBump reproduce the record and the vault address.
	Bump      uint8 `json:"bump"`
	VaultBump uint8 `json:"vault_bump"`
	// RecordRent and VaultRent were paid by the maker and are returned
	// when the escrow is closed.
	RecordRent *coin.Coin `json:"record_rent,omitempty"`
	VaultRent  *coin.Coin `json:"vault_rent,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if !coin.IsCC(e.MintA) {
		return errors.Wrapf(errors.ErrCurrency, "mint a %q", e.MintA)
	}
	if !coin.IsCC(e.MintB) {
		return errors.Wrapf(errors.ErrCurrency, "mint b %q", e.MintB)
	}
	if err := e.ReceiveAmount.ValidatePositive(); err != nil {
		return errors.Wrap(err, "receive amount")
	}
	if e.ReceiveAmount.Ticker != e.MintB {
		return errors.Wrapf(errors.ErrCurrency, "receive amount must be %s", e.MintB)
	}
	if err := e.Deposit.ValidatePositive(); err != nil {
		return errors.Wrap(err, "deposit")
	}
	if e.Deposit.Ticker != e.MintA {
		return errors.Wrapf(errors.ErrCurrency, "deposit must be %s", e.MintA)
	}
	if err := validateRent(e.RecordRent); err != nil {
		return errors.Wrap(err, "record rent")
	}
	if err := validateRent(e.VaultRent); err != nil {
		return errors.Wrap(err, "vault rent")
	}
	return nil
}

func (e *Escrow) Marshal() ([]byte, error) {
	return loom.Marshal(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, e)
}

// RecordDerivation returns the authority of this record, as stored.
func (e *Escrow) RecordDerivation() loom.Derivation {
	return recordDerivation(e.Maker, e.Seed, e.Bump)
}

// VaultDerivation returns the authority of the vault owned by the record
// at the given address, as stored.
func (e *Escrow) VaultDerivation(record loom.Address) loom.Derivation {
	return vaultDerivation(record, e.MintA, e.VaultBump)
}

// rentIn returns the part of the vault rent paid in the given currency.
func (e *Escrow) rentIn(ticker string) coin.Coin {
	if e.VaultRent == nil || e.VaultRent.Ticker != ticker {
		return coin.Coin{Ticker: ticker}
	}
	return *e.VaultRent
}

// validateRent accepts a missing rent.
func validateRent(c *coin.Coin) error {
	if coin.IsEmpty(c) {
		return nil
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !c.IsNonNegative() {
		return errors.Wrap(errors.ErrAmount, "negative rent")
	}
	return nil
}

func recordSeeds(maker loom.Address, seed uint64) [][]byte {
	return [][]byte{[]byte(recordSeed), maker, loom.SeedUint64(seed)}
}

func recordDerivation(maker loom.Address, seed uint64, bump uint8) loom.Derivation {
	return loom.Derivation{Extension: BucketName, Seeds: recordSeeds(maker, seed), Bump: bump}
}

func vaultSeeds(record loom.Address, mint string) [][]byte {
	return [][]byte{[]byte(vaultSeed), record, []byte(mint)}
}

func vaultDerivation(record loom.Address, mint string, bump uint8) loom.Derivation {
	return loom.Derivation{Extension: BucketName, Seeds: vaultSeeds(record, mint), Bump: bump}
}

// FindRecord returns the canonical authority of the escrow of given maker
// and seed. Its address is the key the record is stored under.
func FindRecord(maker loom.Address, seed uint64) (loom.Derivation, error) {
	return loom.FindDerivation(BucketName, recordSeeds(maker, seed)...)
}

// FindVault returns the canonical authority of the vault owned by the
// record at the given address.
func FindVault(record loom.Address, mint string) (loom.Derivation, error) {
	return loom.FindDerivation(BucketName, vaultSeeds(record, mint)...)
}

// NewBucket returns a bucket for escrow records, indexed by maker.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex("maker", idxMaker, false),
	)
}

func idxMaker(m orm.Model) ([]byte, error) {
	esc, ok := m.(*Escrow)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "want escrow, got %T", m)
	}
	return esc.Maker, nil
}
