package app

import (
	amino "github.com/tendermint/go-amino"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/x/cash"
	"github.com/tradeloom/loom/x/escrow"
	"github.com/tradeloom/loom/x/sigs"
)

var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*loom.Msg)(nil), nil)
	cdc.RegisterConcrete(&cash.SendMsg{}, "loomd/cash/SendMsg", nil)
	cdc.RegisterConcrete(&escrow.MakeMsg{}, "loomd/escrow/MakeMsg", nil)
	cdc.RegisterConcrete(&escrow.TakeMsg{}, "loomd/escrow/TakeMsg", nil)
	cdc.RegisterConcrete(&escrow.RefundMsg{}, "loomd/escrow/RefundMsg", nil)
}

// Tx is the transaction accepted by the application: one message and the
// signatures authorizing it.
type Tx struct {
	Msg        loom.Msg
	Signatures []*sigs.StdSignature
}

// make sure tx fulfills all interfaces
var _ loom.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (loom.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of the transaction
func (tx *Tx) GetMsg() (loom.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures of the transaction
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes come from the data itself, not previous signatures
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
