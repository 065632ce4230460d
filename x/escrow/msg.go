package escrow

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
)

const (
	pathMakeMsg   = "escrow/make"
	pathTakeMsg   = "escrow/take"
	pathRefundMsg = "escrow/refund"
)

var (
	_ loom.Msg = (*MakeMsg)(nil)
	_ loom.Msg = (*TakeMsg)(nil)
	_ loom.Msg = (*RefundMsg)(nil)
)

// MakeMsg opens an escrow: Deposit is locked until a taker pays
// ReceiveAmount to the maker.
type MakeMsg struct {
	Metadata *loom.Metadata `json:"metadata"`
	// Maker defaults to the main signer.
	Maker         loom.Address `json:"maker,omitempty"`
	Seed          uint64       `json:"seed"`
	ReceiveAmount *coin.Coin   `json:"receive_amount"`
	Deposit       *coin.Coin   `json:"deposit"`
}

func (MakeMsg) Path() string {
	return pathMakeMsg
}

func (m *MakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if m.Maker != nil {
		if err := m.Maker.Validate(); err != nil {
			return errors.Wrap(err, "maker")
		}
	}
	if err := m.ReceiveAmount.ValidatePositive(); err != nil {
		return errors.Wrap(err, "receive amount")
	}
	if err := m.Deposit.ValidatePositive(); err != nil {
		return errors.Wrap(err, "deposit")
	}
	return nil
}

func (m *MakeMsg) Marshal() ([]byte, error) {
	return loom.Marshal(m)
}

func (m *MakeMsg) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, m)
}

// TakeMsg completes the escrow of given maker and seed.
type TakeMsg struct {
	Metadata *loom.Metadata `json:"metadata"`
	Maker    loom.Address   `json:"maker"`
	Seed     uint64         `json:"seed"`
	// Taker defaults to the main signer.
	Taker loom.Address `json:"taker,omitempty"`
}

func (TakeMsg) Path() string {
	return pathTakeMsg
}

func (m *TakeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if m.Taker != nil {
		if err := m.Taker.Validate(); err != nil {
			return errors.Wrap(err, "taker")
		}
	}
	return nil
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	return loom.Marshal(m)
}

func (m *TakeMsg) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, m)
}

// RefundMsg returns the deposit of an escrow to its maker.
type RefundMsg struct {
	Metadata *loom.Metadata `json:"metadata"`
	Maker    loom.Address   `json:"maker"`
	Seed     uint64         `json:"seed"`
}

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m *RefundMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	return nil
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	return loom.Marshal(m)
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, m)
}
