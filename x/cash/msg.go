package cash

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
)

// Ensure we implement the Msg interface
var _ loom.Msg = (*SendMsg)(nil)

const (
	pathSendMsg = "cash/send"

	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg moves the amount from the source wallet to the destination wallet.
type SendMsg struct {
	Metadata    *loom.Metadata `json:"metadata"`
	Source      loom.Address   `json:"source"`
	Destination loom.Address   `json:"destination"`
	Amount      *coin.Coin     `json:"amount"`
	Memo        string         `json:"memo,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	var err error
	err = errors.Append(err, errors.Wrap(s.Metadata.Validate(), "metadata"))
	err = errors.Append(err, errors.Wrap(s.Amount.ValidatePositive(), "amount"))
	err = errors.Append(err, errors.Wrap(s.Source.Validate(), "source"))
	err = errors.Append(err, errors.Wrap(s.Destination.Validate(), "destination"))
	if len(s.Memo) > maxMemoSize {
		err = errors.Append(err, errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return err
}

func (s *SendMsg) Marshal() ([]byte, error) {
	return loom.Marshal(s)
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, s)
}
