package escrow

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/gconf"
)

const confKey = "escrow"

// Configuration is the rent a maker pays when making an escrow. It is
// returned when the escrow is taken or refunded.
type Configuration struct {
	Metadata   *loom.Metadata `json:"metadata"`
	RecordRent coin.Coin      `json:"record_rent"`
	VaultRent  coin.Coin      `json:"vault_rent"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateRent(&c.RecordRent); err != nil {
		return errors.Wrap(err, "record rent")
	}
	if err := validateRent(&c.VaultRent); err != nil {
		return errors.Wrap(err, "vault rent")
	}
	return nil
}

func (c *Configuration) Marshal() ([]byte, error) {
	return loom.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return loom.Unmarshal(raw, c)
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confKey, &conf); err != nil {
		return nil, errors.Wrap(err, "escrow configuration")
	}
	return &conf, nil
}
