package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/coin"
	"github.com/tradeloom/loom/commands/server"
	"github.com/tradeloom/loom/crypto"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/x/cash"
)

const (
	defaultTicker = "LMT"
	devSupply     = "123456789"
	devRent       = "0.001"
)

// devGenesis is the app_state written by "loomd init".
type devGenesis struct {
	Cash []cash.GenesisAccount `json:"cash"`
	Conf struct {
		Escrow devEscrowConf `json:"escrow"`
	} `json:"conf"`
	Escrow []json.RawMessage `json:"escrow"`
}

type devEscrowConf struct {
	Metadata   loom.Metadata `json:"metadata"`
	RecordRent string        `json:"record_rent"`
	VaultRent  string        `json:"vault_rent"`
}

// GenInitOptions returns the app_state of a development chain with a
// single funded account.
//
// Arguments are an optional ticker and an optional address to fund.
// Without an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := defaultTicker
	if len(args) > 0 {
		ticker = args[0]
	}
	supply, err := coin.ParseHumanFormat(devSupply + " " + ticker)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCurrency, "ticker %q", ticker)
	}

	var owner loom.Address
	if len(args) > 1 {
		if owner, err = loom.ParseAddress(args[1]); err != nil {
			return nil, err
		}
	} else {
		var keys string
		if owner, keys, err = GenerateCoinKey(); err != nil {
			return nil, err
		}
		fmt.Println(keys)
	}

	var gen devGenesis
	gen.Cash = []cash.GenesisAccount{{Address: owner, Coins: coin.Coins{&supply}}}
	gen.Conf.Escrow = devEscrowConf{
		Metadata:   loom.Metadata{Schema: 1},
		RecordRent: devRent + " " + ticker,
		VaultRent:  devRent + " " + ticker,
	}
	gen.Escrow = []json.RawMessage{}
	return json.MarshalIndent(gen, "", "  ")
}

// GenerateApp builds the loomd application for "loomd start". The state
// lives in loomd.db under the home directory, or in memory when no home
// is given.
func GenerateApp(options *server.Options) (abci.Application, error) {
	stack, err := Stack(options.Registry)
	if err != nil {
		return nil, err
	}
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "loomd.db")
	}
	node, err := Application("loomd", stack, TxDecoder, dbPath, options.Debug)
	if err != nil {
		return nil, err
	}
	node.WithInit(Initializers())
	node.WithLogger(options.Logger)
	return node, nil
}

// GenerateCoinKey creates a key pair and returns its address with the
// keys encoded as JSON, ready to be imported by a client.
func GenerateCoinKey() (loom.Address, string, error) {
	secret := crypto.GenPrivKeyEd25519()
	keys := struct {
		Pubkey *crypto.PublicKey  `json:"pub_key"`
		Secret *crypto.PrivateKey `json:"secret"`
	}{
		Pubkey: secret.PublicKey(),
		Secret: secret,
	}
	raw, err := json.MarshalIndent(keys, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return keys.Pubkey.Address(), string(raw), nil
}
