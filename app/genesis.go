package app

import (
	"encoding/json"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// parseAppState is called from InitChain, the first time the chain
// starts, and not on restarts.
func (s *StoreApp) parseAppState(data []byte, chainID string, init loom.Initializer) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "appState previously loaded for chain: %s", s.chainID)
	}
	if len(data) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state not set in genesis.json, please initialize application before launching the blockchain")
	}
	if init == nil {
		return errors.Wrap(errors.ErrState, "initializer not set")
	}

	var appState loom.Options
	if err := json.Unmarshal(data, &appState); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	if err := s.storeChainID(chainID); err != nil {
		return err
	}

	return init.FromGenesis(appState, s.DeliverStore())
}

// store chainID and update context
func (s *StoreApp) storeChainID(chainID string) error {
	if err := saveChainID(s.DeliverStore(), chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = loom.WithChainID(s.baseContext, s.chainID)
	s.blockContext = loom.WithChainID(s.blockContext, s.chainID)
	return nil
}
