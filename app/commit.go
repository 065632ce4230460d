package app

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// CommitStore keeps two cache layers over the committed state: one for
// transactions being delivered in the current block and one for mempool
// checks. Both are replaced after every commit.
type CommitStore struct {
	committed loom.CommitKVStore
	deliver   loom.KVCacheWrap
	check     loom.KVCacheWrap
}

// NewCommitStore loads the latest version of the committed state. It
// panics when the state cannot be loaded.
func NewCommitStore(committed loom.CommitKVStore) *CommitStore {
	if err := committed.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: committed}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the latest commit.
func (cs *CommitStore) CommitInfo() (loom.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the delivered changes. Pending check changes are
// dropped.
func (cs *CommitStore) Commit() (loom.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return loom.CommitID{}, errors.Wrap(err, "write deliver cache")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit state")
	}
	cs.reset()
	return id, nil
}

// CheckStore is used by CheckTx.
func (cs *CommitStore) CheckStore() loom.CacheableKVStore { return cs.check }

// DeliverStore is used by DeliverTx and InitChain.
func (cs *CommitStore) DeliverStore() loom.CacheableKVStore { return cs.deliver }

// Keys prefixed with _lm: are reserved for the framework.
const chainIDKey = "_lm:chainID"

// mustLoadChainID returns the stored chain id, or an empty string before
// genesis.
func mustLoadChainID(kv loom.ReadOnlyKVStore) string {
	raw, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID stores the chain id once.
func saveChainID(kv loom.KVStore, chainID string) error {
	if !loom.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	key := []byte(chainIDKey)
	switch exists, err := kv.Has(key); {
	case err != nil:
		return errors.Wrap(err, "read chain id")
	case exists:
		return errors.Wrap(errors.ErrImmutable, "chain id already set")
	}
	return errors.Wrap(kv.Set(key, []byte(chainID)), "write chain id")
}
