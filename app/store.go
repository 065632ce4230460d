package app

import (
	"fmt"
	"strings"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// StoreApp is the part of an ABCI application that owns the state: the
// committed store, genesis initialization, queries and block bookkeeping.
// Embed it and add CheckTx and DeliverTx to get a full application.
//
// InitChain and Commit cannot report errors to tendermint, a failure in
// either of them panics.
type StoreApp struct {
	logger log.Logger

	// name is reported by Info.
	name  string
	store *CommitStore

	initializer loom.Initializer
	queryRouter loom.QueryRouter

	// chainID is set once by genesis and persisted.
	chainID string

	// baseContext holds values valid for the lifetime of the app.
	baseContext loom.Context
	// blockContext extends baseContext with the current block header and
	// height. It is replaced on every BeginBlock.
	blockContext loom.Context
}

// NewStoreApp loads the application state from the given store. It panics
// when the state cannot be read.
func NewStoreApp(name string, store loom.CommitKVStore, queryRouter loom.QueryRouter, baseContext loom.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(store),
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	if s.chainID = mustLoadChainID(s.DeliverStore()); s.chainID != "" {
		s.baseContext = loom.WithChainID(s.baseContext, s.chainID)
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = loom.WithHeight(s.baseContext, info.Version)
	return s
}

// GetChainID returns the chain id set by genesis, empty before InitChain.
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets the initializer that InitChain runs on the genesis state.
func (s *StoreApp) WithInit(init loom.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger of the app and of every request context.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = loom.WithLogger(s.baseContext, logger)
	s.logger = logger
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the current block.
func (s *StoreApp) BlockContext() loom.Context {
	return s.blockContext
}

// DeliverStore returns the store that DeliverTx writes to.
func (s *StoreApp) DeliverStore() loom.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the store that CheckTx writes to.
func (s *StoreApp) CheckStore() loom.CacheableKVStore {
	return s.store.CheckStore()
}

// Info reports the last committed height and app hash so that tendermint
// can replay the missing blocks.
func (s *StoreApp) Info(req abci.RequestInfo) abci.ResponseInfo {
	info, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("Info synced", "height", info.Version, "hash", fmt.Sprintf("%X", info.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		Version:          loom.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported, all configuration comes from genesis.
func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

/*
Query reads from the last committed state. The path selects a registered
query handler, for example "/escrows". Appending "?prefix" turns a key
lookup into a prefix scan. Only the latest height, or 0, can be queried.

Both Key and Value of the response are serialized ResultSets of the same
length, one entry per matched model.
*/
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	handler := s.queryRouter.Handler(path)
	if handler == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	if req.Height != 0 && req.Height != info.Version {
		return queryError(errors.Wrap(errors.ErrInput, "only the latest height can be queried"))
	}

	db := s.store.committed.CacheWrap()
	defer db.Discard()
	models, err := handler.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath separates the query modifier following "?" from the path.
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// Commit persists the state of all delivered transactions.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("Commit synced", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

// InitChain stores the chain id and passes the genesis app state to the
// initializer. It can succeed only once per chain.
func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.parseAppState(req.AppStateBytes, req.ChainId, s.initializer); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock starts a new block context holding the header and height.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := loom.WithHeader(s.baseContext, req.Header)
	s.blockContext = loom.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing, the validator set never changes.
func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
