package utils

import (
	"bytes"
	"strings"

	"github.com/tendermint/tendermint/libs/common"
	"github.com/tradeloom/loom"
)

const (
	// ActionKey tags a delivered transaction with its message path, for
	// example action=escrow/take.
	ActionKey = "action"
	// ModuleKey tags it with the extension that handled it, for example
	// module=escrow, so clients can subscribe to all escrow transactions.
	ModuleKey = "module"
)

// ActionTagger appends the action and module tags to every successful
// delivery. Tags the handler already set under those keys are kept and
// not repeated.
type ActionTagger struct{}

var _ loom.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver fails before calling the handler when the message cannot be
// decoded.
func (ActionTagger) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	path := msg.Path()
	module := path
	if i := strings.IndexByte(path, '/'); i > 0 {
		module = path[:i]
	}
	res.Tags = appendMissing(res.Tags, loom.Tag(ActionKey, path), loom.Tag(ModuleKey, module))
	return res, nil
}

func appendMissing(tags []common.KVPair, add ...common.KVPair) []common.KVPair {
	for _, a := range add {
		if !hasKey(tags, a.Key) {
			tags = append(tags, a)
		}
	}
	return tags
}

func hasKey(tags []common.KVPair, key []byte) bool {
	for _, t := range tags {
		if bytes.Equal(t.Key, key) {
			return true
		}
	}
	return false
}
