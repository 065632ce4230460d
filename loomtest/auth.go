package loomtest

import (
	"context"
	"fmt"

	"github.com/tradeloom/loom"
)

// Auth authenticates a fixed set of conditions. Signer, when set, is
// reported before Signers.
type Auth struct {
	Signer  loom.Condition
	Signers []loom.Condition
}

func (a *Auth) GetConditions(loom.Context) []loom.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	conds := make([]loom.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signer)
	return append(conds, a.Signers...)
}

func (a *Auth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	return anyControls(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context under Key.
type CtxAuth struct {
	Key string
}

// SetConditions returns a child context authenticating conds.
func (a *CtxAuth) SetConditions(ctx loom.Context, conds ...loom.Condition) loom.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx loom.Context) []loom.Condition {
	switch v := ctx.Value(a.Key).(type) {
	case nil:
		return nil
	case []loom.Condition:
		return v
	default:
		panic(fmt.Sprintf("context key %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	return anyControls(a.GetConditions(ctx), addr)
}

func anyControls(conds []loom.Condition, addr loom.Address) bool {
	for _, c := range conds {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
