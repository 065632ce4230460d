package sigs

import (
	"context"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/x"
)

type signersKey struct{}

// withSigners is only called by the Decorator, after verification.
func withSigners(ctx loom.Context, signers []loom.Condition) loom.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate reports the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the verified signers, possibly none.
func (Authenticate) GetConditions(ctx loom.Context) []loom.Condition {
	signers, _ := ctx.Value(signersKey{}).([]loom.Condition)
	return signers
}

// HasAddress returns true if a verified signer controls addr.
func (a Authenticate) HasAddress(ctx loom.Context, addr loom.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
