package x

import (
	"github.com/tradeloom/loom"
)

// Authenticator reports who authorized the current transaction. Handlers
// receive one in their constructor so that the signature scheme stays
// pluggable.
type Authenticator interface {
	// GetConditions returns every condition fulfilled by the
	// transaction.
	GetConditions(loom.Context) []loom.Condition
	// HasAddress returns true if any fulfilled condition controls the
	// address.
	HasAddress(loom.Context, loom.Address) bool
}

// MultiAuth combines several Authenticators, a condition fulfilled in any
// of them counts.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// ChainAuth combines the given Authenticators. Their order decides the
// order of the returned conditions, and with it the main signer.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of all Authenticators. A condition
// reported more than once is returned at its first position only.
func (m MultiAuth) GetConditions(ctx loom.Context) []loom.Condition {
	var res []loom.Condition
	seen := make(map[string]bool)
	for _, auth := range m {
		for _, c := range auth.GetConditions(ctx) {
			if !seen[string(c)] {
				seen[string(c)] = true
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true if any Authenticator has the address.
func (m MultiAuth) HasAddress(ctx loom.Context, addr loom.Address) bool {
	for _, auth := range m {
		if auth.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all fulfilled conditions.
func GetAddresses(ctx loom.Context, auth Authenticator) []loom.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]loom.Address, 0, len(conds))
	for _, c := range conds {
		addrs = append(addrs, c.Address())
	}
	return addrs
}

// MainSigner returns the first fulfilled condition, or nil when the
// transaction is not signed.
func MainSigner(ctx loom.Context, auth Authenticator) loom.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}
