package loomtest

import (
	"crypto/rand"
	"testing"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/crypto"
)

// NewKey returns a fresh ed25519 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a fresh key.
func NewCondition() loom.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns an address not controlled by any known key.
func RandomAddr(t testing.TB) loom.Address {
	t.Helper()
	addr := make(loom.Address, loom.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		t.Fatalf("read random bytes: %s", err)
	}
	if err := addr.Validate(); err != nil {
		t.Fatalf("random address: %s", err)
	}
	return addr
}
