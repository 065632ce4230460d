package loom

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/tradeloom/loom/errors"
)

const (
	// DerivedType is the condition type of every derived authority.
	DerivedType = "derived"

	// MaxSeeds is the maximum number of seeds a derivation can use.
	MaxSeeds = 16

	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivationMarker = "loom-derived-authority"
)

// Derivation is a keyless authority owned by an extension. The address is
// computed from the seeds, a bump nonce and the owner extension name. The
// digest behind the address is never a valid ed25519 public key, so no
// private key can sign for it and only the owning extension can move value
// out of it.
//
// The bump is found once, when the authority is created, and stored next
// to the data it protects. Every later use must reproduce the address from
// the stored bump with ReproduceAndVerify.
type Derivation struct {
	Extension string
	Seeds     [][]byte
	Bump      uint8
}

// FindDerivation searches for the canonical bump of the given seeds: the
// highest value in 255..0 that yields a digest off the ed25519 curve.
func FindDerivation(ext string, seeds ...[]byte) (Derivation, error) {
	if err := validateSeeds(seeds); err != nil {
		return Derivation{}, err
	}
	for bump := 255; bump >= 0; bump-- {
		d := Derivation{Extension: ext, Seeds: seeds, Bump: uint8(bump)}
		if _, ok := d.digest(); ok {
			return d, nil
		}
	}
	// Each candidate is off the curve with roughly 1/2 probability.
	return Derivation{}, errors.Wrap(errors.ErrState, "no viable bump")
}

// Condition returns the condition representing this authority. It fails
// when the bump produces a digest on the ed25519 curve.
func (d Derivation) Condition() (Condition, error) {
	if err := validateSeeds(d.Seeds); err != nil {
		return nil, err
	}
	digest, ok := d.digest()
	if !ok {
		return nil, errors.Wrapf(errors.ErrDerivationMismatch, "bump %d is not viable", d.Bump)
	}
	return NewCondition(d.Extension, DerivedType, digest), nil
}

// Address returns the address of this authority.
func (d Derivation) Address() (Address, error) {
	c, err := d.Condition()
	if err != nil {
		return nil, err
	}
	return c.Address(), nil
}

// ReproduceAndVerify recomputes the address from the seeds and the stored
// bump and ensures it is the expected one.
func (d Derivation) ReproduceAndVerify(want Address) error {
	got, err := d.Address()
	if err != nil {
		return errors.Wrap(errors.ErrDerivationMismatch, err.Error())
	}
	if !got.Equals(want) {
		return errors.Wrapf(errors.ErrDerivationMismatch,
			"bump %d reproduces %s, want %s", d.Bump, got, want)
	}
	return nil
}

// IsCanonical returns true if the bump is the one FindDerivation returns for
// the same seeds.
func (d Derivation) IsCanonical() bool {
	c, err := FindDerivation(d.Extension, d.Seeds...)
	return err == nil && c.Bump == d.Bump
}

func (d Derivation) digest() ([]byte, bool) {
	h := sha256.New()
	for _, s := range d.Seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{d.Bump})
	_, _ = h.Write([]byte(d.Extension))
	_, _ = h.Write([]byte(derivationMarker))
	sum := h.Sum(nil)
	if isOnCurve(sum) {
		return nil, false
	}
	return sum, true
}

// isOnCurve returns true if the 32 bytes are a valid encoding of an ed25519
// point.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

// SeedUint64 encodes a number as an 8 byte little endian seed.
func SeedUint64(n uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, n)
	return b
}
