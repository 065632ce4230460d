package crypto

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is the extension part of signature conditions.
const ExtensionName = "sigs"

// PubKey checks signatures and names the condition they fulfil.
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() loom.Condition
}

// Signer signs on behalf of a key it may not expose, such as a hardware
// wallet.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte
}

// PrivateKey is an ed25519 private key: the seed followed by the public
// key.
type PrivateKey struct {
	Ed25519 []byte
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte
}

var (
	_ PubKey = (*PublicKey)(nil)
	_ Signer = (*PrivateKey)(nil)
)

// Verify is false for malformed keys and signatures.
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	switch {
	case p == nil, len(p.Ed25519) != ed25519.PublicKeySize:
		return false
	case sig == nil, len(sig.Ed25519) != ed25519.SignatureSize:
		return false
	}
	return ed25519.Verify(p.Ed25519, message, sig.Ed25519)
}

// Condition is sigs/ed25519/<key>, or nil for an empty key.
func (p *PublicKey) Condition() loom.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return loom.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the key condition.
func (p *PublicKey) Address() loom.Address {
	return p.Condition().Address()
}

func (p *PublicKey) Marshal() ([]byte, error)   { return loom.Marshal(p) }
func (p *PublicKey) Unmarshal(raw []byte) error { return loom.Unmarshal(raw, p) }

func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if p == nil || len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrType, "malformed ed25519 private key")
	}
	return &Signature{Ed25519: ed25519.Sign(p.Ed25519, message)}, nil
}

// PublicKey returns the key stored in the second half of the private key.
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, p.Ed25519[ed25519.PrivateKeySize-ed25519.PublicKeySize:])
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error)   { return loom.Marshal(p) }
func (p *PrivateKey) Unmarshal(raw []byte) error { return loom.Unmarshal(raw, p) }

func (s *Signature) Marshal() ([]byte, error)   { return loom.Marshal(s) }
func (s *Signature) Unmarshal(raw []byte) error { return loom.Unmarshal(raw, s) }

// GenPrivKeyEd25519 returns a key read from crypto/rand.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed derives a key from a 32 byte seed. It panics on
// any other seed length.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}
