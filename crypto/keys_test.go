package crypto

import (
	"bytes"
	"testing"

	"github.com/tradeloom/loom/loomtest/assert"
)

func TestSignAndVerify(t *testing.T) {
	key := GenPrivKeyEd25519()
	other := GenPrivKeyEd25519()

	make1 := []byte("make escrow 1")
	take1 := []byte("take escrow 1")

	makeSig, err := key.Sign(make1)
	assert.Nil(t, err)
	takeSig, err := key.Sign(take1)
	assert.Nil(t, err)
	foreignSig, err := other.Sign(make1)
	assert.Nil(t, err)

	raw, err := makeSig.Marshal()
	assert.Nil(t, err)
	var decoded Signature
	assert.Nil(t, decoded.Unmarshal(raw))

	cases := map[string]struct {
		pub  *PublicKey
		msg  []byte
		sig  *Signature
		want bool
	}{
		"own message":              {pub: key.PublicKey(), msg: make1, sig: makeSig, want: true},
		"second message":           {pub: key.PublicKey(), msg: take1, sig: takeSig, want: true},
		"decoded signature":        {pub: key.PublicKey(), msg: make1, sig: &decoded, want: true},
		"signature of another msg": {pub: key.PublicKey(), msg: make1, sig: takeSig},
		"signature of another key": {pub: key.PublicKey(), msg: make1, sig: foreignSig},
		"empty signature":          {pub: key.PublicKey(), msg: make1, sig: &Signature{}},
		"nil signature":            {pub: key.PublicKey(), msg: make1, sig: nil},
		"empty public key":         {pub: &PublicKey{}, msg: make1, sig: makeSig},
		"nil public key":           {pub: nil, msg: make1, sig: makeSig},
		"short signature":          {pub: key.PublicKey(), msg: make1, sig: &Signature{Ed25519: []byte("short")}},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.pub.Verify(tc.msg, tc.sig))
		})
	}
}

func TestSignWithInvalidKey(t *testing.T) {
	for name, key := range map[string]*PrivateKey{
		"empty": {},
		"short": {Ed25519: []byte{1, 2, 3}},
		"nil":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			sig, err := key.Sign([]byte("payload"))
			if err == nil {
				t.Fatalf("want an error, got signature %v", sig)
			}
		})
	}
}

func TestPublicKeyCondition(t *testing.T) {
	first := GenPrivKeyEd25519().PublicKey()
	second := GenPrivKeyEd25519().PublicKey()

	assert.Nil(t, first.Condition().Validate())
	assert.Nil(t, first.Address().Validate())
	if bytes.Equal(first.Condition(), second.Condition()) {
		t.Fatal("distinct keys share a condition")
	}
	if first.Address().Equals(second.Address()) {
		t.Fatal("distinct keys share an address")
	}

	var empty PublicKey
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	raw, err := first.Marshal()
	assert.Nil(t, err)
	var decoded PublicKey
	assert.Nil(t, decoded.Unmarshal(raw))
	assert.Equal(t, first.Address(), decoded.Address())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	zeroSeed := make([]byte, 32)
	fillSeed := bytes.Repeat([]byte{31}, 32)

	cases := map[string]struct {
		seed    []byte
		wantPub []byte
	}{
		"zero seed": {
			seed:    zeroSeed,
			wantPub: []byte{59, 106, 39, 188, 206, 182, 164, 45, 98, 163, 168, 208, 42, 111, 13, 115, 101, 50, 21, 119, 29, 226, 67, 166, 58, 192, 72, 161, 139, 89, 218, 41},
		},
		"repeated byte seed": {
			seed:    fillSeed,
			wantPub: []byte{67, 4, 107, 254, 64, 146, 179, 233, 73, 148, 234, 218, 21, 220, 194, 13, 138, 170, 7, 182, 88, 253, 57, 84, 235, 142, 14, 251, 139, 220, 165, 222},
		},
		"missing seed": {
			seed: nil,
		},
		"seed too short": {
			seed: []byte{0},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantPub == nil {
				assert.Panics(t, func() { PrivKeyEd25519FromSeed(tc.seed) })
				return
			}
			key := PrivKeyEd25519FromSeed(tc.seed)
			assert.Equal(t, append(append([]byte{}, tc.seed...), tc.wantPub...), key.Ed25519)
			assert.Equal(t, tc.wantPub, key.PublicKey().Ed25519)
		})
	}
}
