package sigs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/crypto"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/store"
)

func TestSignBytes(t *testing.T) {
	cases := map[string]struct {
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"valid":            {chainID: "test-chain", seq: 17},
		"negative seq":     {chainID: "test-chain", seq: -1, wantErr: ErrInvalidSequence},
		"invalid chain id": {chainID: "a", seq: 1, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bz, err := BuildSignBytes([]byte("payload"), tc.chainID, tc.seq)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
			if tc.wantErr == nil {
				assert.Len(t, bz, 64)
			}
		})
	}

	a, err := BuildSignBytes([]byte("payload"), "test-chain", 1)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("payload"), "test-chain", 2)
	require.NoError(t, err)
	c, err := BuildSignBytes([]byte("payload"), "other-chain", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestVerifySignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "test-chain"
	priv := crypto.GenPrivKeyEd25519()
	other := crypto.GenPrivKeyEd25519()
	addr := priv.PublicKey().Address()

	tx := NewStdTx([]byte("one"))

	seq, err := NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 0, seq)

	sig, err := SignTx(priv, tx, chainID, seq)
	require.NoError(t, err)
	otherSig, err := SignTx(other, tx, chainID, 0)
	require.NoError(t, err)

	// Signed for another chain.
	wrongChain, err := SignTx(priv, tx, "another-chain", 0)
	require.NoError(t, err)
	tx.Signatures = []*StdSignature{wrongChain}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// A public key that did not produce the signature.
	tx.Signatures = []*StdSignature{{Pubkey: other.PublicKey(), Signature: sig.Signature}}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	tx.Signatures = []*StdSignature{sig, otherSig}
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, []loom.Condition{priv.PublicKey().Condition(), other.PublicKey().Condition()}, signers)

	seq, err = NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 1, seq)

	// The sequence is now stored and exposed by the auth query.
	qr := loom.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/auth").Query(kv, loom.KeyQueryMod, addr)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var user UserData
	require.NoError(t, user.Unmarshal(res[0].Value))
	assert.EqualValues(t, 1, user.Sequence)
	assert.Equal(t, priv.PublicKey().Condition(), user.Pubkey.Condition())
}

func TestMissingSignatureParts(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	sig, err := SignTx(priv, NewStdTx([]byte("x")), "test-chain", 0)
	require.NoError(t, err)

	cases := map[string]*StdSignature{
		"no pubkey":    {Signature: sig.Signature},
		"no signature": {Pubkey: sig.Pubkey},
	}
	for testName, s := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := loom.WithChainID(context.Background(), "test-chain")
			_, err := VerifySignature(store.MemStore(), s, []byte("x"), loom.GetChainID(ctx))
			assert.True(t, errors.ErrUnauthorized.Is(err))
		})
	}
}
