package sigs

import (
	"bytes"
	"crypto/sha512"
	"encoding/binary"

	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/crypto"
	"github.com/tradeloom/loom/errors"
)

// SignCodeV1 prefixes the signed payload and versions its layout.
var SignCodeV1 = []byte{0, 0x10, 0x0A, 0}

// VerifyTxSignatures verifies every signature of the transaction and
// returns the signer conditions in signature order. The sequence of each
// signer is incremented in the store.
func VerifyTxSignatures(store loom.KVStore, tx SignedTx, chainID string) ([]loom.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	var signers []loom.Condition
	for _, sig := range tx.GetSignatures() {
		signer, err := VerifySignature(store, sig, payload, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature of the payload and, when it is
// valid, stores the incremented sequence of the signer.
func VerifySignature(db loom.KVStore, sig *StdSignature, payload []byte, chainID string) (loom.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	bucket := NewBucket()
	user, err := loadOrCreate(db, bucket, sig.Pubkey)
	if err != nil {
		return nil, err
	}

	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

/*
BuildSignBytes returns the digest that is signed for a transaction:

	sha512(SignCodeV1 | uint8 len(chainID) | chainID | int64 big endian seq | payload)

Binding the chain id and the sequence prevents replaying a signature on
another chain or twice on the same one.
*/
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !loom.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	var buf bytes.Buffer
	buf.Write(SignCodeV1)
	buf.WriteByte(uint8(len(chainID)))
	buf.WriteString(chainID)
	_ = binary.Write(&buf, binary.BigEndian, seq)
	buf.Write(payload)

	digest := sha512.Sum512(buf.Bytes())
	return digest[:], nil
}

// SignTx signs the transaction for the given chain and sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
