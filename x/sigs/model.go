package sigs

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/crypto"
	"github.com/tradeloom/loom/errors"
	"github.com/tradeloom/loom/orm"
)

// BucketName is the bucket of signer accounts.
const BucketName = "sigs"

// maxSequenceValue is 2^53-1, the largest integer a JavaScript client
// represents exactly.
const maxSequenceValue = 1<<53 - 1

// UserData holds the public key of a signer and the sequence its next
// signature must carry. It is stored under the key address.
type UserData struct {
	Metadata *loom.Metadata
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	errs := errors.Wrap(u.Metadata.Validate(), "metadata")
	switch {
	case u.Sequence < 0:
		errs = errors.Append(errs, errors.Wrap(ErrInvalidSequence, "negative"))
	case u.Sequence > 0 && u.Pubkey == nil:
		errs = errors.Append(errs, errors.Wrap(ErrInvalidSequence, "used sequence without a public key"))
	}
	return errs
}

func (u *UserData) Marshal() ([]byte, error) { return loom.Marshal(u) }

func (u *UserData) Unmarshal(raw []byte) error { return loom.Unmarshal(raw, u) }

// CheckAndIncrementSequence consumes the expected sequence. It fails if
// expected is not the current sequence.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if expected != u.Sequence {
		return errors.Wrapf(ErrInvalidSequence, "want %d, got %d", u.Sequence, expected)
	}
	if u.Sequence >= maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	u.Sequence++
	return nil
}

// NewBucket returns the bucket of signer accounts.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// RegisterQuery exposes the accounts under /auth.
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// loadOrCreate returns the account of pubkey, or a fresh one at sequence
// zero.
func loadOrCreate(db loom.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	err := b.One(db, pubkey.Address(), &user)
	if errors.ErrNotFound.Is(err) {
		return &UserData{Metadata: &loom.Metadata{Schema: 1}, Pubkey: pubkey}, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// NextNonce returns the sequence the next signature of signer must use.
func NextNonce(db loom.ReadOnlyKVStore, signer loom.Address) (int64, error) {
	var user UserData
	err := NewBucket().One(db, signer, &user)
	if errors.ErrNotFound.Is(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "load signer")
	}
	return user.Sequence, nil
}
