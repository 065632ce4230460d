package sigs

import (
	"github.com/tradeloom/loom"
	"github.com/tradeloom/loom/errors"
)

// Gas charged in CheckTx for every valid signature.
const signatureVerifyCost = 500

// Decorator verifies the signatures of a SignedTx against the chain id
// and the signer sequences. The verified signers are exposed to the rest
// of the chain through Authenticate.
type Decorator struct {
	allowMissingSigs bool
}

var _ loom.Decorator = Decorator{}

// NewDecorator returns a Decorator rejecting transactions without a
// valid signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy that lets unsigned transactions through
// with no signers.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

func (d Decorator) Check(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Checker) (*loom.CheckResult, error) {
	signers, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(withSigners(ctx, signers), db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(signatureVerifyCost * len(signers))
	return res, nil
}

func (d Decorator) Deliver(ctx loom.Context, db loom.KVStore, tx loom.Tx, next loom.Deliverer) (*loom.DeliverResult, error) {
	signers, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(withSigners(ctx, signers), db, tx)
}

// verify returns the signers of tx. Transactions that do not carry
// signatures have none.
func (d Decorator) verify(ctx loom.Context, db loom.KVStore, tx loom.Tx) ([]loom.Condition, error) {
	var signers []loom.Condition
	if signed, ok := tx.(SignedTx); ok {
		var err error
		if signers, err = VerifyTxSignatures(db, signed, loom.GetChainID(ctx)); err != nil {
			return nil, errors.Wrap(err, "verify signatures")
		}
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return nil, errors.Wrap(errors.ErrUnauthorized, "transaction is not signed")
	}
	return signers, nil
}
