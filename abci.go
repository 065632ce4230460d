package loom

import (
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tradeloom/loom/errors"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are reported through the error return instead.
type DeliverResult struct {
	// Data is a machine readable result, like the key of a created record.
	Data []byte
	// Log is a human readable summary.
	Log string
	// Tags are indexed by tendermint and allow searching the transaction
	// history.
	Tags    []common.KVPair
	GasUsed int64
}

// ToABCI converts the result into a tendermint response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a successfully checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the most work the transaction may perform.
	GasAllocated int64
	// GasPayment is the work charged so far. Decorators add their share
	// on the way back up the stack.
	GasPayment int64
}

// NewCheck returns a result allocating the given gas.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

// ToABCI converts the result into a tendermint response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
		GasUsed:   c.GasPayment,
	}
}

// DeliverOrError builds the DeliverTx response from a handler result.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError builds the CheckTx response from a handler result.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError reports err in a DeliverTx response. Details of
// unregistered errors are only included in debug mode.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = "cannot deliver tx: " + log
	}
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError reports err in a CheckTx response. Details of unregistered
// errors are only included in debug mode.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	if code != errors.SuccessABCICode {
		log = "cannot check tx: " + log
	}
	return abci.ResponseCheckTx{Code: code, Log: log}
}

// ParseDeliverOrError reverses DeliverOrError. A failed response is
// returned as an error of the registered kind.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// Tag builds an indexable key value pair.
func Tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}
