package errors

import "fmt"

const (
	// SuccessABCICode is the code of a successful ABCI response.
	SuccessABCICode = 0

	// Errors without a registered root error are all reported with this
	// code and, outside of debug mode, a generic log.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log for an ABCI response. Unregistered
// errors and recovered panics reveal their message only in debug mode.
func ABCIInfo(err error, debug bool) (uint32, string) {
	switch code := abciCode(err); {
	case code == SuccessABCICode:
		return SuccessABCICode, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode || ErrPanic.Is(err):
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// ABCIError turns a code and log received in an ABCI response back into
// an error. A registered code is mapped to its root error so that Is works
// on errors returned by a remote node.
func ABCIError(code uint32, log string) error {
	if e := usedCodes[code]; e != nil {
		return Wrap(e, log)
	}
	return &Error{code: code, desc: log}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the chain that has one.
func abciCode(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}
