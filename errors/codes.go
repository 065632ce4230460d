package errors

// Root errors shared by all extensions. Codes must stay stable, clients
// match on them.
var (
	// ErrUnauthorized is returned when the signers of a transaction are not
	// allowed to perform the action.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrMsg is returned for a message that cannot be handled.
	ErrMsg = Register(4, "invalid message")

	// ErrModel is returned for a model that cannot be persisted.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a unique key or index is already taken.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman marks a code path that correct code never reaches.
	ErrHuman = Register(7, "coding error")

	// ErrImmutable is returned on an attempt to change a write once value.
	ErrImmutable = Register(8, "cannot be modified")

	// ErrEmpty is returned when a required value is missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned for an object in an inconsistent state.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected type.
	ErrType = Register(11, "invalid type")

	// ErrInsufficientFunds is returned when an account or vault does not
	// hold the amount it has to pay out.
	ErrInsufficientFunds = Register(12, "insufficient funds")

	// ErrAmount is returned for a malformed or out of range amount.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is the generic malformed input error.
	ErrInput = Register(14, "invalid input")

	// ErrCurrency is returned for a malformed ticker or when amounts of
	// different currencies are combined.
	ErrCurrency = Register(15, "invalid currency code")

	// ErrOverflow is returned when a result does not fit its type.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrDatabase is returned when a store operation fails.
	ErrDatabase = Register(17, "database")

	// ErrDerivationMismatch is returned when a derived address cannot be
	// reproduced from its stored seeds and bump.
	ErrDerivationMismatch = Register(18, "derivation mismatch")

	// ErrSchema is returned when the stored schema version does not match
	// the one the code understands.
	ErrSchema = Register(19, "invalid schema version")

	// ErrPanic wraps a recovered panic. Its details are never exposed
	// outside of debug mode.
	ErrPanic = Register(111222, "panic")
)
