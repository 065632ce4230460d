package escrow

import "github.com/tradeloom/loom/errors"

// escrow takes 1010-1020
var (
	// ErrDuplicateEscrow is returned when an escrow already exists for the
	// maker and seed, or its vault already holds funds.
	ErrDuplicateEscrow = errors.Register(1010, "duplicate escrow")

	// ErrRecordNotFound is returned when no escrow exists for the maker and
	// seed, including when it was already taken or refunded.
	ErrRecordNotFound = errors.Register(1011, "escrow record not found")
)
