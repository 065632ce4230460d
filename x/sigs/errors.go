package sigs

import (
	"github.com/tradeloom/loom/errors"
)

// x/sigs reserves 120 ~ 129.
var (
	// ErrInvalidSequence is returned when a signature does not carry the
	// sequence expected for its signer.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
