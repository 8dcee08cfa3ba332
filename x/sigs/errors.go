package sigs

import (
	"github.com/iov-one/quorum/errors"
)

// x/sigs reserves 120 ~ 129.
var (
	// ErrInvalidSequence is returned when a signature is made for a
	// sequence other than the signer's next one. This is what rejects a
	// replayed transaction.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
