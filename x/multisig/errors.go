package multisig

import (
	"github.com/iov-one/quorum/errors"
)

// multisig reserves 1030 ~ 1039
var (
	// ErrNotAnOwner is returned when the acting party is not in the
	// current owner set.
	ErrNotAnOwner = errors.Register(1030, "not an owner")

	// ErrStaleProposal is returned when the owner set changed after the
	// proposal was created. A stale proposal can never be executed.
	ErrStaleProposal = errors.Register(1031, "stale proposal")

	// ErrAlreadyExecuted is returned for any action on an executed
	// proposal.
	ErrAlreadyExecuted = errors.Register(1032, "already executed")

	// ErrInsufficientApprovals is returned when executing a proposal that
	// did not reach the threshold yet.
	ErrInsufficientApprovals = errors.Register(1033, "insufficient approvals")

	// ErrInvalidOwnerSet is returned for an empty, too long or duplicated
	// owner list.
	ErrInvalidOwnerSet = errors.Register(1034, "invalid owner set")

	// ErrInvalidThreshold is returned when the threshold is zero or
	// greater than the number of owners.
	ErrInvalidThreshold = errors.Register(1035, "invalid threshold")
)

// IsTerminal returns true if the error means the proposal can never be
// executed, no matter how many approvals it gets.
func IsTerminal(err error) bool {
	return ErrStaleProposal.Is(err) || ErrAlreadyExecuted.Is(err)
}

// IsRetryable returns true if the same execution may succeed once more
// approvals are collected.
func IsRetryable(err error) bool {
	return ErrInsufficientApprovals.Is(err)
}
