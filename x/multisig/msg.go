package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const (
	pathCreateMsg    = "multisig/create"
	pathProposeMsg   = "multisig/propose"
	pathApproveMsg   = "multisig/approve"
	pathExecuteMsg   = "multisig/execute"
	pathSetOwnersMsg = "multisig/set_owners"
)

// CreateMsg creates a new multisig.
type CreateMsg struct {
	Owners         []quorum.Address `json:"owners"`
	Threshold      uint32           `json:"threshold"`
	AuthorityNonce uint32           `json:"authority_nonce"`
}

var _ quorum.Msg = (*CreateMsg)(nil)

// Path returns the routing path for this message.
func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Validate makes sure that this is sensible.
func (m *CreateMsg) Validate() error {
	if err := ValidateOwners(m.Owners); err != nil {
		return err
	}
	if err := ValidateThreshold(m.Threshold, len(m.Owners)); err != nil {
		return err
	}
	if m.AuthorityNonce > MaxAuthorityNonce {
		return errors.Wrapf(errors.ErrInput, "authority nonce %d, max %d", m.AuthorityNonce, MaxAuthorityNonce)
	}
	return nil
}

// ProposeMsg creates a proposal for the multisig to run an instruction.
type ProposeMsg struct {
	MultisigID []byte `json:"multisig_id"`
	// Proposer defaults to the main signer when empty.
	Proposer    quorum.Address `json:"proposer,omitempty"`
	Instruction Instruction    `json:"instruction"`
}

var _ quorum.Msg = (*ProposeMsg)(nil)

// Path returns the routing path for this message.
func (ProposeMsg) Path() string {
	return pathProposeMsg
}

// Validate makes sure that this is sensible.
func (m *ProposeMsg) Validate() error {
	if err := validateMultisigID(m.MultisigID); err != nil {
		return err
	}
	if len(m.Proposer) != 0 {
		if err := m.Proposer.Validate(); err != nil {
			return errors.Wrap(err, "proposer")
		}
	}
	if err := m.Instruction.Validate(); err != nil {
		return errors.Wrap(err, "instruction")
	}
	return nil
}

// ApproveMsg records the approval of an owner.
type ApproveMsg struct {
	ProposalID []byte `json:"proposal_id"`
	// Owner defaults to the main signer when empty.
	Owner quorum.Address `json:"owner,omitempty"`
}

var _ quorum.Msg = (*ApproveMsg)(nil)

// Path returns the routing path for this message.
func (ApproveMsg) Path() string {
	return pathApproveMsg
}

// Validate makes sure that this is sensible.
func (m *ApproveMsg) Validate() error {
	if _, err := SplitProposalID(m.ProposalID); err != nil {
		return err
	}
	if len(m.Owner) != 0 {
		if err := m.Owner.Validate(); err != nil {
			return errors.Wrap(err, "owner")
		}
	}
	return nil
}

// ExecuteMsg runs the instruction of a proposal that reached its
// threshold. Anyone may submit it.
type ExecuteMsg struct {
	ProposalID []byte `json:"proposal_id"`
}

var _ quorum.Msg = (*ExecuteMsg)(nil)

// Path returns the routing path for this message.
func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

// Validate makes sure that this is sensible.
func (m *ExecuteMsg) Validate() error {
	_, err := SplitProposalID(m.ProposalID)
	return err
}

// SetOwnersMsg replaces the owners and the threshold of a multisig. It is
// accepted only from the multisig's own authority, so it must be wrapped in
// a proposal.
type SetOwnersMsg struct {
	MultisigID []byte           `json:"multisig_id"`
	Owners     []quorum.Address `json:"owners"`
	Threshold  uint32           `json:"threshold"`
}

var _ quorum.Msg = (*SetOwnersMsg)(nil)

// Path returns the routing path for this message.
func (SetOwnersMsg) Path() string {
	return pathSetOwnersMsg
}

// Validate makes sure that this is sensible.
func (m *SetOwnersMsg) Validate() error {
	if err := validateMultisigID(m.MultisigID); err != nil {
		return err
	}
	if err := ValidateOwners(m.Owners); err != nil {
		return err
	}
	return ValidateThreshold(m.Threshold, len(m.Owners))
}
