package multisig

import (
	"regexp"

	"github.com/tendermint/go-amino"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

const (
	// MaxOwners is the greatest number of owners a multisig may have.
	MaxOwners = 100

	// MaxAuthorityNonce is the greatest nonce a derived authority can
	// be built with.
	MaxAuthorityNonce = 255

	// idLength is the length of a multisig ID. A proposal ID is twice as
	// long, the multisig ID followed by a per multisig sequence.
	idLength = 8
)

var (
	cdc = amino.NewCodec()

	isInstructionPath = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_]+)*$`).MatchString
)

// Multisig is an ordered set of owners that together control an authority.
type Multisig struct {
	// Owners is the ordered, duplicate free list of owner addresses.
	Owners []quorum.Address `json:"owners"`
	// Threshold is the number of approvals required to execute.
	Threshold uint32 `json:"threshold"`
	// OwnerSetVersion is incremented every time the owners change.
	OwnerSetVersion uint64 `json:"owner_set_version"`
	// AuthorityNonce is part of the derived authority and never changes.
	AuthorityNonce uint32 `json:"authority_nonce"`
}

var _ orm.Model = (*Multisig)(nil)

// Marshal serializes the multisig with amino.
func (m *Multisig) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

// Unmarshal loads the multisig from its amino representation.
func (m *Multisig) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, m); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Validate ensures the multisig is in a state it could have been created
// with.
func (m *Multisig) Validate() error {
	if err := ValidateOwners(m.Owners); err != nil {
		return err
	}
	if err := ValidateThreshold(m.Threshold, len(m.Owners)); err != nil {
		return err
	}
	if m.AuthorityNonce > MaxAuthorityNonce {
		return errors.Wrapf(errors.ErrModel, "authority nonce %d", m.AuthorityNonce)
	}
	return nil
}

// OwnerIndex returns the position of the address in the owner list, or -1.
func (m *Multisig) OwnerIndex(addr quorum.Address) int {
	for i, o := range m.Owners {
		if o.Equals(addr) {
			return i
		}
	}
	return -1
}

// Authority returns the address of the derived authority of the multisig
// stored under the given ID.
func (m *Multisig) Authority(id []byte) quorum.Address {
	return AuthorityCondition(id, m.AuthorityNonce).Address()
}

// ValidateOwners checks the owner list is non empty, not too long and
// contains only distinct, well formed addresses.
func ValidateOwners(owners []quorum.Address) error {
	switch n := len(owners); {
	case n == 0:
		return errors.Wrap(ErrInvalidOwnerSet, "no owners")
	case n > MaxOwners:
		return errors.Wrapf(ErrInvalidOwnerSet, "%d owners, max %d", n, MaxOwners)
	}
	for i, o := range owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidOwnerSet, "owner %d: %s", i, err)
		}
		for _, prev := range owners[:i] {
			if prev.Equals(o) {
				return errors.Wrapf(ErrInvalidOwnerSet, "duplicated owner %s", o)
			}
		}
	}
	return nil
}

// ValidateThreshold checks 1 <= threshold <= owners.
func ValidateThreshold(threshold uint32, owners int) error {
	if threshold == 0 || int(threshold) > owners {
		return errors.Wrapf(ErrInvalidThreshold, "%d out of %d", threshold, owners)
	}
	return nil
}

// Instruction is the wrapped action a proposal executes. Path selects the
// handler, Payload is the serialized message. Both are opaque to this
// package.
type Instruction struct {
	Path    string `json:"path"`
	Payload []byte `json:"payload"`
}

// Validate checks the instruction is routable.
func (i Instruction) Validate() error {
	if !isInstructionPath(i.Path) {
		return errors.Wrapf(errors.ErrInput, "instruction path %q", i.Path)
	}
	if len(i.Payload) == 0 {
		return errors.Wrap(errors.ErrEmpty, "instruction payload")
	}
	return nil
}

// ProposalStatus is derived from a proposal and its multisig, it is never
// stored.
type ProposalStatus string

const (
	// StatusPending means more approvals are needed.
	StatusPending ProposalStatus = "pending"
	// StatusReady means the proposal can be executed.
	StatusReady ProposalStatus = "ready"
	// StatusExecuted means the instruction was run.
	StatusExecuted ProposalStatus = "executed"
	// StatusStale means the owner set changed since proposal creation.
	StatusStale ProposalStatus = "stale"
)

// Proposal is an instruction waiting for the approval of the owners.
type Proposal struct {
	// MultisigID is the multisig this proposal belongs to.
	MultisigID []byte `json:"multisig_id"`
	// Instruction is run once the proposal is executed.
	Instruction Instruction `json:"instruction"`
	// Approvals is aligned with the multisig owners at creation time.
	Approvals []bool `json:"approvals"`
	// OwnerSetVersion is the version of the owners at creation time.
	OwnerSetVersion uint64 `json:"owner_set_version"`
	// Executed is set once and never cleared.
	Executed bool `json:"executed"`
	// Proposer is the owner that created the proposal.
	Proposer quorum.Address `json:"proposer"`
}

var _ orm.Model = (*Proposal)(nil)

// Marshal serializes the proposal with amino.
func (p *Proposal) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal loads the proposal from its amino representation.
func (p *Proposal) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, p); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Validate checks the proposal is consistent.
func (p *Proposal) Validate() error {
	if len(p.MultisigID) != idLength {
		return errors.Wrapf(errors.ErrModel, "multisig id %X", p.MultisigID)
	}
	if err := p.Instruction.Validate(); err != nil {
		return errors.Wrap(err, "instruction")
	}
	if n := len(p.Approvals); n == 0 || n > MaxOwners {
		return errors.Wrapf(errors.ErrModel, "%d approvals", n)
	}
	if err := p.Proposer.Validate(); err != nil {
		return errors.Wrap(err, "proposer")
	}
	return nil
}

// ApprovalCount returns the number of owners that approved.
func (p *Proposal) ApprovalCount() int {
	var n int
	for _, ok := range p.Approvals {
		if ok {
			n++
		}
	}
	return n
}

// IsStale returns true if the owners of the multisig changed since the
// proposal was created.
func (p *Proposal) IsStale(m *Multisig) bool {
	return p.OwnerSetVersion != m.OwnerSetVersion
}

// Status returns the lifecycle state of the proposal with regard to its
// multisig.
func (p *Proposal) Status(m *Multisig) ProposalStatus {
	switch {
	case p.Executed:
		return StatusExecuted
	case p.IsStale(m):
		return StatusStale
	case p.ApprovalCount() >= int(m.Threshold):
		return StatusReady
	default:
		return StatusPending
	}
}

// CanExecute returns nil if the proposal can be executed right now. Errors
// are tested in order: stale, executed, below threshold. Quorum collected
// under a superseded owner set is void, so staleness wins.
func (p *Proposal) CanExecute(m *Multisig) error {
	if p.IsStale(m) {
		return errors.Wrapf(ErrStaleProposal, "version %d, current %d", p.OwnerSetVersion, m.OwnerSetVersion)
	}
	if p.Executed {
		return ErrAlreadyExecuted
	}
	if n := p.ApprovalCount(); n < int(m.Threshold) {
		return errors.Wrapf(ErrInsufficientApprovals, "%d of %d", n, m.Threshold)
	}
	return nil
}

// ProposalID builds a proposal ID out of the multisig ID and the proposal
// sequence.
func ProposalID(multisigID []byte, seq int64) []byte {
	res := make([]byte, 0, 2*idLength)
	res = append(res, multisigID...)
	return append(res, orm.EncodeSequence(seq)...)
}

// SplitProposalID returns the multisig ID part of a proposal ID.
func SplitProposalID(id []byte) ([]byte, error) {
	if len(id) != 2*idLength {
		return nil, errors.Wrapf(errors.ErrInput, "proposal id %X", id)
	}
	return id[:idLength], nil
}

func validateMultisigID(id []byte) error {
	if len(id) != idLength {
		return errors.Wrapf(errors.ErrInput, "multisig id %X", id)
	}
	return nil
}

