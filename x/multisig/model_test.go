package multisig

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func addresses(n int) []quorum.Address {
	res := make([]quorum.Address, n)
	for i := range res {
		res[i] = quorumtest.NewCondition().Address()
	}
	return res
}

func TestValidateOwners(t *testing.T) {
	owners := addresses(3)

	cases := map[string]struct {
		owners  []quorum.Address
		wantErr *errors.Error
	}{
		"valid":           {owners: owners, wantErr: nil},
		"single owner":    {owners: owners[:1], wantErr: nil},
		"max owners":      {owners: addresses(MaxOwners), wantErr: nil},
		"no owners":       {owners: nil, wantErr: ErrInvalidOwnerSet},
		"too many owners": {owners: addresses(MaxOwners + 1), wantErr: ErrInvalidOwnerSet},
		"duplicated owner": {
			owners:  []quorum.Address{owners[0], owners[1], owners[0]},
			wantErr: ErrInvalidOwnerSet,
		},
		"malformed address": {
			owners:  []quorum.Address{owners[0], quorum.Address("short")},
			wantErr: ErrInvalidOwnerSet,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := ValidateOwners(tc.owners); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestValidateThreshold(t *testing.T) {
	assert.IsErr(t, ErrInvalidThreshold, ValidateThreshold(0, 3))
	assert.Nil(t, ValidateThreshold(1, 3))
	assert.Nil(t, ValidateThreshold(3, 3))
	assert.IsErr(t, ErrInvalidThreshold, ValidateThreshold(4, 3))
	assert.IsErr(t, ErrInvalidThreshold, ValidateThreshold(1, 0))
}

func TestMultisigPersistence(t *testing.T) {
	m := &Multisig{
		Owners:          addresses(3),
		Threshold:       2,
		OwnerSetVersion: 7,
		AuthorityNonce:  255,
	}
	assert.Nil(t, m.Validate())

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var got Multisig
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, m, &got)

	m.AuthorityNonce = 256
	assert.IsErr(t, errors.ErrModel, m.Validate())
}

func TestProposalPersistence(t *testing.T) {
	owners := addresses(3)
	p := &Proposal{
		MultisigID:      quorumtest.SequenceID(1),
		Instruction:     Instruction{Path: "upgrade/set_authority", Payload: []byte("payload")},
		Approvals:       []bool{true, false, true},
		OwnerSetVersion: 2,
		Executed:        true,
		Proposer:        owners[0],
	}
	assert.Nil(t, p.Validate())

	raw, err := p.Marshal()
	assert.Nil(t, err)
	var got Proposal
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, p, &got)
}

func TestProposalValidate(t *testing.T) {
	valid := func() *Proposal {
		return &Proposal{
			MultisigID:  quorumtest.SequenceID(1),
			Instruction: Instruction{Path: "multisig/set_owners", Payload: []byte{1}},
			Approvals:   []bool{true},
			Proposer:    addresses(1)[0],
		}
	}

	cases := map[string]struct {
		mutate  func(*Proposal)
		wantErr *errors.Error
	}{
		"valid":            {mutate: func(*Proposal) {}},
		"bad multisig id":  {mutate: func(p *Proposal) { p.MultisigID = []byte{1} }, wantErr: errors.ErrModel},
		"no approvals":     {mutate: func(p *Proposal) { p.Approvals = nil }, wantErr: errors.ErrModel},
		"empty payload":    {mutate: func(p *Proposal) { p.Instruction.Payload = nil }, wantErr: errors.ErrEmpty},
		"bad path":         {mutate: func(p *Proposal) { p.Instruction.Path = "Not A Path" }, wantErr: errors.ErrInput},
		"trailing slash":   {mutate: func(p *Proposal) { p.Instruction.Path = "multisig/" }, wantErr: errors.ErrInput},
		"missing proposer": {mutate: func(p *Proposal) { p.Proposer = nil }, wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p := valid()
			tc.mutate(p)
			if err := p.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestProposalStatus(t *testing.T) {
	m := &Multisig{Owners: addresses(3), Threshold: 2, OwnerSetVersion: 1}

	cases := map[string]struct {
		proposal   Proposal
		wantStatus ProposalStatus
		wantErr    *errors.Error
	}{
		"pending": {
			proposal:   Proposal{Approvals: []bool{true, false, false}, OwnerSetVersion: 1},
			wantStatus: StatusPending,
			wantErr:    ErrInsufficientApprovals,
		},
		"ready": {
			proposal:   Proposal{Approvals: []bool{true, false, true}, OwnerSetVersion: 1},
			wantStatus: StatusReady,
		},
		"stale with quorum": {
			proposal:   Proposal{Approvals: []bool{true, true, true}, OwnerSetVersion: 0},
			wantStatus: StatusStale,
			wantErr:    ErrStaleProposal,
		},
		"executed": {
			proposal:   Proposal{Approvals: []bool{true, true, false}, OwnerSetVersion: 1, Executed: true},
			wantStatus: StatusExecuted,
			wantErr:    ErrAlreadyExecuted,
		},
		"executed and stale": {
			proposal:   Proposal{Approvals: []bool{true, true, false}, OwnerSetVersion: 0, Executed: true},
			wantStatus: StatusExecuted,
			wantErr:    ErrStaleProposal,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantStatus, tc.proposal.Status(m))
			if err := tc.proposal.CanExecute(m); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestProposalID(t *testing.T) {
	msID := quorumtest.SequenceID(3)
	id := ProposalID(msID, 5)
	assert.Equal(t, append(quorumtest.SequenceID(3), quorumtest.SequenceID(5)...), id)

	got, err := SplitProposalID(id)
	assert.Nil(t, err)
	assert.Equal(t, msID, got)

	_, err = SplitProposalID(msID)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestErrorClasses(t *testing.T) {
	assert.Equal(t, true, IsTerminal(errors.Wrap(ErrStaleProposal, "ctx")))
	assert.Equal(t, true, IsTerminal(ErrAlreadyExecuted))
	assert.Equal(t, false, IsTerminal(ErrInsufficientApprovals))
	assert.Equal(t, true, IsRetryable(errors.Wrap(ErrInsufficientApprovals, "ctx")))
	assert.Equal(t, false, IsRetryable(ErrNotAnOwner))
	assert.Equal(t, false, IsRetryable(nil))
}
