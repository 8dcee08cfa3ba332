package multisig

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
)

func TestMsgValidate(t *testing.T) {
	owners := addresses(3)
	msID := quorumtest.SequenceID(1)
	propID := ProposalID(msID, 1)
	ins := Instruction{Path: "multisig/set_owners", Payload: []byte("x")}

	cases := map[string]struct {
		msg     quorum.Msg
		wantErr *errors.Error
	}{
		"valid create": {
			msg: &CreateMsg{Owners: owners, Threshold: 2, AuthorityNonce: 255},
		},
		"create with duplicated owners": {
			msg:     &CreateMsg{Owners: []quorum.Address{owners[0], owners[0]}, Threshold: 1},
			wantErr: ErrInvalidOwnerSet,
		},
		"create with zero threshold": {
			msg:     &CreateMsg{Owners: owners, Threshold: 0},
			wantErr: ErrInvalidThreshold,
		},
		"create with threshold above owners": {
			msg:     &CreateMsg{Owners: owners, Threshold: 4},
			wantErr: ErrInvalidThreshold,
		},
		"create with nonce out of range": {
			msg:     &CreateMsg{Owners: owners, Threshold: 1, AuthorityNonce: 256},
			wantErr: errors.ErrInput,
		},
		"valid propose": {
			msg: &ProposeMsg{MultisigID: msID, Instruction: ins},
		},
		"propose with explicit proposer": {
			msg: &ProposeMsg{MultisigID: msID, Proposer: owners[1], Instruction: ins},
		},
		"propose with bad multisig id": {
			msg:     &ProposeMsg{MultisigID: []byte{1, 2}, Instruction: ins},
			wantErr: errors.ErrInput,
		},
		"propose without instruction": {
			msg:     &ProposeMsg{MultisigID: msID},
			wantErr: errors.ErrInput,
		},
		"valid approve": {
			msg: &ApproveMsg{ProposalID: propID},
		},
		"approve with malformed owner": {
			msg:     &ApproveMsg{ProposalID: propID, Owner: quorum.Address{1, 2, 3}},
			wantErr: errors.ErrInput,
		},
		"approve with multisig id": {
			msg:     &ApproveMsg{ProposalID: msID},
			wantErr: errors.ErrInput,
		},
		"valid execute": {
			msg: &ExecuteMsg{ProposalID: propID},
		},
		"execute without id": {
			msg:     &ExecuteMsg{},
			wantErr: errors.ErrInput,
		},
		"valid set owners": {
			msg: &SetOwnersMsg{MultisigID: msID, Owners: owners[:2], Threshold: 2},
		},
		"set owners to nobody": {
			msg:     &SetOwnersMsg{MultisigID: msID, Threshold: 1},
			wantErr: ErrInvalidOwnerSet,
		},
		"set owners with bad threshold": {
			msg:     &SetOwnersMsg{MultisigID: msID, Owners: owners[:2], Threshold: 3},
			wantErr: ErrInvalidThreshold,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.msg.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
