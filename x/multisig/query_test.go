package multisig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/x/multisig"
)

func TestQueries(t *testing.T) {
	a := quorumtest.NewCondition()
	b := quorumtest.NewCondition()

	l := newLedger(t)
	msID := l.mustDeliver(&multisig.CreateMsg{Owners: addressesOf(a, b), Threshold: 2}, a)
	emptyID := l.mustDeliver(&multisig.CreateMsg{Owners: addressesOf(b), Threshold: 1}, b)
	ins := l.instruction(&recordMsg{Authority: a.Address(), Key: []byte("k")})
	first := l.mustDeliver(&multisig.ProposeMsg{MultisigID: msID, Instruction: ins}, a)
	second := l.mustDeliver(&multisig.ProposeMsg{MultisigID: msID, Instruction: ins}, b)

	qr := app.NewQueryRouter()
	multisig.RegisterQuery(qr)

	raw, err := qr.Handler("/multisigs").Query(l.db, msID)
	require.NoError(t, err)
	var m multisig.Multisig
	require.NoError(t, m.Unmarshal(raw))
	assert.Equal(t, addressesOf(a, b), m.Owners)

	_, err = qr.Handler("/multisigs").Query(l.db, quorumtest.SequenceID(9))
	assert.True(t, errors.ErrNotFound.Is(err))

	raw, err = qr.Handler("/proposals").Query(l.db, second)
	require.NoError(t, err)
	var p multisig.Proposal
	require.NoError(t, p.Unmarshal(raw))
	assert.Equal(t, []bool{false, true}, p.Approvals)
	assert.Equal(t, b.Address(), p.Proposer)

	raw, err = qr.Handler("/proposals/list").Query(l.db, msID)
	require.NoError(t, err)
	var list multisig.ProposalList
	require.NoError(t, list.Unmarshal(raw))
	require.Len(t, list.Items, 2)
	assert.Equal(t, first, list.Items[0].ID)
	assert.Equal(t, second, list.Items[1].ID)
	assert.Equal(t, a.Address(), list.Items[0].Proposal.Proposer)

	raw, err = qr.Handler("/proposals/list").Query(l.db, emptyID)
	require.NoError(t, err)
	list = multisig.ProposalList{}
	require.NoError(t, list.Unmarshal(raw))
	assert.Empty(t, list.Items)

	_, err = qr.Handler("/proposals/list").Query(l.db, quorumtest.SequenceID(9))
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = qr.Handler("/proposals/list").Query(l.db, first)
	assert.True(t, errors.ErrInput.Is(err))
}
