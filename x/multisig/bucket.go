package multisig

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/orm"
)

// MultisigBucket stores multisigs under a sequence generated ID.
type MultisigBucket struct {
	orm.ModelBucket
	ids orm.Sequence
}

// NewMultisigBucket returns the bucket holding all multisigs.
func NewMultisigBucket() MultisigBucket {
	return MultisigBucket{
		ModelBucket: orm.NewModelBucket("multisig"),
		ids:         orm.NewSequence("multisig", "id"),
	}
}

// Create stores a new multisig and returns its ID.
func (b MultisigBucket) Create(db quorum.KVStore, m *Multisig) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	id, err := b.ids.NextVal(db)
	if err != nil {
		return nil, err
	}
	return id, b.Put(db, id, m)
}

// GetMultisig loads the multisig with the given ID.
func (b MultisigBucket) GetMultisig(db quorum.ReadOnlyKVStore, id []byte) (*Multisig, error) {
	var m Multisig
	if err := b.One(db, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ProposalBucket stores proposals. Proposal IDs are the multisig ID
// followed by a per multisig sequence, so proposals of one multisig can be
// listed in creation order.
type ProposalBucket struct {
	orm.ModelBucket
}

// NewProposalBucket returns the bucket holding all proposals.
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		ModelBucket: orm.NewModelBucket("proposal"),
	}
}

func proposalSequence(multisigID []byte) orm.Sequence {
	return orm.NewSequence("proposal", fmt.Sprintf("%X", multisigID))
}

// Create stores a new proposal and returns its ID.
func (b ProposalBucket) Create(db quorum.KVStore, p *Proposal) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seq := proposalSequence(p.MultisigID)
	n, err := seq.NextInt(db)
	if err != nil {
		return nil, err
	}
	id := ProposalID(p.MultisigID, n)
	return id, b.Put(db, id, p)
}

// GetProposal loads the proposal with the given ID.
func (b ProposalBucket) GetProposal(db quorum.ReadOnlyKVStore, id []byte) (*Proposal, error) {
	var p Proposal
	if err := b.One(db, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProposalIDs returns the IDs of all proposals of the multisig, in creation
// order.
func (b ProposalBucket) ProposalIDs(db quorum.ReadOnlyKVStore, multisigID []byte) ([][]byte, error) {
	seq := proposalSequence(multisigID)
	last, err := seq.Latest(db)
	if err != nil {
		return nil, err
	}
	ids := make([][]byte, 0, last)
	for n := int64(1); n <= last; n++ {
		ids = append(ids, ProposalID(multisigID, n))
	}
	return ids, nil
}
