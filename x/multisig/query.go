package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// RegisterQuery registers the query handlers of this package:
//
//   /multisigs       multisig by ID
//   /proposals       proposal by ID
//   /proposals/list  all proposals of a multisig ID, as a ProposalList
func RegisterQuery(qr quorum.QueryRegister) {
	qr.RegisterQuery("/multisigs", orm.NewQueryHandler(NewMultisigBucket().ModelBucket))
	qr.RegisterQuery("/proposals", orm.NewQueryHandler(NewProposalBucket().ModelBucket))
	qr.RegisterQuery("/proposals/list", proposalListQuery{
		multisigs: NewMultisigBucket(),
		proposals: NewProposalBucket(),
	})
}

// ProposalList is the response of the /proposals/list query.
type ProposalList struct {
	Items []ProposalItem `json:"items"`
}

// ProposalItem is a proposal together with its ID.
type ProposalItem struct {
	ID       []byte   `json:"id"`
	Proposal Proposal `json:"proposal"`
}

// Marshal serializes the list with amino.
func (l *ProposalList) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(l)
}

// Unmarshal loads the list from its amino representation.
func (l *ProposalList) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, l); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

type proposalListQuery struct {
	multisigs MultisigBucket
	proposals ProposalBucket
}

func (q proposalListQuery) Query(db quorum.ReadOnlyKVStore, multisigID []byte) ([]byte, error) {
	if err := validateMultisigID(multisigID); err != nil {
		return nil, err
	}
	if err := q.multisigs.Has(db, multisigID); err != nil {
		return nil, errors.Wrap(err, "multisig")
	}
	ids, err := q.proposals.ProposalIDs(db, multisigID)
	if err != nil {
		return nil, err
	}
	list := ProposalList{Items: make([]ProposalItem, 0, len(ids))}
	for _, id := range ids {
		p, err := q.proposals.GetProposal(db, id)
		if err != nil {
			return nil, errors.Wrapf(err, "proposal %X", id)
		}
		list.Items = append(list.Items, ProposalItem{ID: id, Proposal: *p})
	}
	return list.Marshal()
}
