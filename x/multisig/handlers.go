package multisig

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x"
	"github.com/iov-one/quorum/x/utils"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Executed instructions are dispatched through exec.
func RegisterRoutes(r quorum.Registry, auth x.Authenticator, exec Executor) {
	multisigs := NewMultisigBucket()
	proposals := NewProposalBucket()
	r.Handle(pathCreateMsg, CreateHandler{auth: auth, multisigs: multisigs})
	r.Handle(pathProposeMsg, ProposeHandler{auth: auth, multisigs: multisigs, proposals: proposals})
	r.Handle(pathApproveMsg, ApproveHandler{auth: auth, multisigs: multisigs, proposals: proposals})
	r.Handle(pathExecuteMsg, ExecuteHandler{exec: exec, multisigs: multisigs, proposals: proposals})
	r.Handle(pathSetOwnersMsg, SetOwnersHandler{auth: auth, multisigs: multisigs})
}

func loadMsg(tx quorum.Tx) (quorum.Msg, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "msg")
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate msg")
	}
	return msg, nil
}

// signerOrGiven returns the given address or, if empty, the address of the
// main signer. The result must be authenticated.
func signerOrGiven(ctx quorum.Context, auth x.Authenticator, given quorum.Address) (quorum.Address, error) {
	if len(given) == 0 {
		signer := x.MainSigner(ctx, auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		return signer.Address(), nil
	}
	if !auth.HasAddress(ctx, given) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", given)
	}
	return given, nil
}

// CreateHandler creates a new multisig.
type CreateHandler struct {
	auth      x.Authenticator
	multisigs MultisigBucket
}

var _ quorum.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h CreateHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	m := &Multisig{
		Owners:          msg.Owners,
		Threshold:       msg.Threshold,
		OwnerSetVersion: 0,
		AuthorityNonce:  msg.AuthorityNonce,
	}
	id, err := h.multisigs.Create(db, m)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store multisig")
	}
	quorum.GetLogger(ctx).Info("multisig created",
		"multisig", fmt.Sprintf("%X", id),
		"owners", len(m.Owners),
		"threshold", m.Threshold,
		"authority", m.Authority(id))
	return &quorum.DeliverResult{Data: id}, nil
}

func (h CreateHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*CreateMsg, error) {
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	createMsg, ok := msg.(*CreateMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	return createMsg, nil
}

// ProposeHandler creates a proposal pre-approved by its proposer.
type ProposeHandler struct {
	auth      x.Authenticator
	multisigs MultisigBucket
	proposals ProposalBucket
}

var _ quorum.Handler = ProposeHandler{}

func (h ProposeHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h ProposeHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	id, err := h.proposals.Create(db, p)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	quorum.GetLogger(ctx).Info("proposal created",
		"proposal", fmt.Sprintf("%X", id),
		"path", p.Instruction.Path,
		"proposer", p.Proposer)
	return &quorum.DeliverResult{Data: id}, nil
}

// validate returns the proposal that is to be created.
func (h ProposeHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*Proposal, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, err
	}
	proposeMsg, ok := msg.(*ProposeMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	proposer, err := signerOrGiven(ctx, h.auth, proposeMsg.Proposer)
	if err != nil {
		return nil, err
	}
	m, err := h.multisigs.GetMultisig(db, proposeMsg.MultisigID)
	if err != nil {
		return nil, errors.Wrap(err, "multisig")
	}
	idx := m.OwnerIndex(proposer)
	if idx < 0 {
		return nil, errors.Wrapf(ErrNotAnOwner, "proposer %s", proposer)
	}
	approvals := make([]bool, len(m.Owners))
	approvals[idx] = true
	return &Proposal{
		MultisigID:      proposeMsg.MultisigID,
		Instruction:     proposeMsg.Instruction,
		Approvals:       approvals,
		OwnerSetVersion: m.OwnerSetVersion,
		Executed:        false,
		Proposer:        proposer,
	}, nil
}

// ApproveHandler records the approval of a current owner.
type ApproveHandler struct {
	auth      x.Authenticator
	multisigs MultisigBucket
	proposals ProposalBucket
}

var _ quorum.Handler = ApproveHandler{}

func (h ApproveHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h ApproveHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, p, idx, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if p.Approvals[idx] {
		return &quorum.DeliverResult{Data: msg.ProposalID, Log: "already approved"}, nil
	}
	p.Approvals[idx] = true
	if err := h.proposals.Put(db, msg.ProposalID, p); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	quorum.GetLogger(ctx).Info("proposal approved",
		"proposal", fmt.Sprintf("%X", msg.ProposalID),
		"approvals", p.ApprovalCount())
	return &quorum.DeliverResult{Data: msg.ProposalID}, nil
}

// validate returns the proposal and the index of the approving owner.
func (h ApproveHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*ApproveMsg, *Proposal, int, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, nil, 0, err
	}
	approveMsg, ok := msg.(*ApproveMsg)
	if !ok {
		return nil, nil, 0, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	owner, err := signerOrGiven(ctx, h.auth, approveMsg.Owner)
	if err != nil {
		return nil, nil, 0, err
	}
	p, err := h.proposals.GetProposal(db, approveMsg.ProposalID)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "proposal")
	}
	m, err := h.multisigs.GetMultisig(db, p.MultisigID)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "multisig")
	}
	// Ownership is tested against the current owners, not the owners the
	// proposal was created with.
	idx := m.OwnerIndex(owner)
	if idx < 0 {
		return nil, nil, 0, errors.Wrapf(ErrNotAnOwner, "owner %s", owner)
	}
	if p.IsStale(m) {
		return nil, nil, 0, errors.Wrapf(ErrStaleProposal, "version %d, current %d", p.OwnerSetVersion, m.OwnerSetVersion)
	}
	if p.Executed {
		return nil, nil, 0, ErrAlreadyExecuted
	}
	if len(p.Approvals) != len(m.Owners) {
		return nil, nil, 0, errors.Wrap(errors.ErrState, "approvals do not match owners")
	}
	return approveMsg, p, idx, nil
}

// ExecuteHandler runs the instruction of a proposal that reached the
// threshold.
type ExecuteHandler struct {
	exec      Executor
	multisigs MultisigBucket
	proposals ProposalBucket
}

var _ quorum.Handler = ExecuteHandler{}

// Check only tests the proposal can be executed. The instruction itself is
// not run.
func (h ExecuteHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, _, _, err := h.validate(db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h ExecuteHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, p, m, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}

	var res *quorum.DeliverResult
	execute := func(db quorum.KVStore) error {
		// The flag is written before the instruction runs, so that the
		// instruction cannot execute this proposal again.
		p.Executed = true
		if err := h.proposals.Put(db, msg.ProposalID, p); err != nil {
			return errors.Wrap(err, "cannot store proposal")
		}
		authority := AuthorityCondition(p.MultisigID, m.AuthorityNonce)
		var err error
		res, err = h.exec.Execute(withAuthority(ctx, authority), db, p.Instruction)
		if err != nil {
			return errors.Wrapf(err, "execute %s", p.Instruction.Path)
		}
		return nil
	}

	if cstore, ok := db.(quorum.CacheableKVStore); ok {
		err = utils.InCache(cstore, execute)
	} else {
		err = execute(db)
	}
	if err != nil {
		return nil, err
	}

	quorum.GetLogger(ctx).Info("proposal executed",
		"proposal", fmt.Sprintf("%X", msg.ProposalID),
		"path", p.Instruction.Path)
	out := &quorum.DeliverResult{Data: msg.ProposalID}
	if res != nil {
		out.Log = res.Log
	}
	return out, nil
}

func (h ExecuteHandler) validate(db quorum.KVStore, tx quorum.Tx) (*ExecuteMsg, *Proposal, *Multisig, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, nil, nil, err
	}
	executeMsg, ok := msg.(*ExecuteMsg)
	if !ok {
		return nil, nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	p, err := h.proposals.GetProposal(db, executeMsg.ProposalID)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "proposal")
	}
	m, err := h.multisigs.GetMultisig(db, p.MultisigID)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "multisig")
	}
	if err := p.CanExecute(m); err != nil {
		return nil, nil, nil, err
	}
	return executeMsg, p, m, nil
}

// SetOwnersHandler replaces the owner set. Only the multisig's derived
// authority may do it.
type SetOwnersHandler struct {
	auth      x.Authenticator
	multisigs MultisigBucket
}

var _ quorum.Handler = SetOwnersHandler{}

func (h SetOwnersHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h SetOwnersHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, m, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	m.Owners = msg.Owners
	m.Threshold = msg.Threshold
	m.OwnerSetVersion++
	if err := h.multisigs.Put(db, msg.MultisigID, m); err != nil {
		return nil, errors.Wrap(err, "cannot store multisig")
	}
	quorum.GetLogger(ctx).Info("owners replaced",
		"multisig", fmt.Sprintf("%X", msg.MultisigID),
		"owners", len(m.Owners),
		"threshold", m.Threshold,
		"version", m.OwnerSetVersion)
	return &quorum.DeliverResult{Data: msg.MultisigID}, nil
}

func (h SetOwnersHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*SetOwnersMsg, *Multisig, error) {
	msg, err := loadMsg(tx)
	if err != nil {
		return nil, nil, err
	}
	setMsg, ok := msg.(*SetOwnersMsg)
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrType, "%T", msg)
	}
	m, err := h.multisigs.GetMultisig(db, setMsg.MultisigID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "multisig")
	}
	if !h.auth.HasAddress(ctx, m.Authority(setMsg.MultisigID)) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "multisig authority required")
	}
	return setMsg, m, nil
}
