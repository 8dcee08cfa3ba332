package multisig_test

import (
	"context"
	"testing"

	"github.com/tendermint/go-amino"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x"
	"github.com/iov-one/quorum/x/multisig"
)

const pathRecordMsg = "test/record"

// recordMsg increments a counter, but only when sent by the given
// authority. It stands for any privileged action a multisig may own.
type recordMsg struct {
	Authority quorum.Address
	Key       []byte
}

func (recordMsg) Path() string {
	return pathRecordMsg
}

func (m *recordMsg) Validate() error {
	if len(m.Key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return m.Authority.Validate()
}

type recordHandler struct {
	auth x.Authenticator
}

func (h recordHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h recordHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	n, err := readCounter(db, msg.Key)
	if err != nil {
		return nil, err
	}
	if err := db.Set(msg.Key, orm.EncodeSequence(n+1)); err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{Log: "recorded"}, nil
}

func (h recordHandler) validate(ctx quorum.Context, tx quorum.Tx) (*recordMsg, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	msg, ok := raw.(*recordMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", raw)
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.ErrUnauthorized
	}
	return msg, nil
}

func readCounter(db quorum.ReadOnlyKVStore, key []byte) (int64, error) {
	raw, err := db.Get(key)
	if err != nil || raw == nil {
		return 0, err
	}
	return orm.DecodeSequence(raw), nil
}

// unsigned hides the signatures of the outer transaction from the
// executed instruction.
type unsigned struct {
	auth *quorumtest.CtxAuth
	next quorum.Handler
}

func (u unsigned) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	return u.next.Check(u.auth.SetConditions(ctx), db, tx)
}

func (u unsigned) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	return u.next.Deliver(u.auth.SetConditions(ctx), db, tx)
}

// ledger is a minimal application: every multisig handler plus the
// record handler, executing instructions through the same router.
type ledger struct {
	t      testing.TB
	db     quorum.CacheableKVStore
	signed *quorumtest.CtxAuth
	cdc    *amino.Codec
	router *app.Router
}

func newLedger(t testing.TB) *ledger {
	l := emptyLedger(t)
	l.register(multisig.HandlerAsExecutor(unsigned{auth: l.signed, next: l.router}, l.decode))
	return l
}

// newLedgerWithExecutor dispatches executed instructions to exec instead
// of the router.
func newLedgerWithExecutor(t testing.TB, exec multisig.Executor) *ledger {
	l := emptyLedger(t)
	l.register(exec)
	return l
}

func emptyLedger(t testing.TB) *ledger {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*quorum.Msg)(nil), nil)
	multisig.RegisterCodec(cdc)
	cdc.RegisterConcrete(&recordMsg{}, "test/recordMsg", nil)

	return &ledger{
		t:      t,
		db:     store.MemStore(),
		signed: &quorumtest.CtxAuth{Key: "signers"},
		cdc:    cdc,
		router: app.NewRouter(),
	}
}

func (l *ledger) register(exec multisig.Executor) {
	auth := x.ChainAuth(l.signed, multisig.Authenticate{})
	multisig.RegisterRoutes(l.router, auth, exec)
	l.router.Handle(pathRecordMsg, recordHandler{auth: auth})
}

func (l *ledger) decode(ins multisig.Instruction) (quorum.Msg, error) {
	var msg quorum.Msg
	if err := l.cdc.UnmarshalBinaryBare(ins.Payload, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return msg, nil
}

func (l *ledger) instruction(msg quorum.Msg) multisig.Instruction {
	raw, err := l.cdc.MarshalBinaryBare(msg)
	if err != nil {
		l.t.Fatalf("cannot serialize %T: %s", msg, err)
	}
	return multisig.Instruction{Path: msg.Path(), Payload: raw}
}

// deliver runs the message signed by the given conditions.
func (l *ledger) deliver(msg quorum.Msg, signers ...quorum.Condition) (*quorum.DeliverResult, error) {
	ctx := l.signed.SetConditions(context.Background(), signers...)
	return l.router.Deliver(ctx, l.db, &quorumtest.Tx{Msg: msg})
}

func (l *ledger) check(msg quorum.Msg, signers ...quorum.Condition) error {
	ctx := l.signed.SetConditions(context.Background(), signers...)
	_, err := l.router.Check(ctx, l.db.CacheWrap(), &quorumtest.Tx{Msg: msg})
	return err
}

func (l *ledger) mustDeliver(msg quorum.Msg, signers ...quorum.Condition) []byte {
	res, err := l.deliver(msg, signers...)
	if err != nil {
		l.t.Fatalf("cannot deliver %T: %+v", msg, err)
	}
	return res.Data
}

func (l *ledger) loadProposal(id []byte) *multisig.Proposal {
	p, err := multisig.NewProposalBucket().GetProposal(l.db, id)
	if err != nil {
		l.t.Fatalf("cannot load proposal: %s", err)
	}
	return p
}

func (l *ledger) loadMultisig(id []byte) *multisig.Multisig {
	m, err := multisig.NewMultisigBucket().GetMultisig(l.db, id)
	if err != nil {
		l.t.Fatalf("cannot load multisig: %s", err)
	}
	return m
}

func (l *ledger) counter(key string) int64 {
	n, err := readCounter(l.db, []byte(key))
	if err != nil {
		l.t.Fatalf("cannot read counter: %s", err)
	}
	return n
}

func addressesOf(conds ...quorum.Condition) []quorum.Address {
	res := make([]quorum.Address, len(conds))
	for i, c := range conds {
		res[i] = c.Address()
	}
	return res
}
