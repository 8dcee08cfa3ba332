package sigs

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
)

// StdTx is the simplest signed transaction, good enough for tests.
type StdTx struct {
	quorumtest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ quorum.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      quorumtest.Tx{Msg: quorumtest.Msg("test/payload")},
		Payload: payload,
	}
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []quorum.Condition
}

var _ quorum.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &quorum.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &quorum.DeliverResult{}, nil
}

type queryRecorder map[string]quorum.QueryHandler

func (q queryRecorder) RegisterQuery(path string, h quorum.QueryHandler) {
	q[path] = h
}
