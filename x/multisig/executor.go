package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

//go:generate mockgen -destination=mock/executor.go -package=mock github.com/iov-one/quorum/x/multisig Executor

// Executor runs the instruction of an executed proposal. The context holds
// the derived authority of the multisig. All writes go to the given store,
// which is discarded if an error is returned.
type Executor interface {
	Execute(ctx quorum.Context, db quorum.KVStore, ins Instruction) (*quorum.DeliverResult, error)
}

// InstructionDecoder turns an instruction back into the message it wraps.
type InstructionDecoder func(Instruction) (quorum.Msg, error)

// HandlerAsExecutor returns an Executor that decodes the instruction and
// delivers the message through the handler. Since a router and decorators
// also expose the Handler interface, any stack can execute proposals.
func HandlerAsExecutor(h quorum.Handler, decode InstructionDecoder) Executor {
	return handlerExecutor{h: h, decode: decode}
}

type handlerExecutor struct {
	h      quorum.Handler
	decode InstructionDecoder
}

func (e handlerExecutor) Execute(ctx quorum.Context, db quorum.KVStore, ins Instruction) (*quorum.DeliverResult, error) {
	msg, err := e.decode(ins)
	if err != nil {
		return nil, errors.Wrap(err, "cannot decode instruction")
	}
	if msg.Path() != ins.Path {
		return nil, errors.Wrapf(errors.ErrInput, "instruction path %q does not match message path %q", ins.Path, msg.Path())
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid instruction message")
	}
	return e.h.Deliver(ctx, db, instructionTx{msg: msg})
}

// instructionTx wraps the decoded message to satisfy the Handler interface.
type instructionTx struct {
	msg quorum.Msg
}

var _ quorum.Tx = instructionTx{}

func (tx instructionTx) GetMsg() (quorum.Msg, error) {
	return tx.msg, nil
}
