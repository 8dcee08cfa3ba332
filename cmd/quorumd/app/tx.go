package app

import (
	"github.com/tendermint/go-amino"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/upgrade"
)

var cdc = MakeCodec()

// MakeCodec returns a codec that knows every message the application
// routes, so that a message can travel in a transaction or be wrapped in
// an instruction.
func MakeCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*quorum.Msg)(nil), nil)
	multisig.RegisterCodec(c)
	upgrade.RegisterCodec(c)
	return c
}

// Tx is the transaction of the quorum application: a single message and
// the signatures of its authors.
type Tx struct {
	Msg        quorum.Msg           `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures,omitempty"`
}

// make sure tx fulfills all interfaces
var _ quorum.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (quorum.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// Marshal serializes the transaction with amino.
func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

// Unmarshal loads the transaction from its amino representation.
func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (quorum.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures attached to the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}

// NewInstruction serializes the message so that it can be wrapped in a
// proposal.
func NewInstruction(msg quorum.Msg) (multisig.Instruction, error) {
	raw, err := cdc.MarshalBinaryBare(msg)
	if err != nil {
		return multisig.Instruction{}, errors.Wrapf(errors.ErrInput, "cannot serialize %T: %s", msg, err)
	}
	return multisig.Instruction{Path: msg.Path(), Payload: raw}, nil
}

// DecodeInstruction is the multisig.InstructionDecoder of the application.
func DecodeInstruction(ins multisig.Instruction) (quorum.Msg, error) {
	var msg quorum.Msg
	if err := cdc.UnmarshalBinaryBare(ins.Payload, &msg); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return msg, nil
}
