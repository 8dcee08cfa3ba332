package main

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
	"github.com/iov-one/quorum/x/multisig"
)

// sequenceID returns a sequence value encoded as implemented in the orm
// package.
func sequenceID(n int64) []byte {
	return orm.EncodeSequence(n)
}

// fromSequence transforms given binary representation of a sequence value into
// a decimal form. fromSequence is the opposite of the sequenceID function.
func fromSequence(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, errors.Wrap(errors.ErrInput, "sequence must be 8 bytes")
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// unpackSequence decodes a sequence value. Decimal is the default format,
// a "hex:" or "base64:" prefix allows to provide the binary representation
// directly. Zero is never a valid sequence value.
func unpackSequence(raw string) ([]byte, error) {
	var (
		seq []byte
		err error
	)
	switch {
	case strings.HasPrefix(raw, "hex:"):
		seq, err = hex.DecodeString(raw[len("hex:"):])
	case strings.HasPrefix(raw, "base64:"):
		seq, err = base64.StdEncoding.DecodeString(raw[len("base64:"):])
	default:
		var n int64
		n, err = strconv.ParseInt(raw, 10, 64)
		if err == nil {
			seq = sequenceID(n)
		}
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "sequence %q: %s", raw, err)
	}
	n, err := fromSequence(seq)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, errors.Wrapf(errors.ErrInput, "sequence %q must be greater than zero", raw)
	}
	return seq, nil
}

// unpackProposalID decodes a proposal ID. The human readable form is
// "<multisig>/<proposal>" where both parts are sequence values as accepted
// by unpackSequence. A hex encoded binary ID is accepted as well.
func unpackProposalID(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	chunks := strings.SplitN(raw, "/", 2)
	if len(chunks) == 1 {
		id, err := hex.DecodeString(raw)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "proposal %q: %s", raw, err)
		}
		if _, err := multisig.SplitProposalID(id); err != nil {
			return nil, err
		}
		return id, nil
	}
	multisigID, err := unpackSequence(chunks[0])
	if err != nil {
		return nil, errors.Wrap(err, "multisig")
	}
	seq, err := unpackSequence(chunks[1])
	if err != nil {
		return nil, errors.Wrap(err, "proposal")
	}
	return append(multisigID, seq...), nil
}

// formatProposalID returns the human readable form of a proposal ID, as
// read by unpackProposalID.
func formatProposalID(id []byte) string {
	multisigID, err := multisig.SplitProposalID(id)
	if err != nil {
		return hex.EncodeToString(id)
	}
	return strconv.FormatInt(orm.DecodeSequence(multisigID), 10) + "/" +
		strconv.FormatInt(orm.DecodeSequence(id[len(multisigID):]), 10)
}

// writeTx serialize the transaction. First bytes written contain the
// information how much space the transaction takes. Size information is
// required to be able to stream the messages.
func writeTx(w io.Writer, tx *quorumd.Tx) (int, error) {
	b, err := tx.Marshal()
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

func readTx(r io.Reader) (*quorumd.Tx, int, error) {
	// When serialized using writeTx function, first bytes contain
	// information about the actual size of the transaction message.
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}

	var tx quorumd.Tx
	if err := tx.Unmarshal(raw); err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return &tx, int(msgSize + txHeaderSize), nil
}

const txHeaderSize = 4
