// Package quorumtest provides helpers shared by the tests of every extension.
package quorumtest

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/iov-one/quorum"
)

var condSeq uint64

// NewCondition returns a new, unique condition on every call. Useful when
// a test needs a few distinct signers.
func NewCondition() quorum.Condition {
	n := atomic.AddUint64(&condSeq, 1)
	return quorum.NewCondition("test", "seq", SequenceID(n))
}

// SequenceID returns an 8 byte big endian encoded value, the format used by
// every sequence generated identifier.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
