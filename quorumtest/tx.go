package quorumtest

import "github.com/iov-one/quorum"

// Tx carries a single message. If Err is set, reading the message fails.
type Tx struct {
	Msg quorum.Msg
	Err error
}

var _ quorum.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (quorum.Msg, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return tx.Msg, nil
}

// Msg is a message that is always valid and routed by its own value.
type Msg string

var _ quorum.Msg = Msg("")

func (m Msg) Path() string {
	return string(m)
}

func (Msg) Validate() error {
	return nil
}
