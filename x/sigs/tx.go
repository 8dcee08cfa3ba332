package sigs

import (
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

// StdSignature is a signature of one signer over a transaction, bound to
// the signer's sequence.
type StdSignature struct {
	PubKey    crypto.PublicKey `json:"pubkey"`
	Signature []byte           `json:"signature"`
	Sequence  int64            `json:"sequence"`
}

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	// It must not depend on the signatures themselves.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.PubKey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.PubKey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "invalid public key")
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}
