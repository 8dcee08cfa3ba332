package sigs

import (
	"crypto/sha512"

	"github.com/gogo/protobuf/proto"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

// SignCodeV1 is the current way to prefix the bytes we use to build
// a signature
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks all the signatures on the tx.
//
// returns list of signer conditions (possibly empty),
// or error if any signature is invalid
func VerifyTxSignatures(db quorum.KVStore, tx SignedTx, chainID string) ([]quorum.Condition, error) {
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()

	signers := make([]quorum.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(db, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against signbytes,
// check chain and updates state in the store
func VerifySignature(db quorum.KVStore, sig *StdSignature, signBytes []byte, chainID string) (quorum.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, sig.PubKey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.PubKey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, user); err != nil {
		return nil, err
	}
	return user.PubKey.Condition(), nil
}

/*
BuildSignBytes combines all info on the actual tx before signing

The following fields are written in order, using protobuf wire encoding
for each of them:

  version     | chainID                  | sequence | signBytes
  raw 4 bytes | length prefixed string   | fixed64  | length prefixed bytes

This is then prehashed with sha512 before fed into
the public key signing/verification step
*/
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !quorum.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	buf := proto.NewBuffer(make([]byte, 0, len(SignCodeV1)+1+len(chainID)+8+len(signBytes)+4))
	buf.SetBuf(append(buf.Bytes(), SignCodeV1...))
	if err := buf.EncodeStringBytes(chainID); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := buf.EncodeFixed64(uint64(seq)); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := buf.EncodeRawBytes(signBytes); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	// constant length output to feed into eddsa
	hashed := sha512.Sum512(buf.Bytes())
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes given a tx
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx creates a signature for the given tx
func SignTx(signer crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		PubKey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
