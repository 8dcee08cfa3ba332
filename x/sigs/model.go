package sigs

import (
	"github.com/tendermint/go-amino"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported
// nonce value at client side is
//   Number.MAX_SAFE_INTEGER = 9007199254740991 = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

var cdc = amino.NewCodec()

// UserData is the persisted signing state of a single key.
type UserData struct {
	PubKey   crypto.PublicKey `json:"pubkey"`
	Sequence int64            `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

// Marshal serializes the user with amino.
func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

// Unmarshal loads the user from its amino representation.
func (u *UserData) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, u); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Validate ensures the stored state is consistent.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if err := u.PubKey.Validate(); err != nil {
		return errors.Wrap(errors.ErrModel, "pubkey")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData under the address of its public key.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns the bucket holding all signers.
func NewBucket() Bucket {
	return Bucket{orm.NewModelBucket(BucketName)}
}

// GetOrCreate loads the user of the given key, or returns a fresh one with
// sequence 0 if the key never signed before.
func (b Bucket) GetOrCreate(db quorum.ReadOnlyKVStore, pub crypto.PublicKey) (*UserData, error) {
	var u UserData
	err := b.One(db, pub.Address(), &u)
	switch {
	case err == nil:
		return &u, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{PubKey: pub}, nil
	default:
		return nil, err
	}
}

// Save writes the user under the address of its key.
func (b Bucket) Save(db quorum.KVStore, u *UserData) error {
	return b.Put(db, u.PubKey.Address(), u)
}

// RegisterQuery will register this bucket as "/auth". The query data is
// the signer address.
func RegisterQuery(qr quorum.QueryRegister) {
	qr.RegisterQuery("/auth", orm.NewQueryHandler(NewBucket().ModelBucket))
}
