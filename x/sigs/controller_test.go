package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
)

func TestSignBytes(t *testing.T) {
	bz := []byte("foobar")
	tx := NewStdTx(bz)
	bz2 := []byte("blast")

	// make sure sign bytes match tx
	chainID := "test-sign-bytes"
	c1, err := BuildSignBytesTx(tx, chainID, 17)
	require.NoError(t, err)
	c1a, err := BuildSignBytes(bz, chainID, 17)
	require.NoError(t, err)
	assert.Equal(t, c1, c1a)
	assert.NotEqual(t, bz, c1)
	assert.Len(t, c1, 64)

	// make sure sign bytes change on tx, chain_id and seq
	ct, err := BuildSignBytes(bz2, chainID, 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, ct)
	c2, err := BuildSignBytes(bz, chainID+"2", 17)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
	c3, err := BuildSignBytes(bz, chainID, 18)
	require.NoError(t, err)
	assert.NotEqual(t, c1, c3)

	_, err = BuildSignBytes(bz, chainID, -1)
	assert.True(t, ErrInvalidSequence.Is(err))
	_, err = BuildSignBytes(bz, "no", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	pub := priv.PublicKey()
	perm := pub.Condition()

	chainID := "emo-music-2345"
	bz := []byte("my special valentine")
	tx := NewStdTx(bz)

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, tx, chainID, 1)
	require.NoError(t, err)
	sig2, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	sig13, err := SignTx(priv, tx, chainID, 13)
	require.NoError(t, err)
	empty := new(StdSignature)

	// signing should be deterministic
	sig2a, err := SignTx(priv, tx, chainID, 2)
	require.NoError(t, err)
	assert.Equal(t, sig2, sig2a)

	// the first one must have a signature in the store
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// empty sig
	_, err = VerifySignature(kv, empty, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// must be signed by the same chain
	_, err = VerifySignature(kv, sig0, bz, chainID+"-other")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// must be signed over the same bytes
	_, err = VerifySignature(kv, sig0, []byte("other bytes"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// first is okay
	cond, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, perm, cond)

	// replay is rejected
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	// next in sequence is okay, skipping ahead is not
	_, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)
	_, err = VerifySignature(kv, sig13, bz, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))

	user, err := NewBucket().GetOrCreate(kv, pub)
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.Sequence)
	assert.Equal(t, pub, user.PubKey)
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "hot_summer_days"

	priv := crypto.GenPrivKeyEd25519()
	priv2 := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("the best bytes"))
	sig, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)
	sig2, err := SignTx(priv2, tx, chainID, 0)
	require.NoError(t, err)

	tx.Signatures = []*StdSignature{sig, sig2}
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Equal(t, 2, len(signers))
	assert.Equal(t, priv.PublicKey().Condition(), signers[0])
	assert.Equal(t, priv2.PublicKey().Condition(), signers[1])

	// a single bad signature rejects the whole tx
	tx.Signatures = []*StdSignature{sig2}
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, ErrInvalidSequence.Is(err))
}
