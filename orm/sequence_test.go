package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/quorum/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	cases := map[string]struct {
		bucket     string
		name       string
		increments int64
	}{
		"few increments":       {"multisig", "id", 3},
		"crossing a byte":      {"multisig", "id", 300},
		"another bucket works": {"proposal", "id", 22},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			s := NewSequence(tc.bucket, tc.name)

			orig, err := s.Latest(db)
			require.NoError(t, err)
			assert.Equal(t, int64(0), orig)

			var (
				val  int64
				prev []byte
			)
			for i := int64(0); i < tc.increments; i++ {
				raw, err := s.NextVal(db)
				require.NoError(t, err)
				// raw keys must keep the numeric order
				assert.Equal(t, 1, bytes.Compare(raw, prev))
				prev = raw
				val = DecodeSequence(raw)
			}
			assert.Equal(t, tc.increments, val)

			latest, err := s.Latest(db)
			require.NoError(t, err)
			assert.Equal(t, tc.increments, latest)

			next, err := s.NextInt(db)
			require.NoError(t, err)
			assert.Equal(t, tc.increments+1, next)
		})
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("multisig", "a")
	b := NewSequence("multisig", "b")

	_, err := a.NextInt(db)
	require.NoError(t, err)
	_, err = a.NextInt(db)
	require.NoError(t, err)
	val, err := b.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
}

func TestEncodeSequence(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, EncodeSequence(258))
	assert.Equal(t, int64(258), DecodeSequence([]byte{0, 0, 0, 0, 0, 0, 1, 2}))
	assert.Equal(t, int64(0), DecodeSequence(nil))
}
