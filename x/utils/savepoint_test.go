package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store"
)

func TestSavepoint(t *testing.T) {
	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    quorum.Decorator
		handler quorum.Handler
		check   bool // whether to call Check or Deliver
		wantErr *errors.Error

		written [][]byte
		missing [][]byte
	}{
		"savepoint deactivated, returns error, both written": {
			save:    NewSavepoint(),
			handler: quorumtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			check:   true,
			wantErr: errors.ErrState,
			written: [][]byte{ok, nk},
		},
		"savepoint activated, returns error, one written": {
			save:    NewSavepoint().OnCheck(),
			handler: quorumtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			check:   true,
			wantErr: errors.ErrState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint activated for deliver, returns error, one written": {
			save:    NewSavepoint().OnDeliver(),
			handler: quorumtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			wantErr: errors.ErrState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both behaviors": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: quorumtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			wantErr: errors.ErrState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint check does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: quorumtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrState},
			wantErr: errors.ErrState,
			written: [][]byte{ok, nk},
		},
		"no rollback when success returned": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: quorumtest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, kv, nil, tc.handler)
			} else {
				_, err = tc.save.Deliver(ctx, kv, nil, tc.handler)
			}
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %v", err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

func TestInCache(t *testing.T) {
	kv := store.MemStore()
	k := []byte("key")

	err := InCache(kv, func(db quorum.KVStore) error {
		require.NoError(t, db.Set(k, []byte("discarded")))
		return errors.ErrState
	})
	assert.True(t, errors.ErrState.Is(err))
	has, err := kv.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	err = InCache(kv, func(db quorum.KVStore) error {
		return db.Set(k, []byte("kept"))
	})
	require.NoError(t, err)
	val, err := kv.Get(k)
	require.NoError(t, err)
	assert.Equal(t, []byte("kept"), val)
}
