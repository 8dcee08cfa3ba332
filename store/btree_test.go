package store

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t testing.TB, kv ReadOnlyKVStore, key []byte) []byte {
	t.Helper()
	val, err := kv.Get(key)
	require.NoError(t, err)
	return val
}

func mustHas(t testing.TB, kv ReadOnlyKVStore, key []byte) bool {
	t.Helper()
	ok, err := kv.Has(key)
	require.NoError(t, err)
	return ok
}

// TestBTreeCacheGetSet does basic sanity checks on our cache
//
// Other tests should handle deletes, setting same value,
// and general fuzzing
func TestBTreeCacheGetSet(t *testing.T) {
	// devnull is a black hole... just to keep our types proper
	devnull := BTreeCacheable{EmptyKVStore{}}

	// base is the root of our data, we can layer on top and
	// all queries should work
	base := devnull.CacheWrap()

	// make sure the btree is empty at start but returns results
	// that are writen to it
	k, v := []byte("french"), []byte("fry")
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	require.NoError(t, base.Set(k, v))
	assert.Equal(t, v, mustGet(t, base, k))
	assert.True(t, mustHas(t, base, k))

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, cache, k))
	assert.True(t, mustHas(t, cache, k))

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	assert.Nil(t, mustGet(t, cache, k2))
	require.NoError(t, cache.Set(k2, v2))
	assert.Equal(t, v2, mustGet(t, cache, k2))
	assert.Nil(t, mustGet(t, base, k2))
	assert.True(t, mustHas(t, cache, k2))
	assert.False(t, mustHas(t, base, k2))

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assert.Equal(t, v, mustGet(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	assert.Equal(t, v, mustGet(t, c2, k))
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()

	// and commit another
	c3 := base.CacheWrap()
	assert.Equal(t, v2, mustGet(t, c3, k2))
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())

	// make sure it commits proper
	assert.Nil(t, mustGet(t, base, k))
	assert.False(t, mustHas(t, base, k))
	assert.Equal(t, v2, mustGet(t, base, k2))
	assert.Nil(t, mustGet(t, base, k3))

	// and to test devnull....
	require.NoError(t, base.Write())
	assert.Nil(t, mustGet(t, devnull, k2))
}

// TestBTreeCacheConflicts checks that we can handle
// overwriting values and deleting underlying values
func TestBTreeCacheConflicts(t *testing.T) {
	devnull := BTreeCacheable{EmptyKVStore{}}

	// make 10 keys and 20 values....
	ks := randKeys(10, 16)
	vs := randKeys(20, 40)

	type query struct {
		key   []byte
		value []byte
	}

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []query
		childQueries  []query
	}{
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(ks[1], vs[1]), SetOp(ks[2], vs[2])},
			childOps:      []Op{SetOp(ks[1], vs[11]), SetOp(ks[3], vs[7]), DelOp(ks[2])},
			parentQueries: []query{{ks[1], vs[1]}, {ks[2], vs[2]}, {ks[3], nil}},
			childQueries:  []query{{ks[1], vs[11]}, {ks[2], nil}, {ks[3], vs[7]}},
		},
		"delete then set again": {
			parentOps:     []Op{SetOp(ks[4], vs[4])},
			childOps:      []Op{DelOp(ks[4]), SetOp(ks[4], vs[14])},
			parentQueries: []query{{ks[4], vs[4]}},
			childQueries:  []query{{ks[4], vs[14]}},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent := devnull.CacheWrap()
			for _, op := range tc.parentOps {
				require.NoError(t, op.Apply(parent))
			}

			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				require.NoError(t, op.Apply(child))
			}

			// now check the parent is unaffected
			for _, q := range tc.parentQueries {
				assert.Equal(t, q.value, mustGet(t, parent, q.key))
				assert.Equal(t, q.value != nil, mustHas(t, parent, q.key))
			}

			// the child shows changes
			for _, q := range tc.childQueries {
				assert.Equal(t, q.value, mustGet(t, child, q.key))
				assert.Equal(t, q.value != nil, mustHas(t, child, q.key))
			}

			// write child to parent and make sure it also shows proper data
			require.NoError(t, child.Write())
			for _, q := range tc.childQueries {
				assert.Equal(t, q.value, mustGet(t, parent, q.key))
				assert.Equal(t, q.value != nil, mustHas(t, parent, q.key))
			}
		})
	}
}

func TestNonAtomicBatchKeepsOrder(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)
	k := []byte("key")
	require.NoError(t, b.Set(k, []byte("one")))
	require.NoError(t, b.Delete(k))
	require.NoError(t, b.Set(k, []byte("two")))
	assert.Len(t, b.ShowOps(), 3)

	// nothing is visible before write
	assert.Nil(t, mustGet(t, base, k))

	require.NoError(t, b.Write())
	assert.Equal(t, []byte("two"), mustGet(t, base, k))
	assert.Empty(t, b.ShowOps())
}

func randKeys(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = make([]byte, size)
		if _, err := rand.Read(res[i]); err != nil {
			panic(err)
		}
	}
	return res
}
