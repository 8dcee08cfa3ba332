package quorum

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	val, ok := GetHeight(ctx)
	assert.Equal(t, int64(0), val)
	assert.False(t, ok)
	ctx = WithHeight(ctx, 7)
	val, ok = GetHeight(ctx)
	assert.Equal(t, int64(7), val)
	assert.True(t, ok)
	// height is set once per block
	assert.Panics(t, func() { WithHeight(ctx, 9) })

	// changing the info modifies the logger, but not the height
	ctx2 := WithLogInfo(ctx, "multisig", "0000000000000001")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	val, _ = GetHeight(ctx2)
	assert.Equal(t, int64(7), val)

	assert.Panics(t, func() { GetChainID(ctx) })
	ctx2 = WithChainID(ctx, "local-quorum")
	assert.Equal(t, "local-quorum", GetChainID(ctx2))
	assert.Panics(t, func() { WithChainID(ctx2, "local-quorum") })
	assert.Panics(t, func() { WithChainID(ctx, "bad") })
}

func TestChainID(t *testing.T) {
	cases := []struct {
		chainID string
		valid   bool
	}{
		{"", false},
		{"foo", false},
		{"quorum", true},
		{"local-quorum", true},
		{"test_chain-88", true},
		{"invalid;;chars", false},
		{"this-chain-id-is-way-too-long", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.valid, IsValidChainID(tc.chainID), tc.chainID)
	}
}
