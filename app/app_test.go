package app

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x/utils"
)

// rawQuery returns the value stored under the requested key.
type rawQuery struct{}

func (rawQuery) Query(db quorum.ReadOnlyKVStore, key []byte) ([]byte, error) {
	val, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	return val, nil
}

// pathDecoder builds a transaction routed by the raw bytes.
func pathDecoder(raw []byte) (quorum.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.ErrEmpty
	}
	return &quorumtest.Tx{Msg: quorumtest.Msg(string(raw))}, nil
}

func newTestApp(t testing.TB, kv quorum.CommitKVStore, init quorum.Initializer) (BaseApp, *prometheus.Registry) {
	t.Helper()

	r := NewRouter()
	r.Handle("test/write", quorumtest.WriteHandler{Key: []byte("k"), Value: []byte("v")})
	r.Handle("test/fail", quorumtest.WriteHandler{Key: []byte("bad"), Value: []byte("v"), Err: errors.ErrState})

	qr := NewQueryRouter()
	qr.RegisterQuery("/raw", rawQuery{})

	reg := prometheus.NewRegistry()
	handler := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		NewMetrics(reg),
		utils.NewSavepoint().OnCheck().OnDeliver(),
	).WithHandler(r)

	store := NewStoreApp("test", kv, qr, context.Background()).WithInit(init)
	return NewBaseApp(store, pathDecoder, handler, false), reg
}

type writeInit struct{}

func (writeInit) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var val string
	if err := opts.ReadOptions("genesis", &val); err != nil {
		return err
	}
	return kv.Set([]byte("g"), []byte(val))
}

func TestBaseApp(t *testing.T) {
	kv := iavl.NewMemCommitStore()
	app, reg := newTestApp(t, kv, writeInit{})

	app.InitChain(abci.RequestInitChain{
		ChainId:       "test-chain",
		AppStateBytes: []byte(`{"genesis": "hello"}`),
	})
	assert.Equal(t, "test-chain", app.GetChainID())
	app.Commit()

	res := app.Query(abci.RequestQuery{Path: "/raw", Data: []byte("g")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, []byte("hello"), res.Value)
	assert.Equal(t, int64(1), res.Height)

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2}})

	check := app.CheckTx([]byte("test/write"))
	assert.Equal(t, uint32(0), check.Code, check.Log)

	deliver := app.DeliverTx([]byte("test/write"))
	assert.Equal(t, uint32(0), deliver.Code, deliver.Log)

	failed := app.DeliverTx([]byte("test/fail"))
	assert.Equal(t, errors.ErrState.ABCICode(), failed.Code)

	missing := app.DeliverTx([]byte("test/missing"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), missing.Code)

	empty := app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInput.ABCICode(), empty.Code)

	// nothing is visible before the commit
	res = app.Query(abci.RequestQuery{Path: "/raw", Data: []byte("k")})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	res = app.Query(abci.RequestQuery{Path: "/raw", Data: []byte("k")})
	assert.Equal(t, uint32(0), res.Code, res.Log)
	assert.Equal(t, []byte("v"), res.Value)
	assert.Equal(t, int64(2), res.Height)

	// the failed transaction was rolled back by the savepoint
	res = app.Query(abci.RequestQuery{Path: "/raw", Data: []byte("bad")})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	res = app.Query(abci.RequestQuery{Path: "/unknown"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), res.Code)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, "test", info.Data)
	assert.Equal(t, int64(2), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := make(map[string]float64)
	for _, f := range families {
		if f.GetName() != "quorum_tx_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			var key string
			for _, l := range m.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + " "
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), counts["code=ok path=test/write phase=check "])
	assert.Equal(t, float64(1), counts["code=ok path=test/write phase=deliver "])
	assert.Equal(t, float64(1), counts["code=10 path=test/fail phase=deliver "])
}

func TestStoreAppInitChainTwice(t *testing.T) {
	kv := iavl.NewMemCommitStore()
	app, _ := newTestApp(t, kv, writeInit{})
	app.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{}`)})
	app.Commit()

	// a restarted app loads the chain ID and refuses a second genesis
	restarted, _ := newTestApp(t, kv, writeInit{})
	assert.Equal(t, "test-chain", restarted.GetChainID())
	assert.Panics(t, func() {
		restarted.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{}`)})
	})
}

func TestStoreAppRequiresAppState(t *testing.T) {
	app, _ := newTestApp(t, iavl.NewMemCommitStore(), writeInit{})
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: "test-chain"})
	})
}

func TestCheckTxAfterInitChain(t *testing.T) {
	app, _ := newTestApp(t, iavl.NewMemCommitStore(), writeInit{})
	app.InitChain(abci.RequestInitChain{ChainId: "test-chain", AppStateBytes: []byte(`{"genesis": "hello"}`)})
	app.Commit()

	// No block began yet, the chain ID must still be visible.
	assert.Equal(t, "test-chain", quorum.GetChainID(app.BlockContext()))
	height, ok := quorum.GetHeight(app.BlockContext())
	assert.True(t, ok)
	assert.Equal(t, int64(0), height)

	check := app.CheckTx([]byte("test/write"))
	assert.Equal(t, uint32(0), check.Code, check.Log)
}
