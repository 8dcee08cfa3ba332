package app

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
)

// Ledger is an embedded single node ledger. It drives the application the
// way tendermint does, but every submitted transaction is checked,
// delivered and committed in a block of its own. Submissions are
// serialized, so concurrent callers observe a total order.
type Ledger struct {
	mu     sync.Mutex
	app    app.BaseApp
	height int64
}

// OpenLedger loads the ledger persisted in home, initializing it from the
// genesis file on first use.
func OpenLedger(home string, genesisFile string, logger log.Logger) (*Ledger, error) {
	gen, err := app.LoadGenesis(genesisFile)
	if err != nil {
		return nil, err
	}
	base, err := Application("quorumd", Stack(nil), TxDecoder, filepath.Join(home, "quorum.db"), false)
	if err != nil {
		return nil, err
	}
	base.WithLogger(logger)
	return NewLedger(base, gen)
}

// NewLedger wraps the application. If the application state was never
// initialized, the genesis is loaded first.
func NewLedger(base app.BaseApp, gen app.Genesis) (_ *Ledger, err error) {
	// Initialization errors are reported by a panic, as ABCI provides no
	// other way.
	defer errors.Recover(&err)

	height := base.Info(abci.RequestInfo{}).LastBlockHeight
	if base.GetChainID() != "" {
		return &Ledger{app: base, height: height}, nil
	}

	state, err := json.Marshal(gen.AppState)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	base.InitChain(abci.RequestInitChain{
		Time:          time.Now(),
		ChainId:       gen.ChainID,
		AppStateBytes: state,
	})
	base.Commit()
	height = base.Info(abci.RequestInfo{}).LastBlockHeight
	return &Ledger{app: base, height: height}, nil
}

// ChainID returns the chain the ledger was initialized with.
func (l *Ledger) ChainID() string {
	return l.app.GetChainID()
}

// Height returns the height of the last committed block.
func (l *Ledger) Height() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.height
}

// Submit processes the serialized transaction in a new block. A
// transaction rejected by the check phase does not produce a block.
func (l *Ledger) Submit(txBytes []byte) (*quorum.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := quorum.ParseCheckOrError(l.app.CheckTx(txBytes)); err != nil {
		return nil, err
	}

	l.height++
	header := abci.Header{
		ChainID: l.app.GetChainID(),
		Height:  l.height,
		Time:    time.Now(),
	}
	l.app.BeginBlock(abci.RequestBeginBlock{Header: header})
	res := l.app.DeliverTx(txBytes)
	l.app.EndBlock(abci.RequestEndBlock{Height: l.height})
	l.app.Commit()
	return quorum.ParseDeliverOrError(res)
}

// Query runs the query against the last committed state.
func (l *Ledger) Query(path string, data []byte) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := l.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.FromABCI(res.Code, res.Log)
	}
	return res.Value, nil
}
