package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder quorum.TxDecoder
	handler quorum.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder quorum.TxDecoder,
	handler quorum.Handler,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx - ABCI - dispatches to the handler
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return quorum.DeliverTxError(err, b.debug)
	}

	ctx := quorum.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", quorum.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return quorum.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return quorum.CheckTxError(err, b.debug)
	}

	ctx := quorum.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", quorum.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return quorum.CheckOrError(res, err, b.debug)
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx quorum.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return tx, nil
}
