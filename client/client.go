package client

import (
	"context"

	rpcclient "github.com/tendermint/tendermint/rpc/client"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Client is a tendermint client wrapped to provide simple access to a
// quorum node. Errors returned by the application are rebuilt from their
// ABCI code, so that they can be tested with the errors package.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// Status returns current height and other (subjective) status info from this node
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err.Error())
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the block header at the given height.
// Returns an error if no header exists yet for that height
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err.Error())
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no headers for height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// ChainID returns the chain ID declared in the genesis of the node.
// Signatures are bound to it.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	res, err := c.conn.Genesis()
	if err != nil {
		return "", errors.Wrapf(errors.ErrNetwork, "genesis: %s", err.Error())
	}
	if res.Genesis == nil || res.Genesis.ChainID == "" {
		return "", errors.Wrap(errors.ErrEmpty, "chain id")
	}
	return res.Genesis.ChainID, nil
}

// SubmitTx will submit the tx to the mempool and return once it passed
// the check phase. The transaction is not yet part of a block.
func (c *Client) SubmitTx(ctx context.Context, tx quorum.Marshaller) (TransactionID, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err.Error())
	}
	// a checktx error is handled like any other error... didn't make it into mempool... will not make it into block
	if res.Code != errors.SuccessABCICode {
		return nil, errors.FromABCI(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits the transaction and waits until it is included in a
// block. An error is returned if either the check or the deliver phase
// failed.
func (c *Client) CommitTx(ctx context.Context, tx quorum.Marshaller) (*CommitResult, error) {
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err.Error())
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err.Error())
	}
	if _, err := quorum.ParseCheckOrError(res.CheckTx); err != nil {
		return nil, err
	}
	result, err := quorum.ParseDeliverOrError(res.DeliverTx)
	if err != nil {
		return nil, err
	}
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
	}, nil
}

// Query returns the value that the application query handler registered
// under path responds with for the given data. Application errors are
// returned as errors.
func (c *Client) Query(ctx context.Context, path string, data []byte) ([]byte, error) {
	res, err := c.conn.ABCIQuery(path, data)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "query %s: %s", path, err.Error())
	}
	if res.Response.Code != errors.SuccessABCICode {
		return nil, errors.FromABCI(res.Response.Code, res.Response.Log)
	}
	return res.Response.Value, nil
}
