package client

import (
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"

	"github.com/iov-one/quorum"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// CommitResult is returned once the transaction is in a block.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *quorum.DeliverResult
}

// Status is the current status of the node we connect to.
// Latest block height is a useful info
type Status struct {
	Height     int64
	CatchingUp bool
}

// Header is a tendermint block header
type Header = tmtypes.Header
