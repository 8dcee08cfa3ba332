package main

import (
	"context"
	"flag"
	"os"
	"sync"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/client"
	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/commands/server"
)

// node is the ledger a command talks to. It is either a remote tendermint
// node or a ledger embedded in this process.
type node interface {
	ChainID() (string, error)
	Commit(tx quorum.Marshaller) (*quorum.DeliverResult, error)
	Query(path string, data []byte) ([]byte, error)
}

// nodeFlags registers the flags that select the node. When -home is set,
// the ledger stored in that directory is used directly. Otherwise the
// tendermint node at -tm is contacted.
func nodeFlags(fl *flag.FlagSet) func() node {
	var (
		tmAddrFl = fl.String("tm", env("QUORUM_TM_ADDR", "http://localhost:26657"),
			"Tendermint node address. You can use QUORUM_TM_ADDR environment variable to set it.")
		homeFl = fl.String("home", env("QUORUM_HOME", ""),
			"Directory of a quorumd node to use as an embedded ledger instead of contacting tendermint. You can use QUORUM_HOME environment variable to set it.")
	)
	return func() node {
		if *homeFl != "" {
			return &localNode{home: *homeFl}
		}
		return &remoteNode{client: client.NewClient(client.NewHTTPConnection(*tmAddrFl))}
	}
}

type remoteNode struct {
	client *client.Client
}

func (n *remoteNode) ChainID() (string, error) {
	return n.client.ChainID(context.Background())
}

func (n *remoteNode) Commit(tx quorum.Marshaller) (*quorum.DeliverResult, error) {
	res, err := n.client.CommitTx(context.Background(), tx)
	if err != nil {
		return nil, err
	}
	return res.Result, nil
}

func (n *remoteNode) Query(path string, data []byte) ([]byte, error) {
	return n.client.Query(context.Background(), path, data)
}

type localNode struct {
	home string
}

var (
	ledgersMu sync.Mutex
	// ledgers holds every ledger opened by this process. The database
	// is locked while open, so each home is opened at most once.
	ledgers = make(map[string]*quorumd.Ledger)
)

func (n *localNode) ledger() (*quorumd.Ledger, error) {
	ledgersMu.Lock()
	defer ledgersMu.Unlock()

	if l, ok := ledgers[n.home]; ok {
		return l, nil
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stderr)), log.AllowError())
	l, err := quorumd.OpenLedger(n.home, server.GenesisFile(n.home), logger)
	if err != nil {
		return nil, err
	}
	ledgers[n.home] = l
	return l, nil
}

func (n *localNode) ChainID() (string, error) {
	l, err := n.ledger()
	if err != nil {
		return "", err
	}
	return l.ChainID(), nil
}

func (n *localNode) Commit(tx quorum.Marshaller) (*quorum.DeliverResult, error) {
	l, err := n.ledger()
	if err != nil {
		return nil, err
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, err
	}
	return l.Submit(raw)
}

func (n *localNode) Query(path string, data []byte) ([]byte, error) {
	l, err := n.ledger()
	if err != nil {
		return nil, err
	}
	return l.Query(path, data)
}
