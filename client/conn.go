package client

import (
	rpcclient "github.com/tendermint/tendermint/rpc/client"
)

// NewHTTPConnection takes a URL and sends all requests to the remote node.
// Both tcp:// and http:// addresses are accepted.
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}
