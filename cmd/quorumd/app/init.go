package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
)

// GenInitOptions produces an app_state holding a single multisig. Every
// argument is the address of an owner and the threshold is a simple
// majority of them. Without arguments a key is generated, printed and
// used as the only owner, which is handy in dev mode.
func GenInitOptions(args []string) (json.RawMessage, error) {
	owners := make([]quorum.Address, 0, len(args))
	for i, a := range args {
		addr, err := quorum.ParseAddress(a)
		if err != nil {
			return nil, errors.Wrapf(err, "owner #%d", i)
		}
		owners = append(owners, addr)
	}
	if len(owners) == 0 {
		addr, keys, err := GenerateKey()
		if err != nil {
			return nil, err
		}
		fmt.Println(keys)
		owners = append(owners, addr)
	}

	state := map[string]interface{}{
		"multisig": []interface{}{
			map[string]interface{}{
				"owners":    owners,
				"threshold": len(owners)/2 + 1,
			},
		},
		"upgrade": []interface{}{},
	}
	return json.Marshal(state)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "quorum.db")
	}

	stack := Stack(prometheus.DefaultRegisterer)
	application, err := Application("quorumd", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

type output struct {
	Address quorum.Address `json:"address"`
	Pubkey  string         `json:"pub_key"`
	Secret  string         `json:"secret"`
}

// GenerateKey returns the address of a fresh key pair, along with a json
// representation of the keys. The secret is hex encoded, the format
// crypto.ParsePrivateKey reads.
func GenerateKey() (quorum.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{
		Address: addr,
		Pubkey:  hex.EncodeToString(pubKey),
		Secret:  hex.EncodeToString(privKey),
	}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "cannot serialize keys")
	}
	return addr, string(keys), nil
}
