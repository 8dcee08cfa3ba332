package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
)

const (
	flagChainID = "chain-id"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisFile returns the location of the genesis file, shared with
// tendermint, for the given home directory.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

func parseInitArgs(args []string) (string, bool, []string, error) {
	var chainID string
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.StringVar(&chainID, flagChainID, "local-quorum", "chain ID used when a new genesis file is created")
	initFlags.BoolVar(&force, flagForce, false, "overwrite an existing app_state")
	err := initFlags.Parse(args)
	return chainID, force, initFlags.Args(), err
}

// InitCmd adds the app_state produced by gen to the genesis file in home.
// When tendermint already created the file, only the app_state is replaced
// and every other field is preserved. Otherwise a minimal genesis, enough
// for the embedded ledger, is written.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	chainID, force, rest, err := parseInitArgs(args)
	if err != nil {
		return err
	}
	state, err := gen(rest)
	if err != nil {
		return errors.Wrap(err, "cannot generate app_state")
	}

	genFile := GenesisFile(home)
	if !fileExists(genFile) {
		if err := os.MkdirAll(filepath.Dir(genFile), 0700); err != nil {
			return errors.Wrap(err, "cannot create config directory")
		}
		var opts map[string]json.RawMessage
		if err := json.Unmarshal(state, &opts); err != nil {
			return errors.Wrap(errors.ErrInput, err.Error())
		}
		genesis := app.Genesis{ChainID: chainID, AppState: opts}
		if err := app.SaveGenesis(genFile, genesis); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile, "chain", chainID)
		return nil
	}

	if err := addGenesisOptions(genFile, state, force); err != nil {
		return err
	}
	logger.Info("Updated genesis file", "path", genFile)
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, state json.RawMessage, force bool) error {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrap(err, "cannot read genesis file")
	}

	var doc GenesisDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if s, ok := doc["app_state"]; ok && len(s) > 0 && string(s) != "null" && !force {
		return errors.Wrapf(errors.ErrState, "%s already has an app_state, use -%s to overwrite", filename, flagForce)
	}

	doc["app_state"] = state
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot serialize genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
