package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string         `json:"chain_id"`
	AppState quorum.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrap(err, "loading genesis file")
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrap(errors.ErrInput, err.Error())
	}
	return gen, nil
}

// SaveGenesis writes the genesis as indented json.
func SaveGenesis(filePath string, gen Genesis) error {
	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize genesis")
	}
	if err := ioutil.WriteFile(filePath, raw, 0600); err != nil {
		return errors.Wrap(err, "write genesis file")
	}
	return nil
}
