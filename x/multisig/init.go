package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ quorum.Initializer = (*Initializer)(nil)

// FromGenesis creates the multisigs listed under the "multisig" key. They
// get sequential IDs in the order of the list.
func (*Initializer) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var multisigs []struct {
		Owners         []quorum.Address `json:"owners"`
		Threshold      uint32           `json:"threshold"`
		AuthorityNonce uint32           `json:"authority_nonce"`
	}
	if err := opts.ReadOptions("multisig", &multisigs); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	bucket := NewMultisigBucket()
	for i, m := range multisigs {
		ms := &Multisig{
			Owners:         m.Owners,
			Threshold:      m.Threshold,
			AuthorityNonce: m.AuthorityNonce,
		}
		if _, err := bucket.Create(kv, ms); err != nil {
			return errors.Wrapf(err, "cannot save #%d multisig", i)
		}
	}
	return nil
}
