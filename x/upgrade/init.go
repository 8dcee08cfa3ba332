package upgrade

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Initializer fulfils the Initializer interface to load data from the genesis
// file
type Initializer struct{}

var _ quorum.Initializer = (*Initializer)(nil)

// FromGenesis registers the programs listed under the "upgrade" key.
func (*Initializer) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var programs []Program
	if err := opts.ReadOptions("upgrade", &programs); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	bucket := NewProgramBucket()
	for i := range programs {
		p := &programs[i]
		if p.Version == 0 {
			p.Version = 1
		}
		if err := bucket.Save(kv, p); err != nil {
			return errors.Wrapf(err, "cannot save #%d program", i)
		}
	}
	return nil
}
