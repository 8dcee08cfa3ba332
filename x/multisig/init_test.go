package multisig

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

func TestGenesis(t *testing.T) {
	owners := addresses(2)
	raw := fmt.Sprintf(`{
		"multisig": [
			{"owners": ["%s", "%s"], "threshold": 2, "authority_nonce": 255},
			{"owners": ["%s"], "threshold": 1}
		]
	}`, owners[0], owners[1], owners[1])
	var opts quorum.Options
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	b := NewMultisigBucket()
	first, err := b.GetMultisig(db, quorumtest.SequenceID(1))
	assert.Nil(t, err)
	assert.Equal(t, owners, first.Owners)
	assert.Equal(t, uint32(2), first.Threshold)
	assert.Equal(t, uint32(255), first.AuthorityNonce)
	assert.Equal(t, uint64(0), first.OwnerSetVersion)

	second, err := b.GetMultisig(db, quorumtest.SequenceID(2))
	assert.Nil(t, err)
	assert.Equal(t, owners[1:], second.Owners)
}

func TestGenesisInvalidMultisig(t *testing.T) {
	owners := addresses(1)
	raw := fmt.Sprintf(`{"multisig": [{"owners": ["%s"], "threshold": 2}]}`, owners[0])
	var opts quorum.Options
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))

	var ini Initializer
	err := ini.FromGenesis(opts, store.MemStore())
	assert.IsErr(t, ErrInvalidThreshold, err)
}

func TestGenesisMissingKey(t *testing.T) {
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(quorum.Options{}, store.MemStore()))
}
