package orm

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// NewQueryHandler returns a handler answering primary key lookups in the
// given bucket. The response holds the raw, serialized model. An unknown
// key returns ErrNotFound.
func NewQueryHandler(b ModelBucket) quorum.QueryHandler {
	return queryHandler{b: b}
}

type queryHandler struct {
	b ModelBucket
}

func (q queryHandler) Query(db quorum.ReadOnlyKVStore, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := db.Get(q.b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	return raw, nil
}
