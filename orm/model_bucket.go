package orm

import (
	"regexp"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	quorum.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models rather than
// raw bytes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db quorum.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists, and
	// ErrNotFound otherwise.
	Has(db quorum.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. The model is validated
	// before being written.
	Put(db quorum.KVStore, key []byte, m Model) error

	// DBKey returns the full key under which given primary key is stored.
	DBKey(key []byte) []byte
}

// NewModelBucket returns a ModelBucket instance storing all entities
// under "<name>:" prefix.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic("illegal bucket name: " + name)
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
	}
}

type modelBucket struct {
	prefix []byte
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) DBKey(key []byte) []byte {
	res := make([]byte, 0, len(mb.prefix)+len(key))
	res = append(res, mb.prefix...)
	return append(res, key...)
}

func (mb *modelBucket) One(db quorum.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T %X not in the store", dest, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (mb *modelBucket) Has(db quorum.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%X not in the store", key)
	}
	return nil
}

func (mb *modelBucket) Put(db quorum.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	if err := db.Set(mb.DBKey(key), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
