package upgrade

import (
	"regexp"

	"github.com/tendermint/go-amino"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/orm"
)

// CodeHashLength is the length of a sha256 code digest.
const CodeHashLength = 32

var (
	cdc = amino.NewCodec()

	isProgramName = regexp.MustCompile(`^[a-z0-9_\-]{3,32}$`).MatchString
)

// Program is a deployed piece of code and the authority that may change
// it.
type Program struct {
	Name      string         `json:"name"`
	Authority quorum.Address `json:"authority"`
	// Version starts at 1 and is incremented by every upgrade.
	Version  uint32 `json:"version"`
	CodeHash []byte `json:"code_hash"`
}

var _ orm.Model = (*Program)(nil)

// Marshal serializes the program with amino.
func (p *Program) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(p)
}

// Unmarshal loads the program from its amino representation.
func (p *Program) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, p); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// Validate checks the program is consistent.
func (p *Program) Validate() error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if err := p.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if p.Version == 0 {
		return errors.Wrap(errors.ErrModel, "version must be positive")
	}
	return validateCodeHash(p.CodeHash)
}

func validateName(name string) error {
	if !isProgramName(name) {
		return errors.Wrapf(errors.ErrInput, "program name %q", name)
	}
	return nil
}

func validateCodeHash(h []byte) error {
	if len(h) != CodeHashLength {
		return errors.Wrapf(errors.ErrInput, "code hash of %d bytes", len(h))
	}
	return nil
}

// ProgramBucket stores programs by name.
type ProgramBucket struct {
	orm.ModelBucket
}

// NewProgramBucket returns the bucket holding all programs.
func NewProgramBucket() ProgramBucket {
	return ProgramBucket{ModelBucket: orm.NewModelBucket("program")}
}

// GetProgram loads the program registered under the name.
func (b ProgramBucket) GetProgram(db quorum.ReadOnlyKVStore, name string) (*Program, error) {
	var p Program
	if err := b.One(db, []byte(name), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save stores the program under its name.
func (b ProgramBucket) Save(db quorum.KVStore, p *Program) error {
	return b.Put(db, []byte(p.Name), p)
}
