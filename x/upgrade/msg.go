package upgrade

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const (
	pathRegisterMsg     = "upgrade/register"
	pathSetAuthorityMsg = "upgrade/set_authority"
	pathUpgradeMsg      = "upgrade/upgrade"
)

// RegisterMsg registers a new program.
type RegisterMsg struct {
	Name string `json:"name"`
	// Authority defaults to the main signer when empty.
	Authority quorum.Address `json:"authority,omitempty"`
	CodeHash  []byte         `json:"code_hash"`
}

var _ quorum.Msg = (*RegisterMsg)(nil)

// Path returns the routing path for this message.
func (RegisterMsg) Path() string {
	return pathRegisterMsg
}

// Validate makes sure that this is sensible.
func (m *RegisterMsg) Validate() error {
	if err := validateName(m.Name); err != nil {
		return err
	}
	if len(m.Authority) != 0 {
		if err := m.Authority.Validate(); err != nil {
			return errors.Wrap(err, "authority")
		}
	}
	return validateCodeHash(m.CodeHash)
}

// SetAuthorityMsg hands a program over to a new authority.
type SetAuthorityMsg struct {
	Name         string         `json:"name"`
	NewAuthority quorum.Address `json:"new_authority"`
}

var _ quorum.Msg = (*SetAuthorityMsg)(nil)

// Path returns the routing path for this message.
func (SetAuthorityMsg) Path() string {
	return pathSetAuthorityMsg
}

// Validate makes sure that this is sensible.
func (m *SetAuthorityMsg) Validate() error {
	if err := validateName(m.Name); err != nil {
		return err
	}
	if err := m.NewAuthority.Validate(); err != nil {
		return errors.Wrap(err, "new authority")
	}
	return nil
}

// UpgradeMsg replaces the code of a program.
type UpgradeMsg struct {
	Name     string `json:"name"`
	CodeHash []byte `json:"code_hash"`
}

var _ quorum.Msg = (*UpgradeMsg)(nil)

// Path returns the routing path for this message.
func (UpgradeMsg) Path() string {
	return pathUpgradeMsg
}

// Validate makes sure that this is sensible.
func (m *UpgradeMsg) Validate() error {
	if err := validateName(m.Name); err != nil {
		return err
	}
	return validateCodeHash(m.CodeHash)
}
