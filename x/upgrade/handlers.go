package upgrade

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r quorum.Registry, auth x.Authenticator) {
	programs := NewProgramBucket()
	r.Handle(pathRegisterMsg, RegisterHandler{auth: auth, programs: programs})
	r.Handle(pathSetAuthorityMsg, SetAuthorityHandler{auth: auth, programs: programs})
	r.Handle(pathUpgradeMsg, UpgradeHandler{auth: auth, programs: programs})
}

// RegisterQuery registers the /programs query, returning a program by
// name.
func RegisterQuery(qr quorum.QueryRegister) {
	qr.RegisterQuery("/programs", programQuery{programs: NewProgramBucket()})
}

type programQuery struct {
	programs ProgramBucket
}

func (q programQuery) Query(db quorum.ReadOnlyKVStore, name []byte) ([]byte, error) {
	p, err := q.programs.GetProgram(db, string(name))
	if err != nil {
		return nil, err
	}
	return p.Marshal()
}

// RegisterHandler creates a new program at version 1.
type RegisterHandler struct {
	auth     x.Authenticator
	programs ProgramBucket
}

var _ quorum.Handler = RegisterHandler{}

func (h RegisterHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h RegisterHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.programs.Save(db, p); err != nil {
		return nil, errors.Wrap(err, "cannot store program")
	}
	quorum.GetLogger(ctx).Info("program registered", "program", p.Name, "authority", p.Authority)
	return &quorum.DeliverResult{Data: []byte(p.Name)}, nil
}

func (h RegisterHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*Program, error) {
	var msg RegisterMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	authority := msg.Authority
	if len(authority) == 0 {
		authority = signer.Address()
	}
	if err := h.programs.Has(db, []byte(msg.Name)); err == nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "program %q", msg.Name)
	} else if !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	return &Program{
		Name:      msg.Name,
		Authority: authority,
		Version:   1,
		CodeHash:  msg.CodeHash,
	}, nil
}

// SetAuthorityHandler hands a program over to another authority.
type SetAuthorityHandler struct {
	auth     x.Authenticator
	programs ProgramBucket
}

var _ quorum.Handler = SetAuthorityHandler{}

func (h SetAuthorityHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h SetAuthorityHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p.Authority = msg.NewAuthority
	if err := h.programs.Save(db, p); err != nil {
		return nil, errors.Wrap(err, "cannot store program")
	}
	quorum.GetLogger(ctx).Info("program authority changed", "program", p.Name, "authority", p.Authority)
	return &quorum.DeliverResult{Data: []byte(p.Name)}, nil
}

func (h SetAuthorityHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*SetAuthorityMsg, *Program, error) {
	var msg SetAuthorityMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	p, err := loadAuthorized(ctx, h.auth, h.programs, db, msg.Name)
	if err != nil {
		return nil, nil, err
	}
	return &msg, p, nil
}

// UpgradeHandler replaces the code of a program.
type UpgradeHandler struct {
	auth     x.Authenticator
	programs ProgramBucket
}

var _ quorum.Handler = UpgradeHandler{}

func (h UpgradeHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, nil
}

func (h UpgradeHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p.CodeHash = msg.CodeHash
	p.Version++
	if err := h.programs.Save(db, p); err != nil {
		return nil, errors.Wrap(err, "cannot store program")
	}
	quorum.GetLogger(ctx).Info("program upgraded", "program", p.Name, "version", p.Version)
	return &quorum.DeliverResult{Data: []byte(p.Name)}, nil
}

func (h UpgradeHandler) validate(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*UpgradeMsg, *Program, error) {
	var msg UpgradeMsg
	if err := quorum.LoadMsg(tx, &msg); err != nil {
		return nil, nil, err
	}
	p, err := loadAuthorized(ctx, h.auth, h.programs, db, msg.Name)
	if err != nil {
		return nil, nil, err
	}
	return &msg, p, nil
}

// loadAuthorized returns the program if its authority signed the context.
func loadAuthorized(ctx quorum.Context, auth x.Authenticator, programs ProgramBucket, db quorum.KVStore, name string) (*Program, error) {
	p, err := programs.GetProgram(db, name)
	if err != nil {
		return nil, errors.Wrap(err, "program")
	}
	if !auth.HasAddress(ctx, p.Authority) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "program %q requires %s", name, p.Authority)
	}
	return p, nil
}
