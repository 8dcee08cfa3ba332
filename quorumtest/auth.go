package quorumtest

import (
	"context"

	"github.com/iov-one/quorum"
)

// Auth authenticates the same signers regardless of the context.
type Auth struct {
	Signers []quorum.Condition
}

func (a Auth) GetConditions(quorum.Context) []quorum.Condition {
	return a.Signers
}

func (a Auth) HasAddress(_ quorum.Context, addr quorum.Address) bool {
	return hasAddress(a.Signers, addr)
}

// CtxAuth authenticates the signers stored in the context under Key. An
// instance with another key does not see them.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context in which given signers are authenticated.
func (a CtxAuth) SetConditions(ctx quorum.Context, signers ...quorum.Condition) quorum.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), signers)
}

func (a CtxAuth) GetConditions(ctx quorum.Context) []quorum.Condition {
	signers, _ := ctx.Value(ctxAuthKey(a.Key)).([]quorum.Condition)
	return signers
}

func (a CtxAuth) HasAddress(ctx quorum.Context, addr quorum.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(signers []quorum.Condition, addr quorum.Address) bool {
	for _, s := range signers {
		if s.Address().Equals(addr) {
			return true
		}
	}
	return false
}
