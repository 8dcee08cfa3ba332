package multisig

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/x"
)

type contextKey int // local to the multisig module

const (
	contextKeyAuthority contextKey = iota
)

// AuthorityCondition returns the condition a multisig acts with while one
// of its proposals is executed. It is derived from the multisig ID and the
// nonce, so it is deterministic and cannot be produced by a signature.
func AuthorityCondition(multisigID []byte, nonce uint32) quorum.Condition {
	data := make([]byte, 0, len(multisigID)+1)
	data = append(data, multisigID...)
	data = append(data, byte(nonce))
	return quorum.NewCondition("multisig", "authority", data)
}

// withAuthority is a private method, as only the execute handler can grant
// the authority. An authority already present is replaced, so a nested
// execution runs with the innermost multisig only.
func withAuthority(ctx quorum.Context, cond quorum.Condition) quorum.Context {
	return context.WithValue(ctx, contextKeyAuthority, cond)
}

// Authenticate exposes the derived authority of the executing multisig.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the authority of the executing multisig, if any.
func (a Authenticate) GetConditions(ctx quorum.Context) []quorum.Condition {
	val, _ := ctx.Value(contextKeyAuthority).(quorum.Condition)
	if val == nil {
		return nil
	}
	return []quorum.Condition{val}
}

// HasAddress returns true iff this address is in GetConditions
func (a Authenticate) HasAddress(ctx quorum.Context, addr quorum.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
