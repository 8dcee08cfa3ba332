package x

import (
	"github.com/iov-one/quorum"
)

// Authenticator extracts authentication information from the context.
// Handlers receive it in their constructor, so that the signature scheme
// (or the derived multisig authority) can be swapped without touching
// handler code.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(quorum.Context) []quorum.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(quorum.Context, quorum.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator. Conditions are
// reported in the order of the authenticators.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators. A
// condition granted by more than one authenticator is returned once.
func (m MultiAuth) GetConditions(ctx quorum.Context) []quorum.Condition {
	var res []quorum.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx quorum.Context, addr quorum.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx quorum.Context, auth Authenticator) []quorum.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]quorum.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx quorum.Context, auth Authenticator) quorum.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx quorum.Context, auth Authenticator, required []quorum.Address) bool {
	return HasNAddresses(ctx, auth, required, len(required))
}

// HasNAddresses returns true if at least n elements in required are
// also in context. A non positive n is always satisfied.
func HasNAddresses(ctx quorum.Context, auth Authenticator, required []quorum.Address, n int) bool {
	if n <= 0 {
		return true
	}
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			continue
		}
		n--
		if n == 0 {
			return true
		}
	}
	return false
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx quorum.Context, auth Authenticator, required []quorum.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions returns true if at least n elements in requested are
// also in context. A non positive n is always satisfied.
func HasNConditions(ctx quorum.Context, auth Authenticator, requested []quorum.Condition, n int) bool {
	if n <= 0 {
		return true
	}
	granted := auth.GetConditions(ctx)
	for _, c := range requested {
		if !hasCondition(granted, c) {
			continue
		}
		n--
		if n == 0 {
			return true
		}
	}
	return false
}

func hasCondition(set []quorum.Condition, c quorum.Condition) bool {
	for _, s := range set {
		if s.Equals(c) {
			return true
		}
	}
	return false
}
