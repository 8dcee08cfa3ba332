package quorumtest

import "github.com/iov-one/quorum"

type calls struct {
	checks   int
	delivers int
}

// CallCount returns how many times Check and Deliver were called.
func (c *calls) CallCount() int {
	return c.checks + c.delivers
}

// Handler records its calls and returns a result with Log set, or the
// configured error.
type Handler struct {
	calls
	Log        string
	CheckErr   error
	DeliverErr error
}

var _ quorum.Handler = (*Handler)(nil)

func (h *Handler) Check(quorum.Context, quorum.KVStore, quorum.Tx) (*quorum.CheckResult, error) {
	h.checks++
	return &quorum.CheckResult{Log: h.Log}, h.CheckErr
}

func (h *Handler) Deliver(quorum.Context, quorum.KVStore, quorum.Tx) (*quorum.DeliverResult, error) {
	h.delivers++
	return &quorum.DeliverResult{Log: h.Log}, h.DeliverErr
}

// Decorator records its calls. With Err set it fails without calling the
// next handler.
type Decorator struct {
	calls
	Err error
}

var _ quorum.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx, next quorum.Checker) (*quorum.CheckResult, error) {
	d.checks++
	if d.Err != nil {
		return nil, d.Err
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx, next quorum.Deliverer) (*quorum.DeliverResult, error) {
	d.delivers++
	if d.Err != nil {
		return nil, d.Err
	}
	return next.Deliver(ctx, db, tx)
}

// PanicHandler panics with Value on every call.
type PanicHandler struct {
	Value interface{}
}

func (p PanicHandler) Check(quorum.Context, quorum.KVStore, quorum.Tx) (*quorum.CheckResult, error) {
	panic(p.Value)
}

func (p PanicHandler) Deliver(quorum.Context, quorum.KVStore, quorum.Tx) (*quorum.DeliverResult, error) {
	panic(p.Value)
}

// WriteHandler stores Value under Key, then returns Err. The write is
// visible even when Err is set, so that rollbacks can be tested.
type WriteHandler struct {
	Key, Value []byte
	Err        error
}

func (h WriteHandler) Check(_ quorum.Context, db quorum.KVStore, _ quorum.Tx) (*quorum.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &quorum.CheckResult{}, h.Err
}

func (h WriteHandler) Deliver(_ quorum.Context, db quorum.KVStore, _ quorum.Tx) (*quorum.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	return &quorum.DeliverResult{}, h.Err
}
