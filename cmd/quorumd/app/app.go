/*
Package app links together all the various components
to construct the quorumd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/sigs"
	"github.com/iov-one/quorum/x/upgrade"
	"github.com/iov-one/quorum/x/utils"
)

// Authenticator returns the typical authentication: public key signatures
// and, while a proposal is executed, the authority of its multisig.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, multisig.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// metrics, logging, and recovery. Metrics are registered with reg, which
// may be nil to disable them.
func Chain(reg prometheus.Registerer) app.Decorators {
	var metrics *app.Metrics
	if reg != nil {
		metrics = app.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		// executing a proposal needs no signature
		sigs.NewDecorator().AllowMissingSigs(),
		// on DeliverTx, a failed message keeps the signer sequence
		// increment, so the same signed tx cannot be replayed
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to every extension of the
// application. Instructions of executed proposals are routed through the
// same router.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	exec := multisig.HandlerAsExecutor(instructionHandler{next: r}, DecodeInstruction)
	multisig.RegisterRoutes(r, authFn, exec)
	upgrade.RegisterRoutes(r, authFn)
	return r
}

// instructionHandler runs an executed instruction. The signatures of the
// transaction that triggered the execution are hidden, so the instruction
// is authorized by the multisig authority alone.
type instructionHandler struct {
	next quorum.Handler
}

func (h instructionHandler) Check(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.CheckResult, error) {
	return h.next.Check(sigs.WithoutSigners(ctx), db, tx)
}

func (h instructionHandler) Deliver(ctx quorum.Context, db quorum.KVStore, tx quorum.Tx) (*quorum.DeliverResult, error) {
	return h.next.Deliver(sigs.WithoutSigners(ctx), db, tx)
}

// QueryRouter returns a default query router, allowing access to
// "/multisigs", "/proposals", "/proposals/list", "/programs" and "/auth".
func QueryRouter() *app.QueryRouter {
	r := app.NewQueryRouter()
	multisig.RegisterQuery(r)
	upgrade.RegisterQuery(r)
	sigs.RegisterQuery(r)
	return r
}

// Initializers returns the genesis loaders of every extension.
func Initializers() quorum.Initializer {
	return quorum.ChainInitializers(
		&multisig.Initializer{},
		&upgrade.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) quorum.Handler {
	authFn := Authenticator()
	return Chain(reg).WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h quorum.Handler, tx quorum.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (quorum.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}
