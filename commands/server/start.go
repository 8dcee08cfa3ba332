package server

import (
	"flag"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/quorum/errors"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

type startArgs struct {
	bind    string
	metrics string
	debug   bool
}

func parseStartArgs(args []string) (startArgs, error) {
	var sa startArgs
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&sa.bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.StringVar(&sa.metrics, flagMetrics, "", "if set, serve prometheus metrics on this address, for example :9102")
	startFlags.BoolVar(&sa.debug, flagDebug, false, "call stack returned on error")
	err := startFlags.Parse(args)
	return sa, err
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd initializes the application and serves it over the ABCI socket
// protocol until the process receives a termination signal.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	sa, err := parseStartArgs(args)
	if err != nil {
		return err
	}

	app, err := gen(home, logger, sa.debug)
	if err != nil {
		return err
	}

	if sa.metrics != "" {
		go serveMetrics(logger, sa.metrics)
	}

	logger.Info("Starting ABCI app", "bind", sa.bind)
	svr, err := server.NewServer(sa.bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "cannot create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	cmn.TrapSignal(logger, func() {
		if err := svr.Stop(); err != nil {
			logger.Error("Cannot stop server", "err", err)
		}
	})

	// Run forever.
	select {}
}

func serveMetrics(logger log.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "err", err)
	}
}
