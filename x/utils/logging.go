package utils

import (
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ quorum.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Check logs error -> info, success -> debug
func (r Logging) Check(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx, next quorum.Checker) (*quorum.CheckResult, error) {
	ctx = quorum.WithLogInfo(ctx, "path", quorum.GetPath(tx))
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs error -> error, success -> info
func (r Logging) Deliver(ctx quorum.Context, store quorum.KVStore, tx quorum.Tx, next quorum.Deliverer) (*quorum.DeliverResult, error) {
	ctx = quorum.WithLogInfo(ctx, "path", quorum.GetPath(tx))
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx quorum.Context, start time.Time, msg string, err error, lowPrio bool) {
	delta := time.Since(start)
	logger := quorum.GetLogger(ctx).With("duration", delta/time.Microsecond)

	// An entry is emitted even for an empty message, the key values carry
	// the relevant information.
	switch {
	case err != nil:
		code, _ := errors.ABCIInfo(err, false)
		logger.Error(msg, "err", err, "code", code)
	case lowPrio:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
