// logging.go - structured logging for greyloop, built on logiface/stumpy.
//
// greyloop does not hand-roll a logging format. It builds on
// github.com/joeycumines/logiface (the generic structured-logging core) with
// github.com/joeycumines/stumpy as the concrete JSON event backend, the same
// pairing the teacher's own dependency tree demonstrates. A [Logger] is
// attached to a ScheduledExecutor via [WithLogger]; the default is a no-op
// logger, so the library stays silent unless a caller opts in.

package greyloop

import (
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger type used throughout greyloop: a
// logiface.Logger bound to stumpy's concrete event type.
type Logger = logiface.Logger[*stumpy.Event]

// NewLogger constructs a [Logger] writing newline-delimited JSON via stumpy.
// Pass logiface.Option[*stumpy.Event] values (such as stumpy.L.WithWriter)
// to customize the destination or field names; by default it writes to
// os.Stderr at [logiface.LevelInformational] and above.
func NewLogger(options ...logiface.Option[*stumpy.Event]) Logger {
	opts := append([]logiface.Option[*stumpy.Event]{
		stumpy.L.WithStumpy(),
		stumpy.L.WithLevel(logiface.LevelInformational),
	}, options...)
	return stumpy.L.New(opts...)
}

// noOpLogger is the zero-configuration default: a logiface Logger with
// every level disabled, so Build/Log calls are cheap no-ops.
var noOpLogger = stumpy.L.New(stumpy.L.WithLevel(logiface.LevelDisabled))

// NoOpLogger returns the shared silent [Logger] used when no [WithLogger]
// option is supplied to a ScheduledExecutor.
func NoOpLogger() Logger {
	return noOpLogger
}

// logTick emits a debug-level record describing one Executor tick, when the
// attached logger has debug enabled.
func logTick(logger Logger, queued, ran int) {
	logger.Debug().Int(`queued`, queued).Int(`ran`, ran).Log(`executor tick`)
}

// logTimerFired emits a debug-level record for a fired timer.
func logTimerFired(logger Logger, id TimerID, gear int) {
	logger.Debug().Uint64(`timer_id`, uint64(id)).Int(`gear`, gear).Log(`timer fired`)
}

// logCallbackPanic emits an error-level record for a recovered callback
// panic, preserving the cause via Err.
func logCallbackPanic(logger Logger, err error) {
	logger.Err().Err(err).Log(`callback panicked`)
}

// logPromiseSettled emits a debug-level record when a Promise settles.
func logPromiseSettled(logger Logger, id uint64, rejected bool) {
	logger.Debug().Uint64(`promise_id`, id).Bool(`rejected`, rejected).Log(`promise settled`)
}
