package greyloop

import (
	"errors"
	"fmt"
)

// Sentinel errors for the taxonomy described in the package's design notes.
// Use [errors.Is] to match them; the typed errors below ([*CallbackError],
// [*TimeoutError]) expose their cause through Unwrap so the chain survives.
var (
	// ErrCyclicChain is returned by (*Executor).SetNext when the proposed
	// successor would introduce a cycle in the forward chain.
	ErrCyclicChain = errors.New("greyloop: set_next would create a cyclic executor chain")

	// ErrPastExpiry is returned by (*TimerWheel).AddTimer when the entry's
	// expiry is not strictly after the wheel's current time.
	ErrPastExpiry = errors.New("greyloop: timer expiry is not in the future")

	// ErrCapacityExceeded is returned by (*TimerWheel).AddTimer when the
	// wheel already holds MaxTimers entries.
	ErrCapacityExceeded = errors.New("greyloop: timer wheel is at capacity")

	// ErrOverflow is returned by (*TimerWheel).AddTimer when the requested
	// delay exceeds what the wheel's depth can represent.
	ErrOverflow = errors.New("greyloop: timer delay exceeds wheel depth")

	// ErrUnknownTimer describes a timer id that does not correspond to a
	// pending entry. (*TimerWheel).CancelTimer reports that case by
	// returning false, not this error.
	ErrUnknownTimer = errors.New("greyloop: unknown or already-fired timer id")

	// ErrRejected is used as the Result of a Promise that was rejected
	// with a nil reason, so errors.Is always has something to match.
	ErrRejected = errors.New("greyloop: promise rejected")

	// ErrTimeout is the rejection reason used by (*Promise[T]).Timeout
	// when the receiver has not settled before the deadline fires.
	ErrTimeout = errors.New("greyloop: promise timed out")

	// ErrChainCycle is the rejection reason used by ThenPromise when a
	// handler returns the child promise itself, which would otherwise deadlock the
	// adoption chain forever.
	ErrChainCycle = errors.New("greyloop: chaining cycle detected")

	// ErrExecutorShutdown is returned when work is submitted to an
	// Executor or ScheduledExecutor that has already been shut down.
	ErrExecutorShutdown = errors.New("greyloop: executor is shut down")
)

// CallbackError wraps a panic recovered from a user-supplied thunk,
// transform, or subscriber callback. It corresponds to the
// UserCallbackFailure kind described in the package design notes.
type CallbackError struct {
	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("greyloop: callback panicked: %v", e.Value)
}

// Unwrap returns the underlying error if the panic value was one, enabling
// errors.Is/errors.As to see through the cause chain.
func (e *CallbackError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// newCallbackError recovers a panic value into a *CallbackError, or returns
// nil if r is nil. Intended for use with a deferred recover().
func newCallbackError(r any) error {
	if r == nil {
		return nil
	}
	return &CallbackError{Value: r}
}

// TimeoutError reports that an operation did not settle before its
// deadline. It wraps [ErrTimeout] so errors.Is(err, ErrTimeout) succeeds.
type TimeoutError struct {
	// After is the delay, in the scheduler's virtual time units, that
	// elapsed before the timeout fired.
	After int64
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("greyloop: timed out after %d", e.After)
}

// Unwrap exposes ErrTimeout so callers can match it generically.
func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}
