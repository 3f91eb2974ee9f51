// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package greyloop

// PromiseState is the lifecycle state of a [Promise]. A Promise starts
// Pending and transitions exactly once to Fulfilled or Rejected.
type PromiseState int

const (
	// Pending is the initial state: the Promise has not yet settled.
	Pending PromiseState = iota
	// Fulfilled means Resolve was the first settling call.
	Fulfilled
	// Rejected means Reject was the first settling call.
	Rejected
)

// promiseSeq allocates monotonic, single-threaded Promise ids for logging.
var promiseSeq uint64

type reaction = func()

// Promise is a single-value, Promise/A+-flavored future bound to a
// [ScheduledExecutor]. It settles (resolves or rejects) at most once;
// reactions registered via Then or ThenPromise run as thunks enqueued on
// the bound ScheduledExecutor, never synchronously from Resolve/Reject.
//
// Promise is not safe for concurrent use — Resolve/Reject and every
// accessor must be called from the same cooperative thread driving sched.
type Promise[T any] struct {
	sched     *ScheduledExecutor
	state     PromiseState
	value     T
	reason    error
	reactions []reaction
	id        uint64
}

// newPendingPromise allocates an unsettled Promise bound to sched.
func newPendingPromise[T any](sched *ScheduledExecutor) *Promise[T] {
	promiseSeq++
	return &Promise[T]{sched: sched, id: promiseSeq}
}

// NewPromise returns a pending Promise bound to sched, along with standalone
// resolve and reject functions — the common pattern for wiring a Promise up
// to an asynchronous producer.
func NewPromise[T any](sched *ScheduledExecutor) (p *Promise[T], resolve func(T), reject func(error)) {
	p = newPendingPromise[T](sched)
	return p, p.Resolve, p.Reject
}

// Resolved returns a Promise already fulfilled with v.
func Resolved[T any](sched *ScheduledExecutor, v T) *Promise[T] {
	p := newPendingPromise[T](sched)
	p.Resolve(v)
	return p
}

// RejectedPromise returns a Promise already rejected with err.
func RejectedPromise[T any](sched *ScheduledExecutor, err error) *Promise[T] {
	p := newPendingPromise[T](sched)
	p.Reject(err)
	return p
}

// Try invokes fn and returns a Promise settled from its result: fulfilled
// with the value on a nil error, rejected with the error otherwise. A
// panic inside fn is recovered into a [*CallbackError] rejection instead
// of propagating.
func Try[T any](sched *ScheduledExecutor, fn func() (T, error)) (p *Promise[T]) {
	p = newPendingPromise[T](sched)
	defer func() {
		if r := recover(); r != nil {
			p.Reject(newCallbackError(r))
		}
	}()
	v, err := fn()
	if err != nil {
		p.Reject(err)
	} else {
		p.Resolve(v)
	}
	return p
}

// Delay returns a Promise that resolves to value once delayTicks have
// elapsed on sched's virtual clock.
func Delay[T any](sched *ScheduledExecutor, value T, delayTicks int64) *Promise[T] {
	p := newPendingPromise[T](sched)
	if _, err := sched.ScheduleDelayed(func() { p.Resolve(value) }, delayTicks); err != nil {
		p.Reject(err)
	}
	return p
}

// State returns the Promise's current lifecycle state.
func (p *Promise[T]) State() PromiseState {
	return p.state
}

// Value returns the fulfillment value. It is the zero value of T unless
// State() == Fulfilled.
func (p *Promise[T]) Value() T {
	return p.value
}

// Reason returns the rejection reason. It is nil unless
// State() == Rejected.
func (p *Promise[T]) Reason() error {
	return p.reason
}

// Resolve transitions a pending Promise to Fulfilled with value v and
// schedules every registered reaction on the bound ScheduledExecutor.
// Calling Resolve on an already-settled Promise is a no-op.
func (p *Promise[T]) Resolve(v T) {
	if p.state != Pending {
		return
	}
	p.state = Fulfilled
	p.value = v
	p.settle()
}

// Reject transitions a pending Promise to Rejected with reason err
// (defaulting to [ErrRejected] if err is nil) and schedules every
// registered reaction. Calling Reject on an already-settled Promise is a
// no-op.
func (p *Promise[T]) Reject(err error) {
	if p.state != Pending {
		return
	}
	if err == nil {
		err = ErrRejected
	}
	p.state = Rejected
	p.reason = err
	p.settle()
}

// settle schedules all pending reactions now that the Promise has a
// terminal state.
func (p *Promise[T]) settle() {
	reactions := p.reactions
	p.reactions = nil
	for _, r := range reactions {
		_ = p.sched.Enqueue(r)
	}
	if p.sched.logger != nil {
		logPromiseSettled(p.sched.logger, p.id, p.state == Rejected)
	}
}

// addReaction registers r to run once the Promise settles, or — if it has
// already settled — schedules r immediately onto the executor.
func (p *Promise[T]) addReaction(r reaction) {
	if p.state == Pending {
		p.reactions = append(p.reactions, r)
		return
	}
	_ = p.sched.Enqueue(r)
}

// callThen invokes fn with panic-to-error recovery.
func callThen[T any](fn func(T) (T, error), v T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCallbackError(r)
		}
	}()
	return fn(v)
}

// callCatch invokes fn with panic-to-error recovery.
func callCatch[T any](fn func(error) (T, error), reason error) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCallbackError(r)
		}
	}()
	return fn(reason)
}

// Then registers fulfillment/rejection reactions and returns a new child
// Promise bound to the same ScheduledExecutor. Standard fold-left
// semantics: whichever handler matches the receiver's terminal state runs,
// and its return value settles the child — an error return rejects it, a
// value return fulfills it. A nil handler for the state that occurs simply
// propagates the receiver's value/reason to the child unchanged.
//
// To adopt another Promise's eventual state instead of settling
// immediately with a plain value (the "returns a Promise" case in the
// package design notes), use [Promise.ThenPromise].
func (p *Promise[T]) Then(onFulfilled func(T) (T, error), onRejected func(error) (T, error)) *Promise[T] {
	child := newPendingPromise[T](p.sched)
	p.addReaction(func() {
		switch p.state {
		case Fulfilled:
			if onFulfilled == nil {
				child.Resolve(p.value)
				return
			}
			v, err := callThen(onFulfilled, p.value)
			if err != nil {
				child.Reject(err)
			} else {
				child.Resolve(v)
			}
		case Rejected:
			if onRejected == nil {
				child.Reject(p.reason)
				return
			}
			v, err := callCatch(onRejected, p.reason)
			if err != nil {
				child.Reject(err)
			} else {
				child.Resolve(v)
			}
		}
	})
	return child
}

// callThenPromise invokes fn with panic-to-error recovery.
func callThenPromise[T any](fn func(T) *Promise[T], v T) (result *Promise[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCallbackError(r)
		}
	}()
	return fn(v), nil
}

// callCatchPromise invokes fn with panic-to-error recovery.
func callCatchPromise[T any](fn func(error) *Promise[T], reason error) (result *Promise[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCallbackError(r)
		}
	}()
	return fn(reason), nil
}

// ThenPromise is [Promise.Then]'s chaining-capable counterpart: the
// matching handler returns a *Promise[T] rather than a plain value, and
// the child adopts that returned Promise's eventual state, exactly like
// JavaScript's thenable-adoption rule. A handler returning the child
// Promise itself — which would otherwise deadlock waiting on its own
// settlement — is rejected with [ErrChainCycle] instead.
func (p *Promise[T]) ThenPromise(onFulfilled func(T) *Promise[T], onRejected func(error) *Promise[T]) *Promise[T] {
	child := newPendingPromise[T](p.sched)
	p.addReaction(func() {
		switch p.state {
		case Fulfilled:
			if onFulfilled == nil {
				child.Resolve(p.value)
				return
			}
			result, err := callThenPromise(onFulfilled, p.value)
			if err != nil {
				child.Reject(err)
				return
			}
			child.adopt(result)
		case Rejected:
			if onRejected == nil {
				child.Reject(p.reason)
				return
			}
			result, err := callCatchPromise(onRejected, p.reason)
			if err != nil {
				child.Reject(err)
				return
			}
			child.adopt(result)
		}
	})
	return child
}

// adopt makes child eventually mirror other's settled state. A cycle
// (other being child itself) is rejected rather than hung.
func (child *Promise[T]) adopt(other *Promise[T]) {
	if other == child {
		child.Reject(ErrChainCycle)
		return
	}
	other.addReaction(func() {
		switch other.state {
		case Fulfilled:
			child.Resolve(other.value)
		case Rejected:
			child.Reject(other.reason)
		}
	})
}

// Timeout returns a Promise that adopts the receiver's eventual state if
// it settles within delayTicks, or is otherwise rejected with a
// [*TimeoutError] once delayTicks elapse on the bound ScheduledExecutor's
// virtual clock. Whichever happens first wins; the loser has no further
// effect on the returned Promise.
func (p *Promise[T]) Timeout(delayTicks int64) *Promise[T] {
	out := newPendingPromise[T](p.sched)
	timerID, err := p.sched.ScheduleDelayed(func() {
		if out.state == Pending {
			out.Reject(&TimeoutError{After: delayTicks})
		}
	}, delayTicks)
	if err != nil {
		out.Reject(err)
		return out
	}
	p.addReaction(func() {
		p.sched.CancelDelayed(timerID)
		switch p.state {
		case Fulfilled:
			out.Resolve(p.value)
		case Rejected:
			out.Reject(p.reason)
		}
	})
	return out
}
