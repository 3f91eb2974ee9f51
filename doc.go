// Package greyloop provides a cooperative, single-threaded concurrency core:
// a chainable [Executor], a hierarchical [TimerWheel] exposed as a
// [ScheduledExecutor], a generic [Promise] resolved on that scheduler, and
// (in the greyloop/flow subpackage) a demand-driven reactive pipeline built
// on top of the Executor.
//
// # Architecture
//
// There is no background goroutine and no OS-thread parallelism anywhere in
// this package. All work — queued thunks, timer callbacks, promise
// reactions, stream delivery — runs synchronously inside calls to
// [Executor.Tick] / [Executor.Run], on whatever goroutine the caller uses to
// drive the scheduler. Callbacks may enqueue further work on the same
// Executor, including the Executor currently running them, but nothing ever
// runs concurrently with anything else in the same Executor chain.
//
// An [Executor] is a FIFO queue of thunks that can forward-chain to a
// successor via [Executor.SetNext]: once an Executor's own queue drains for
// a tick, it hands control to its successor. [ErrCyclicChain] guards against
// a chain that would loop back on itself.
//
// A [TimerWheel] is a hierarchical, decimal (base-10), cascading timer
// wheel: five gears of ten buckets each, advanced like an odometer. An entry
// fires when its bucket is scanned at its expiry; entries not yet due
// cascade down into lower gears as the wheel advances past their bucket.
// Insertion and advancement are O(1) amortized; cancellation is linear in
// the size of the entry's bucket. A [ScheduledExecutor] pairs a TimerWheel with an
// Executor and a virtual clock: [ScheduledExecutor.ScheduleDelayed] queues
// a callback onto the underlying Executor once its delay elapses, measured
// in the scheduler's own unitless time, never the wall clock.
//
// [Promise] is a Promise/A+-flavored future generic over its resolved
// value. A Promise settles (resolves or rejects) exactly once; [Promise.Then]
// chains a derived Promise whose reactions run as Executor-queued callbacks
// and settle it with a plain value or error. [Promise.ThenPromise] adds the
// JavaScript original's "adopt the chained promise's eventual state" and
// self-chaining-cycle ([ErrChainCycle]) semantics. [Delay] and
// [Promise.Timeout] compose a Promise with a ScheduledExecutor's virtual clock.
//
// The greyloop/flow subpackage layers a reactive pipeline — Publisher,
// Subscription, Subscriber, Operation, and the Merge/Concat/Zip composite
// publishers — on top of an Executor, using the same demand-counter
// backpressure model described in the package's design notes: a Subscriber
// requests N elements, a Publisher never delivers more than outstanding
// demand permits, and delivery always happens as a scheduled callback
// rather than a direct call from Request.
//
// # Error Handling
//
// Failures are reported as errors, never panics, following the taxonomy in
// [ErrCyclicChain], [ErrPastExpiry], [ErrCapacityExceeded], [ErrOverflow],
// [ErrUnknownTimer], [ErrChainCycle], [ErrTimeout], [ErrRejected], and
// [ErrExecutorShutdown]. A panic recovered from a user-supplied callback is
// converted to a [*CallbackError] rather than propagated, so one broken
// callback cannot unwind the scheduler driving everything else.
//
// # Usage
//
//	sched := greyloop.NewScheduledExecutor(greyloop.WithMaxTimers(1024))
//
//	p, resolve, _ := greyloop.NewPromise[string](sched)
//	p.Then(func(v string) (string, error) {
//	    fmt.Println("resolved:", v)
//	    return v, nil
//	}, nil)
//
//	_ = sched.Enqueue(func() { resolve("hello") })
//
//	if err := sched.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Logging and metrics
//
// Structured logging is opt-in via [WithLogger] and a [Logger] built on
// github.com/joeycumines/logiface; the default is silent. Opt-in tick and
// timer instrumentation is available via [WithMetrics].
package greyloop
