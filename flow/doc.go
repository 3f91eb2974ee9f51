// Package flow is a demand-driven reactive streams pipeline built on top
// of a github.com/stevan/greyloop [greyloop.Executor]: Publisher,
// Subscription, Subscriber, Operation, and the Merge/Concat/Zip composite
// publishers.
//
// # Backpressure model
//
// A [Subscriber] authorizes delivery by requesting N elements; a
// [Publisher] never delivers more than outstanding demand permits. Every
// delivery — on_subscribe, on_next, on_completed, on_error — happens as a
// callback scheduled onto an Executor, never as a direct call from
// Request or Submit, matching the rest of the module's cooperative
// scheduling model: nothing here runs on a background goroutine, and
// nothing recurses synchronously into user code from inside a producer
// method.
//
// A Publisher is unicast: [Publisher.Subscribe] called a second time
// replaces the prior Subscription outright (last-writer-wins), rather
// than rejecting the call or fanning out to both subscribers.
//
// # Operations and chaining
//
// [Operation] — the type behind Map, Grep/Filter, Take, and Skip —
// inherits both roles: it subscribes to an upstream Publisher and is
// itself a Publisher to whatever subscribes downstream. On subscribing
// upstream, it chains the upstream Subscription's Executor to its own via
// [greyloop.Executor.SetNext], so a single Run call on the pipeline's
// root Executor drains the whole chain in order. A panic from a
// transform function is recovered and propagated downstream as an
// on_error, never left to escape into the scheduler.
//
// # Composite publishers
//
// [Merge], [Concat], and [Zip] each subscribe internal adapters to every
// source, chaining each source's Executor to the composite's own the same
// way an Operation does. They deliver on_completed to the downstream
// subscription exactly once, after — and only after — their respective
// completion rule holds.
//
// # Flow builder
//
// [Flow] and the package-level [Map] function provide a fluent facade
// over the above: [From] wraps a source Publisher, chainable methods
// narrow or transform the stream, and [Flow.To] subscribes a terminal
// consumer and returns a [BuiltFlow] whose Start/Close delegate to the
// originating Publisher.
package flow
