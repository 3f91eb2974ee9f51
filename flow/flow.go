package flow

import "github.com/stevan/greyloop"

// Flow is a builder facade over a pipeline stage's Publisher: Grep, Take,
// and Skip are same-type and so can be plain methods; Map changes the
// element type and Go disallows additional type parameters on methods, so
// it is a package-level function instead (see Map below).
//
// start and close always delegate to the root Publisher that began the
// pipeline, not to whatever intermediate Operation a given Flow wraps —
// calling Start or Close partway down a chain drives the whole pipeline,
// matching a single upstream.executor.run() draining every chained stage.
type Flow[T any] struct {
	pub   *Publisher[T]
	start func()
	close func()
}

// From begins a Flow at pub. pub is treated as the pipeline's root: later
// Start/Close calls anywhere along the built chain operate on it.
func From[T any](pub *Publisher[T]) *Flow[T] {
	return &Flow[T]{pub: pub, start: pub.Start, close: pub.Close}
}

// chain builds the next Flow stage: constructs an Operation wrapping fn,
// subscribes it to f's Publisher, and carries forward f's root
// start/close hooks.
func chain[T, U any](f *Flow[T], fn transform[T, U]) *Flow[U] {
	op := newOperation(fn)
	op.subscribeTo(f.pub)
	return &Flow[U]{pub: op.Publisher, start: f.start, close: f.close}
}

// Map applies fn to every value, emitting exactly one output per input. A
// package-level function rather than a method, since Go methods cannot
// introduce a type parameter beyond the receiver's own.
func Map[T, U any](f *Flow[T], fn func(T) U) *Flow[U] {
	return chain(f, transform[T, U](func(value T, emit func(U)) bool {
		emit(fn(value))
		return false
	}))
}

// Grep emits only values for which pred returns true.
func (f *Flow[T]) Grep(pred func(T) bool) *Flow[T] {
	return chain(f, transform[T, T](func(value T, emit func(T)) bool {
		if pred(value) {
			emit(value)
		}
		return false
	}))
}

// Filter is an alias for Grep.
func (f *Flow[T]) Filter(pred func(T) bool) *Flow[T] {
	return f.Grep(pred)
}

// Take passes through at most n values, then signals completion. With
// n <= 0 it never emits: it completes when the first upstream value (or
// upstream completion) arrives.
func (f *Flow[T]) Take(n int) *Flow[T] {
	remaining := n
	return chain(f, transform[T, T](func(value T, emit func(T)) bool {
		if remaining <= 0 {
			return true
		}
		emit(value)
		remaining--
		return remaining <= 0
	}))
}

// Skip discards the first n values, then passes everything through
// unchanged. It never signals completion on its own.
func (f *Flow[T]) Skip(n int) *Flow[T] {
	remaining := n
	return chain(f, transform[T, T](func(value T, emit func(T)) bool {
		if remaining > 0 {
			remaining--
			return false
		}
		emit(value)
		return false
	}))
}

// BuiltFlow is the terminal handle returned by Flow.To: Start and Close
// drive the whole pipeline via the hooks captured when the chain began.
type BuiltFlow struct {
	start func()
	close func()
}

// Start marks the pipeline's root Publisher started.
func (b *BuiltFlow) Start() {
	b.start()
}

// Close closes the pipeline's root Publisher, draining every chained
// stage's Executor and delivering completion down to the subscriber
// passed to To.
func (b *BuiltFlow) Close() {
	b.close()
}

// To terminates the Flow by subscribing a Subscriber with the given
// requestSize, handing every delivered value to consumer. It folds
// together what the package description describes as separate to/build
// steps into the single call that actually matters here: there is
// nothing left to configure on a Subscriber once it exists.
func (f *Flow[T]) To(requestSize int, consumer func(T)) *BuiltFlow {
	sub := NewSubscriber(requestSize, consumer)
	f.pub.Subscribe(sub)
	return &BuiltFlow{start: f.start, close: f.close}
}

// Executor returns the Executor driving this stage of the Flow, mirroring
// Publisher.Executor for callers that need direct access — e.g. to chain
// greyloop.Executor.Run/Tick manually instead of going through To/Start.
func (f *Flow[T]) Executor() *greyloop.Executor {
	return f.pub.Executor()
}
