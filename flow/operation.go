package flow

import "github.com/stevan/greyloop"

// transform is the shape every Operation applies to an upstream value: it
// may call emit zero or more times (Map: exactly once; Grep, Take and
// Skip: zero or one, with Take also signalling completion), and returns true
// exactly when this was the last value the Operation will ever process —
// signalling it to cancel upstream and close downstream once any
// emissions from this call have been scheduled.
type transform[T, U any] func(value T, emit func(U)) (done bool)

// Operation inherits both roles described in the package docs: it is a
// Subscriber to upstream (driving apply), and — via the embedded
// Publisher — a Publisher to whatever subscribes downstream.
type Operation[T, U any] struct {
	*Publisher[U]

	executor *greyloop.Executor
	upstream *Subscription[T]
	apply    transform[T, U]
	done     bool
}

// newOperation constructs an Operation with its own fresh Executor,
// applying fn to every upstream value.
func newOperation[T, U any](fn transform[T, U]) *Operation[T, U] {
	executor := greyloop.NewExecutor()
	return &Operation[T, U]{
		Publisher: NewPublisher[U](executor),
		executor:  executor,
		apply:     fn,
	}
}

// subscribeTo subscribes this Operation to upstream, per spec.md §4.4: it
// stores the returned Subscription, chains upstream's Executor to its
// own so upstream drains first, and requests the first item.
func (o *Operation[T, U]) subscribeTo(upstream *Publisher[T]) {
	sub := upstream.Subscribe(o)
	o.upstream = sub
	_ = sub.executor.SetNext(o.executor)
	sub.Request(1)
}

func (o *Operation[T, U]) onSubscribe(*Subscription[T]) {
	// Operation's own subscribeTo already holds the Subscription returned
	// by Subscribe; nothing further to do once on_subscribe is delivered.
}

func (o *Operation[T, U]) onNext(value T) {
	if o.done {
		return
	}
	if o.upstream != nil {
		o.upstream.Request(1)
	}
	_ = o.executor.Enqueue(func() { o.runApply(value) })
}

func (o *Operation[T, U]) runApply(value T) {
	if o.done {
		return
	}
	var done bool
	func() {
		defer func() {
			if r := recover(); r != nil {
				o.fail(newCallbackError(r))
			}
		}()
		done = o.apply(value, func(u U) { o.Publisher.Submit(u) })
	}()
	if done && !o.done {
		o.done = true
		if o.upstream != nil {
			o.upstream.Cancel()
		}
		_ = o.executor.Enqueue(func() { o.Publisher.Close() })
	}
}

func (o *Operation[T, U]) onCompleted() {
	if o.done {
		return
	}
	// Queued behind every runApply already scheduled for earlier values, so
	// their emissions reach downstream before the Publisher closes.
	_ = o.executor.Enqueue(func() {
		if o.done {
			return
		}
		o.done = true
		o.Publisher.Close()
	})
}

func (o *Operation[T, U]) onError(err error) {
	o.fail(err)
}

// fail cancels upstream and propagates err downstream; it is the failure
// path for both a transform panic and an upstream on_error.
func (o *Operation[T, U]) fail(err error) {
	if o.done {
		return
	}
	o.done = true
	if o.upstream != nil {
		o.upstream.Cancel()
	}
	_ = o.executor.Enqueue(func() { o.Publisher.CloseWithError(err) })
}

// newCallbackError wraps a recovered transform panic the same way
// greyloop.Executor wraps a panicking thunk, so a broken transform
// surfaces identically to a broken queued callback.
func newCallbackError(r any) error {
	return &greyloop.CallbackError{Value: r}
}
