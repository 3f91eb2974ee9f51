package flow

import "github.com/stevan/greyloop"

// Publisher is a unicast, demand-driven source of T values. It owns its
// Executor exclusively; the Subscription created by Subscribe shares that
// Executor rather than owning one of its own.
type Publisher[T any] struct {
	executor *greyloop.Executor
	buffer   []T
	sub      *Subscription[T]
	started  bool
	closed   bool
	closing  bool

	// outstanding counts values handed to Submit that have not yet
	// actually reached subscriber.on_next — as opposed to merely having
	// been copied into a buffer somewhere in the pipeline. Close waits
	// for this to reach zero before scheduling on_completed, so a
	// submit-then-close with no intervening Run never silently drops
	// values still in flight through the drain/offer scheduling hops.
	outstanding int
}

// NewPublisher constructs a Publisher driven by executor.
func NewPublisher[T any](executor *greyloop.Executor) *Publisher[T] {
	return &Publisher[T]{executor: executor}
}

// Executor returns the Executor driving this Publisher.
func (p *Publisher[T]) Executor() *greyloop.Executor {
	return p.executor
}

// Start marks the Publisher as started. It has no effect on buffering or
// delivery — submit and subscribe both work identically whether or not
// Start has been called — it exists purely as the lifecycle hook named in
// the package's external interface, for hosts that want an explicit
// "go" signal before driving the Executor.
func (p *Publisher[T]) Start() {
	p.started = true
}

// Started reports whether Start has been called.
func (p *Publisher[T]) Started() bool {
	return p.started
}

// Subscribe creates a Subscription, schedules subscriber.on_subscribe(sub)
// on the Publisher's Executor, and returns the Subscription. Publisher is
// unicast: calling Subscribe again replaces the prior Subscription
// outright — the first subscriber simply stops receiving anything further
// (last-writer-wins, a deliberate choice over rejecting the second call).
func (p *Publisher[T]) Subscribe(subscriber subscriberHandle[T]) *Subscription[T] {
	sub := newSubscription(p, subscriber)
	p.sub = sub
	_ = p.executor.Enqueue(func() { subscriber.onSubscribe(sub) })
	if len(p.buffer) > 0 {
		p.scheduleDrain()
	}
	return sub
}

// Submit appends value to the undelivered buffer. If a Subscription
// exists, every currently-buffered value (including this one) gets its
// own scheduled subscription.offer call, each a separate queued thunk —
// submit never delivers synchronously.
func (p *Publisher[T]) Submit(value T) {
	p.outstanding++
	p.buffer = append(p.buffer, value)
	if p.sub != nil {
		p.scheduleDrain()
	}
}

// noteDelivered records that one submitted value has actually reached
// subscriber.on_next, called by the Subscription once its own on_next
// callback for that value has run.
func (p *Publisher[T]) noteDelivered() {
	p.outstanding--
}

func (p *Publisher[T]) scheduleDrain() {
	_ = p.executor.Enqueue(p.drain)
}

func (p *Publisher[T]) drain() {
	sub := p.sub
	if sub == nil {
		return
	}
	for len(p.buffer) > 0 {
		value := p.buffer[0]
		p.buffer = p.buffer[1:]
		_ = p.executor.Enqueue(func() { sub.offer(value) })
	}
}

// unsubscribe drops the outbound Subscription and runs its unsubscribe
// hook, if one was set. Called only by Subscription.Cancel's own
// scheduled thunk.
func (p *Publisher[T]) unsubscribe(sub *Subscription[T]) {
	if p.sub == sub {
		p.sub = nil
	}
	if sub.onUnsubscribe != nil {
		sub.onUnsubscribe()
	}
}

// Close transitions the Publisher to closed, but only once every value
// already handed to Submit has actually reached the subscriber's on_next —
// not merely been copied into some intermediate buffer. It then schedules
// on_completed and runs the Executor to quiescence before shutting it
// down. Close is idempotent.
func (p *Publisher[T]) Close() {
	if p.closed || p.closing {
		return
	}
	if p.sub == nil {
		p.closed = true
		p.executor.Shutdown()
		return
	}
	p.closing = true
	sub := p.sub
	var settle func()
	settle = func() {
		if p.outstanding > 0 {
			_ = p.executor.Enqueue(settle)
			return
		}
		p.closed = true
		_ = p.executor.Enqueue(sub.onCompleted)
	}
	p.scheduleDrain()
	_ = p.executor.Enqueue(settle)
	_ = p.executor.Run()
	p.executor.Shutdown()
}

// CloseWithError is Close's failure counterpart. Unlike Close, it does not
// wait for already-submitted values to drain: an error is an abnormal
// termination that discards whatever is still buffered and delivers
// on_error immediately. Used by composite publishers and Operations to
// propagate an upstream failure.
func (p *Publisher[T]) CloseWithError(err error) {
	if p.closed || p.closing {
		return
	}
	p.closed = true
	if p.sub != nil {
		sub := p.sub
		p.buffer = nil
		_ = p.executor.Enqueue(func() { sub.onError(err) })
		_ = p.executor.Run()
	}
	p.executor.Shutdown()
}

// Closed reports whether Close or CloseWithError has run.
func (p *Publisher[T]) Closed() bool {
	return p.closed
}
