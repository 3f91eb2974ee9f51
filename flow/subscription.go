package flow

import "github.com/stevan/greyloop"

// subscriptionState is a Subscription's lifecycle state: open (default)
// transitions exactly once to cancelled.
type subscriptionState int

const (
	subscriptionOpen subscriptionState = iota
	subscriptionCancelled
)

// subscriberHandle is implemented by anything a Publisher can deliver
// events to: a terminal [Subscriber] or an [Operation] acting as an
// upstream consumer. It is unexported because, within this package, both
// implementations exist purely as callback targets for a Subscription —
// never as a public extension point.
type subscriberHandle[T any] interface {
	onSubscribe(sub *Subscription[T])
	onNext(value T)
	onCompleted()
	onError(err error)
}

// Subscription is the live link between a [Publisher] and whatever
// subscribed to it. It owns its own undelivered buffer and demand
// counter exclusively; it shares — rather than owns — the publisher's
// Executor, per the package's concurrency model.
type Subscription[T any] struct {
	executor   *greyloop.Executor
	publisher  *Publisher[T]
	subscriber subscriberHandle[T]

	buffer    []T
	requested int
	state     subscriptionState

	// onUnsubscribe, if set, runs once Publisher.unsubscribe tears this
	// Subscription down. It exists purely as a lifecycle observation
	// hook — nothing in this package sets it by default.
	onUnsubscribe func()
}

func newSubscription[T any](pub *Publisher[T], subscriber subscriberHandle[T]) *Subscription[T] {
	return &Subscription[T]{
		executor:   pub.executor,
		publisher:  pub,
		subscriber: subscriber,
	}
}

// Requested returns the outstanding demand: the number of elements the
// downstream has authorized delivery of but have not yet arrived.
func (s *Subscription[T]) Requested() int {
	return s.requested
}

// State reports whether the Subscription is still open or has been
// cancelled.
func (s *Subscription[T]) State() subscriptionState {
	return s.state
}

// Request authorizes n further deliveries (n should be ≥ 1). If the
// Subscription's buffer already holds undelivered values, a drain is
// scheduled.
func (s *Subscription[T]) Request(n int) {
	if s.state == subscriptionCancelled || n <= 0 {
		return
	}
	s.requested += n
	if len(s.buffer) > 0 {
		s.scheduleDrain()
	}
}

// offer appends value to the Subscription's buffer — called by the
// owning Publisher's drain, never directly by user code. If demand is
// outstanding, a drain is scheduled.
func (s *Subscription[T]) offer(value T) {
	if s.state == subscriptionCancelled {
		return
	}
	s.buffer = append(s.buffer, value)
	if s.requested > 0 {
		s.scheduleDrain()
	}
}

func (s *Subscription[T]) scheduleDrain() {
	_ = s.executor.Enqueue(s.drain)
}

// drain delivers exactly one on_next per invocation: pop one buffered
// value, decrement demand, schedule subscriber.on_next. If more work
// remains, another drain is scheduled rather than looping in place — the
// next delivery always passes through its own scheduling hop.
func (s *Subscription[T]) drain() {
	if s.state == subscriptionCancelled || len(s.buffer) == 0 || s.requested <= 0 {
		return
	}
	value := s.buffer[0]
	s.buffer = s.buffer[1:]
	s.requested--
	subscriber := s.subscriber
	publisher := s.publisher
	_ = s.executor.Enqueue(func() {
		subscriber.onNext(value)
		publisher.noteDelivered()
	})
	if len(s.buffer) > 0 && s.requested > 0 {
		s.scheduleDrain()
	}
}

// Cancel asynchronously tears the Subscription down: the state
// transition to cancelled, and the publisher's unsubscribe, both happen
// once the scheduled cancel thunk actually runs — not synchronously from
// this call. An on_next already scheduled ahead of it may still deliver.
func (s *Subscription[T]) Cancel() {
	if s.state == subscriptionCancelled {
		return
	}
	_ = s.executor.Enqueue(func() {
		if s.state == subscriptionCancelled {
			return
		}
		s.state = subscriptionCancelled
		s.publisher.unsubscribe(s)
	})
}

// onCompleted forwards completion to the held subscriber, unless this
// Subscription has already been cancelled.
func (s *Subscription[T]) onCompleted() {
	if s.state == subscriptionCancelled {
		return
	}
	s.subscriber.onCompleted()
}

// onError forwards a failure to the held subscriber, unless this
// Subscription has already been cancelled.
func (s *Subscription[T]) onError(err error) {
	if s.state == subscriptionCancelled {
		return
	}
	s.subscriber.onError(err)
}
