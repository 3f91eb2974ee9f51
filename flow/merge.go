package flow

import "github.com/stevan/greyloop"

// mergeAdapter subscribes to one of Merge's sources and forwards its
// items straight through to the shared downstream Publisher, serialized
// by the composite's own Executor ordering.
type mergeAdapter[T any] struct {
	out     *Publisher[T]
	sub     *Subscription[T]
	done    func()
	errored bool
}

func (a *mergeAdapter[T]) onSubscribe(sub *Subscription[T]) {
	a.sub = sub
	sub.Request(1)
}

func (a *mergeAdapter[T]) onNext(value T) {
	a.sub.Request(1)
	a.out.Submit(value)
}

func (a *mergeAdapter[T]) onCompleted() {
	a.done()
}

func (a *mergeAdapter[T]) onError(err error) {
	if a.errored {
		return
	}
	a.errored = true
	a.out.CloseWithError(err)
}

// Merge forwards every source's items to the downstream subscription as
// they arrive and completes exactly once, after every source has
// completed.
func Merge[T any](sources ...*Publisher[T]) *Publisher[T] {
	out := NewPublisher[T](greyloop.NewExecutor())
	remaining := len(sources)
	if remaining == 0 {
		out.Close()
		return out
	}
	for _, src := range sources {
		src := src
		adapter := &mergeAdapter[T]{out: out}
		adapter.done = func() {
			remaining--
			if remaining == 0 {
				out.Close()
			}
		}
		sub := src.Subscribe(adapter)
		_ = sub.executor.SetNext(out.executor)
	}
	return out
}
