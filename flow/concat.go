package flow

import "github.com/stevan/greyloop"

// concatAdapter subscribes to exactly one source of Concat's ordered
// list at a time, forwarding its items downstream and advancing to the
// next source once it completes.
type concatAdapter[T any] struct {
	out     *Publisher[T]
	sub     *Subscription[T]
	advance func()
}

func (a *concatAdapter[T]) onSubscribe(sub *Subscription[T]) {
	a.sub = sub
	sub.Request(1)
}

func (a *concatAdapter[T]) onNext(value T) {
	a.sub.Request(1)
	a.out.Submit(value)
}

func (a *concatAdapter[T]) onCompleted() {
	a.advance()
}

func (a *concatAdapter[T]) onError(err error) {
	a.out.CloseWithError(err)
}

// Concat subscribes to sources in order, forwarding items from source k
// only; once source k completes it advances to source k+1; it completes
// downstream exactly once, after the last source completes.
func Concat[T any](sources ...*Publisher[T]) *Publisher[T] {
	out := NewPublisher[T](greyloop.NewExecutor())
	if len(sources) == 0 {
		out.Close()
		return out
	}

	var subscribeNext func(index int)
	subscribeNext = func(index int) {
		if index >= len(sources) {
			out.Close()
			return
		}
		src := sources[index]
		adapter := &concatAdapter[T]{out: out}
		adapter.advance = func() { subscribeNext(index + 1) }
		sub := src.Subscribe(adapter)
		_ = sub.executor.SetNext(out.executor)
	}
	subscribeNext(0)

	return out
}
