package flow

import "github.com/stevan/greyloop"

// zipAdapter is a closure-backed subscriberHandle for one of Zip's
// sources: each callback closes directly over the buffers/completed
// state shared across all of that Zip call's sources.
type zipAdapter[T any] struct {
	onSub         func(*Subscription[T])
	onNextFn      func(T)
	onCompletedFn func()
	onErrorFn     func(error)
}

func (a *zipAdapter[T]) onSubscribe(sub *Subscription[T]) { a.onSub(sub) }
func (a *zipAdapter[T]) onNext(value T)                   { a.onNextFn(value) }
func (a *zipAdapter[T]) onCompleted()                     { a.onCompletedFn() }
func (a *zipAdapter[T]) onError(err error)                { a.onErrorFn(err) }

// Zip maintains one buffer per source and, whenever every buffer is
// non-empty, dequeues one value from each (FIFO), combines them, and
// submits the result. Once any completed source's buffer has been fully
// drained — meaning it can never contribute another value to a pairing —
// Zip waits two scheduling hops, letting any pending offer/drain cycles
// finish, before signalling downstream completion exactly once, discarding
// whatever unmatched values remain buffered on the other sources.
//
// All sources must share T; combiner receives the ordered per-source
// values as a slice, resolving spec.md's N-ary-combiner open question in
// favor of a single interface regardless of source count (use T = any
// and type-assert inside combiner for a mixed-type zip).
func Zip[T, R any](combiner func([]T) R, sources ...*Publisher[T]) *Publisher[R] {
	out := NewPublisher[R](greyloop.NewExecutor())
	if len(sources) == 0 {
		out.Close()
		return out
	}

	buffers := make([][]T, len(sources))
	completed := make([]bool, len(sources))
	var finishing bool

	// exhausted reports whether some completed source's buffer has run
	// dry — the point past which no further tuple can ever be formed.
	exhausted := func() bool {
		for i := range sources {
			if completed[i] && len(buffers[i]) == 0 {
				return true
			}
		}
		return false
	}
	tryEmit := func() {
		for {
			for _, b := range buffers {
				if len(b) == 0 {
					return
				}
			}
			values := make([]T, len(sources))
			for i := range buffers {
				values[i] = buffers[i][0]
				buffers[i] = buffers[i][1:]
			}
			out.Submit(combiner(values))
		}
	}
	var checkDone func()
	checkDone = func() {
		if finishing || !exhausted() {
			return
		}
		finishing = true
		_ = out.Executor().Enqueue(func() {
			_ = out.Executor().Enqueue(func() {
				if exhausted() {
					out.Close()
				} else {
					finishing = false
				}
			})
		})
	}

	for i, src := range sources {
		i := i
		var sourceSub *Subscription[T]
		adapter := &zipAdapter[T]{
			onSub: func(sub *Subscription[T]) {
				sourceSub = sub
				sub.Request(1)
			},
			onNextFn: func(value T) {
				sourceSub.Request(1)
				buffers[i] = append(buffers[i], value)
				tryEmit()
				checkDone()
			},
			onCompletedFn: func() {
				completed[i] = true
				checkDone()
			},
			onErrorFn: func(err error) { out.CloseWithError(err) },
		}
		sub := src.Subscribe(adapter)
		_ = sub.executor.SetNext(out.executor)
	}

	return out
}
