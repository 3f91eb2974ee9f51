package greyloop

// Thunk is a unit of queued work. Thunks never receive arguments or return
// values — state flows through closures, per the package's cooperative
// scheduling model.
type Thunk func()

// Executor is a FIFO queue of thunks that can forward-chain to a successor
// Executor. Running an Executor's queue to completion and falling through
// to its successor is how [Executor.Run] drives an entire chain — the
// mechanism a reactive pipeline (Publisher → Operation* → Subscriber) uses
// to let one driver loop advance every node.
//
// Executor is not safe for concurrent use: every method must be called
// from the single cooperative thread driving the chain.
type Executor struct {
	queue []Thunk
	next  *Executor
	shut  bool
}

// NewExecutor returns an empty, unchained Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Enqueue appends thunk to the queue. Returns [ErrExecutorShutdown] if
// Shutdown has already been called.
func (e *Executor) Enqueue(thunk Thunk) error {
	if e.shut {
		return ErrExecutorShutdown
	}
	e.queue = append(e.queue, thunk)
	return nil
}

// Tick snapshots the pending queue, clears it, then runs each thunk in
// FIFO order. If a thunk panics, the panic is recovered into a
// [*CallbackError], the thunks that had not yet run are re-prepended ahead
// of anything enqueued while running, and the error is returned — so a
// later Tick resumes with the thunk after the one that panicked (the
// panicking thunk itself is not re-queued). Tick returns the Executor's
// successor (possibly nil) regardless of whether an error occurred.
func (e *Executor) Tick() (*Executor, error) {
	if len(e.queue) == 0 {
		return e.next, nil
	}
	pending := e.queue
	e.queue = nil
	for i, thunk := range pending {
		if err := runThunk(thunk); err != nil {
			remaining := make([]Thunk, 0, len(pending)-i-1+len(e.queue))
			remaining = append(remaining, pending[i+1:]...)
			remaining = append(remaining, e.queue...)
			e.queue = remaining
			return e.next, err
		}
	}
	return e.next, nil
}

// runThunk invokes thunk, converting a recovered panic into a
// [*CallbackError] rather than letting it unwind the caller.
func runThunk(thunk Thunk) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newCallbackError(r)
		}
	}()
	thunk()
	return nil
}

// SetNext assigns e's successor in the forward chain. Passing nil clears
// it. Before assigning, SetNext walks the prospective successor's own
// chain; if e appears in that walk, the assignment would create a cycle
// and SetNext returns [ErrCyclicChain] without modifying e.
func (e *Executor) SetNext(next *Executor) error {
	for n := next; n != nil; n = n.next {
		if n == e {
			return ErrCyclicChain
		}
	}
	e.next = next
	return nil
}

// Next returns e's current successor, or nil.
func (e *Executor) Next() *Executor {
	return e.next
}

// IsDone reports whether e's own queue is currently empty. It does not
// inspect the rest of the chain.
func (e *Executor) IsDone() bool {
	return len(e.queue) == 0
}

// Remaining returns the number of thunks currently queued on e.
func (e *Executor) Remaining() int {
	return len(e.queue)
}

// Shutdown marks e so that further Enqueue calls fail with
// [ErrExecutorShutdown]. It has no effect on already-queued thunks or on
// the rest of the chain.
func (e *Executor) Shutdown() {
	e.shut = true
}

// findNextUndone scans the chain starting at e (inclusive) for the first
// Executor with a non-empty queue, returning nil if none is found.
func (e *Executor) findNextUndone() *Executor {
	for n := e; n != nil; n = n.next {
		if len(n.queue) > 0 {
			return n
		}
	}
	return nil
}

// Run drives e's forward chain to quiescence: it ticks the current
// Executor until its queue empties (thunks enqueued mid-tick are visible
// to the Executor's own next tick before control passes along the chain),
// advances to its successor, and — once the chain runs out of successors —
// rescans from e for any Executor anywhere in the chain that still has
// pending work. Run returns when no Executor in the chain has pending
// work, or as soon as a Tick reports an error.
func (e *Executor) Run() error {
	cur := e
	for {
		for cur.Remaining() > 0 {
			if _, err := cur.Tick(); err != nil {
				return err
			}
		}
		if cur.next != nil {
			cur = cur.next
			continue
		}
		next := e.findNextUndone()
		if next == nil {
			return nil
		}
		cur = next
	}
}
