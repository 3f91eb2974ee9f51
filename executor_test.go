package greyloop

import (
	"errors"
	"testing"
)

func TestExecutor_EnqueueRunsInFIFOOrder(t *testing.T) {
	e := NewExecutor()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		_ = e.Enqueue(func() { order = append(order, i) })
	}
	if err := e.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want 0..4 in sequence", order)
		}
	}
}

func TestExecutor_EnqueueAfterShutdownFails(t *testing.T) {
	e := NewExecutor()
	e.Shutdown()
	if err := e.Enqueue(func() {}); !errors.Is(err, ErrExecutorShutdown) {
		t.Fatalf("got %v, want ErrExecutorShutdown", err)
	}
}

func TestExecutor_ThunkEnqueuedDuringTickRunsNextTick(t *testing.T) {
	e := NewExecutor()
	var ran []string
	_ = e.Enqueue(func() {
		ran = append(ran, "first")
		_ = e.Enqueue(func() { ran = append(ran, "nested") })
	})
	if _, err := e.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(ran) != 1 || ran[0] != "first" {
		t.Fatalf("nested enqueue ran within the same Tick: %v", ran)
	}
	if _, err := e.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(ran) != 2 || ran[1] != "nested" {
		t.Fatalf("got %v, want [first nested]", ran)
	}
}

func TestExecutor_PanicIsRecoveredAndRemainingRequeued(t *testing.T) {
	e := NewExecutor()
	var ran []int
	_ = e.Enqueue(func() { ran = append(ran, 1) })
	_ = e.Enqueue(func() { panic("boom") })
	_ = e.Enqueue(func() { ran = append(ran, 3) })

	_, err := e.Tick()
	if err == nil {
		t.Fatal("expected an error from the panicking thunk")
	}
	var cbErr *CallbackError
	if !errors.As(err, &cbErr) || cbErr.Value != "boom" {
		t.Fatalf("got %v, want *CallbackError{Value: boom}", err)
	}
	if len(ran) != 1 {
		t.Fatalf("ran = %v, want only [1] before the panic", ran)
	}
	if e.Remaining() != 1 {
		t.Fatalf("Remaining() = %d, want 1 (the thunk after the panicking one)", e.Remaining())
	}

	if _, err := e.Tick(); err != nil {
		t.Fatalf("second Tick: %v", err)
	}
	if len(ran) != 2 || ran[1] != 3 {
		t.Fatalf("got %v, want [1 3]", ran)
	}
}

func TestExecutor_SetNextDetectsCycle(t *testing.T) {
	a := NewExecutor()
	b := NewExecutor()
	c := NewExecutor()

	if err := a.SetNext(b); err != nil {
		t.Fatalf("a.SetNext(b): %v", err)
	}
	if err := b.SetNext(c); err != nil {
		t.Fatalf("b.SetNext(c): %v", err)
	}
	if err := c.SetNext(a); !errors.Is(err, ErrCyclicChain) {
		t.Fatalf("got %v, want ErrCyclicChain", err)
	}
	if c.Next() != nil {
		t.Fatal("a rejected SetNext must not mutate the chain")
	}
}

func TestExecutor_SetNextSelfIsCycle(t *testing.T) {
	a := NewExecutor()
	if err := a.SetNext(a); !errors.Is(err, ErrCyclicChain) {
		t.Fatalf("got %v, want ErrCyclicChain", err)
	}
}

func TestExecutor_RunDrainsChainedSuccessors(t *testing.T) {
	a := NewExecutor()
	b := NewExecutor()
	_ = a.SetNext(b)

	var order []string
	_ = a.Enqueue(func() { order = append(order, "a") })
	_ = b.Enqueue(func() { order = append(order, "b") })

	if err := a.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Fatalf("got %v, want [a b]", order)
	}
}

func TestExecutor_RunRescansChainForLateWork(t *testing.T) {
	a := NewExecutor()
	b := NewExecutor()
	_ = a.SetNext(b)

	var order []string
	_ = a.Enqueue(func() { order = append(order, "a1") })
	_ = b.Enqueue(func() {
		order = append(order, "b1")
		// enqueued on a after a has already been drained this Run;
		// Run must rescan the chain rather than stop at b.
		_ = a.Enqueue(func() { order = append(order, "a2") })
	})

	if err := a.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("got %v, want 3 entries", order)
	}
}

func TestExecutor_IsDoneAndRemaining(t *testing.T) {
	e := NewExecutor()
	if !e.IsDone() || e.Remaining() != 0 {
		t.Fatal("a fresh Executor must be done with zero remaining")
	}
	_ = e.Enqueue(func() {})
	if e.IsDone() || e.Remaining() != 1 {
		t.Fatalf("IsDone=%v Remaining=%d after one Enqueue", e.IsDone(), e.Remaining())
	}
}
