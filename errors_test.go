package greyloop

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestCallbackError(t *testing.T) {
	t.Run("wraps an error panic value", func(t *testing.T) {
		err := newCallbackError(io.EOF)
		if err == nil {
			t.Fatal("newCallbackError(io.EOF) = nil")
		}
		if !errors.Is(err, io.EOF) {
			t.Error("errors.Is(err, io.EOF) = false, want true")
		}
		var ce *CallbackError
		if !errors.As(err, &ce) {
			t.Fatal("errors.As failed to find *CallbackError")
		}
		if ce.Value != io.EOF {
			t.Errorf("ce.Value = %v, want %v", ce.Value, io.EOF)
		}
	})

	t.Run("wraps a non-error panic value", func(t *testing.T) {
		err := newCallbackError("boom")
		if err == nil {
			t.Fatal("newCallbackError(\"boom\") = nil")
		}
		if errors.Unwrap(err) != nil {
			t.Errorf("Unwrap() = %v, want nil for a non-error panic value", errors.Unwrap(err))
		}
		if got, want := err.Error(), "greyloop: callback panicked: boom"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("nil panic value yields nil error", func(t *testing.T) {
		if err := newCallbackError(nil); err != nil {
			t.Errorf("newCallbackError(nil) = %v, want nil", err)
		}
	})
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{After: 250}
	if !errors.Is(err, ErrTimeout) {
		t.Error("errors.Is(err, ErrTimeout) = false, want true")
	}
	if got, want := err.Error(), fmt.Sprintf("greyloop: timed out after %d", int64(250)); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrCyclicChain,
		ErrPastExpiry,
		ErrCapacityExceeded,
		ErrOverflow,
		ErrUnknownTimer,
		ErrRejected,
		ErrTimeout,
		ErrChainCycle,
		ErrExecutorShutdown,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			if errors.Is(a, b) {
				t.Errorf("sentinel %d unexpectedly matches sentinel %d", i, j)
			}
		}
	}
}
