package flow

import (
	"fmt"
	"testing"

	"github.com/stevan/greyloop"
	"github.com/stretchr/testify/assert"
)

func TestZip_CombinesInLockstepScenarioS4(t *testing.T) {
	// Zip requires a single element type across sources; mix int and
	// string through an any-typed pair, as the package docs recommend
	// for a mixed-type zip.
	pa := NewPublisher[any](greyloop.NewExecutor())
	pb := NewPublisher[any](greyloop.NewExecutor())
	zipped := Zip(func(values []any) string {
		return fmt.Sprintf("%v:%v", values[0], values[1])
	}, pa, pb)

	var got []string
	var completions int
	zipped.Subscribe(&captureHandle[string]{
		onNext:      func(v string) { got = append(got, v) },
		onCompleted: func() { completions++ },
	})

	pa.Submit(any(1))
	pa.Submit(any(2))
	pa.Submit(any(3))
	pb.Submit(any("a"))
	pb.Submit(any("b"))
	pb.Submit(any("c"))
	pb.Submit(any("d"))

	pa.Close()
	pb.Close()

	assert.Equal(t, []string{"1:a", "2:b", "3:c"}, got)
	assert.Equal(t, 1, completions, "zip must complete exactly once even with an unmatched trailing item")
}

func TestZip_EmptySourceListClosesImmediately(t *testing.T) {
	zipped := Zip(func(values []int) int { return 0 })
	assert.True(t, zipped.Closed())
}

func TestZip_NoEmissionUntilEverySourceHasAValue(t *testing.T) {
	a := NewPublisher[int](greyloop.NewExecutor())
	b := NewPublisher[int](greyloop.NewExecutor())
	zipped := Zip(func(values []int) int { return values[0] + values[1] }, a, b)

	var got []int
	zipped.Subscribe(&captureHandle[int]{onNext: func(v int) { got = append(got, v) }})

	a.Submit(1)
	a.Submit(2)
	assert.NoError(t, a.Executor().Run())
	assert.Empty(t, got, "must not emit until every source has contributed a value")

	b.Submit(10)
	a.Close()
	b.Close()

	assert.Equal(t, []int{11}, got)
}
