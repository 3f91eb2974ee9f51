package flow

import (
	"testing"

	"github.com/stevan/greyloop"
	"github.com/stretchr/testify/assert"
)

func TestSubscription_NoDeliveryWithoutDemand(t *testing.T) {
	pub := NewPublisher[int](greyloop.NewExecutor())
	var got []int
	var sub *Subscription[int]
	sub = pub.Subscribe(&captureHandle[int]{
		onSub:  func(s *Subscription[int]) {},
		onNext: func(v int) { got = append(got, v) },
	})
	_ = sub
	pub.Submit(1)
	assert.NoError(t, pub.Executor().Run())
	assert.Empty(t, got, "no on_next should fire before any Request")
}

func TestSubscription_RequestReleasesBufferedValues(t *testing.T) {
	pub := NewPublisher[int](greyloop.NewExecutor())
	var got []int
	var held *Subscription[int]
	pub.Subscribe(&captureHandle[int]{
		onSub: func(s *Subscription[int]) { held = s },
		onNext: func(v int) {
			got = append(got, v)
		},
	})
	pub.Submit(1)
	pub.Submit(2)
	assert.NoError(t, pub.Executor().Run())
	assert.Empty(t, got)

	held.Request(1)
	assert.NoError(t, pub.Executor().Run())
	assert.Equal(t, []int{1}, got)

	held.Request(1)
	assert.NoError(t, pub.Executor().Run())
	assert.Equal(t, []int{1, 2}, got)
}

func TestSubscription_CancelBeforeRequestYieldsZeroDeliveries(t *testing.T) {
	pub := NewPublisher[int](greyloop.NewExecutor())
	var got []int
	var held *Subscription[int]
	held = pub.Subscribe(&captureHandle[int]{
		onSub:  func(s *Subscription[int]) { held = s },
		onNext: func(v int) { got = append(got, v) },
	})
	pub.Submit(1)
	held.Cancel()
	held.Request(100)
	assert.NoError(t, pub.Executor().Run())
	assert.Empty(t, got)
	assert.Equal(t, subscriptionCancelled, held.State())
}

func TestSubscription_CancelIsAsynchronous(t *testing.T) {
	pub := NewPublisher[int](greyloop.NewExecutor())
	sub := pub.Subscribe(NewSubscriber(10, func(int) {}))
	sub.Cancel()
	assert.Equal(t, subscriptionOpen, sub.State(), "cancel must not take effect synchronously")
	assert.NoError(t, pub.Executor().Run())
	assert.Equal(t, subscriptionCancelled, sub.State())
}

func TestSubscription_RequestNegativeOrZeroIsNoOp(t *testing.T) {
	pub := NewPublisher[int](greyloop.NewExecutor())
	var held *Subscription[int]
	pub.Subscribe(&captureHandle[int]{onSub: func(s *Subscription[int]) { held = s }})
	assert.NoError(t, pub.Executor().Run())
	held.Request(0)
	held.Request(-5)
	assert.Equal(t, 0, held.Requested(), "demand must never go negative or change on non-positive Request")
}

func TestSubscription_DrainSchedulesAtMostOnePerTick(t *testing.T) {
	pub := NewPublisher[int](greyloop.NewExecutor())
	var deliveries []int
	var held *Subscription[int]
	pub.Subscribe(&captureHandle[int]{
		onSub:  func(s *Subscription[int]) { held = s },
		onNext: func(v int) { deliveries = append(deliveries, v) },
	})
	pub.Submit(1)
	pub.Submit(2)
	pub.Submit(3)
	assert.NoError(t, pub.Executor().Run())
	held.Request(3)

	_, err := pub.Executor().Tick()
	assert.NoError(t, err)
	assert.LessOrEqual(t, len(deliveries), 1, "at most one on_next should have run after a single Tick pass")

	assert.NoError(t, pub.Executor().Run())
	assert.Equal(t, []int{1, 2, 3}, deliveries)
}
