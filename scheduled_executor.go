package greyloop

// ScheduledExecutor is an [Executor] that also owns a [TimerWheel] and a
// monotonic virtual clock. ScheduleDelayed queues a callback onto the
// Executor once its delay elapses, measured in the scheduler's own
// unitless ticks — never the wall clock.
type ScheduledExecutor struct {
	*Executor

	wheel       *TimerWheel
	currentTime int64
	nextTimerID TimerID
	logger      Logger
	metrics     *Metrics
}

// NewScheduledExecutor constructs a ScheduledExecutor. See [WithDepth],
// [WithMaxTimers], [WithLogger], and [WithMetrics] for configuration.
func NewScheduledExecutor(opts ...Option) *ScheduledExecutor {
	cfg := resolveOptions(opts)
	se := &ScheduledExecutor{
		Executor: NewExecutor(),
		wheel:    newTimerWheelFromConfig(cfg),
		logger:   cfg.logger,
	}
	if cfg.metrics {
		se.metrics = &Metrics{Latency: newLatencyMetrics()}
	}
	return se
}

// Enqueue appends thunk to the Executor's queue, shadowing
// [Executor.Enqueue] so that — when [WithMetrics] is enabled — the
// latency between a thunk being queued and it actually running can be
// recorded in virtual time units.
func (s *ScheduledExecutor) Enqueue(thunk Thunk) error {
	if s.metrics == nil {
		return s.Executor.Enqueue(thunk)
	}
	queuedAt := s.currentTime
	return s.Executor.Enqueue(func() {
		s.metrics.CallbacksRun++
		s.metrics.Latency.record(float64(s.currentTime - queuedAt))
		thunk()
	})
}

// ScheduleDelayed allocates a fresh TimerID and schedules thunk to be
// enqueued onto the Executor once delayTicks have elapsed on the
// scheduler's virtual clock. The timer's own firing event never runs user
// code directly — it only enqueues thunk, so a panic inside thunk is
// handled the same way as any other queued callback's panic, via
// [Executor.Tick].
func (s *ScheduledExecutor) ScheduleDelayed(thunk Thunk, delayTicks int64) (TimerID, error) {
	if delayTicks <= 0 {
		return 0, ErrPastExpiry
	}
	s.nextTimerID++
	id := s.nextTimerID
	entry := &TimerEntry{
		ID:     id,
		Expiry: s.currentTime + delayTicks,
		Thunk: func() {
			_ = s.Enqueue(thunk)
		},
	}
	if err := s.wheel.AddTimer(entry); err != nil {
		s.nextTimerID--
		return 0, err
	}
	return id, nil
}

// CancelDelayed cancels a timer scheduled via ScheduleDelayed. Returns
// false if the timer has already fired, was already cancelled, or the id
// is unknown. Cancelling after the firing event has already been enqueued
// onto the Executor does not remove it from the queue.
func (s *ScheduledExecutor) CancelDelayed(id TimerID) bool {
	ok := s.wheel.CancelTimer(id)
	if ok && s.metrics != nil {
		s.metrics.TimersCancelled++
	}
	return ok
}

// CurrentTime returns the scheduler's virtual clock, which always equals
// the owned TimerWheel's internal time.
func (s *ScheduledExecutor) CurrentTime() int64 {
	return s.currentTime
}

// HasActiveTimers reports whether any timer is still pending.
func (s *ScheduledExecutor) HasActiveTimers() bool {
	return s.wheel.TimerCount() > 0
}

// Metrics returns the scheduler's runtime statistics, or nil if
// [WithMetrics] was not enabled at construction.
func (s *ScheduledExecutor) Metrics() *Metrics {
	return s.metrics
}

// Run drains the Executor's queue and advances the virtual clock in
// lockstep: while the queue has work it is ticked; once quiescent, if the
// wheel still holds timers, the clock jumps directly to the next expiry
// (firing events enqueue their thunks for the following iteration rather
// than running user code inline); Run terminates once both the queue and
// the wheel are empty.
func (s *ScheduledExecutor) Run() error {
	for {
		if s.Executor.Remaining() > 0 {
			if _, err := s.Executor.Tick(); err != nil {
				return err
			}
			if s.metrics != nil {
				s.metrics.Ticks++
				s.metrics.QueueDepth = s.Executor.Remaining()
			}
			continue
		}
		next, ok := s.wheel.FindNextTimeout()
		if !ok {
			return nil
		}
		delta := next - s.currentTime
		if delta < 1 {
			delta = 1
		}
		before := s.wheel.TimerCount()
		s.wheel.AdvanceBy(delta)
		s.currentTime += delta
		if s.metrics != nil {
			s.metrics.TimersFired += int64(before - s.wheel.TimerCount())
		}
		logTick(s.logger, s.Executor.Remaining(), 0)
	}
}
