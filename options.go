// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package greyloop

// schedulerOptions holds configuration for ScheduledExecutor/TimerWheel
// construction.
type schedulerOptions struct {
	depth      int
	maxTimers  int
	logger     Logger
	metrics    bool
}

const (
	// defaultDepth is the number of gears in a TimerWheel when no
	// WithDepth option is supplied.
	defaultDepth = 5

	// defaultMaxTimers is the capacity of a TimerWheel when no
	// WithMaxTimers option is supplied.
	defaultMaxTimers = 10000
)

// Option configures a [ScheduledExecutor] or [TimerWheel].
type Option interface {
	applyScheduler(*schedulerOptions)
}

// optionFunc implements Option.
type optionFunc struct {
	apply func(*schedulerOptions)
}

func (o *optionFunc) applyScheduler(opts *schedulerOptions) {
	o.apply(opts)
}

// WithDepth sets the number of gears in the TimerWheel. Each additional
// gear extends the range of delays the wheel can represent without
// overflowing, at the cost of one more cascade level. Depth must be at
// least 1; values below that are clamped to 1.
func WithDepth(depth int) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		if depth < 1 {
			depth = 1
		}
		opts.depth = depth
	}}
}

// WithMaxTimers bounds the number of live (pending) timers a TimerWheel
// will hold at once. Exceeding it causes AddTimer to return
// [ErrCapacityExceeded]. A value below 1 is clamped to 1.
func WithMaxTimers(max int) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		if max < 1 {
			max = 1
		}
		opts.maxTimers = max
	}}
}

// WithLogger attaches a structured [Logger] to the scheduler. Nil disables
// logging, which is also the default.
func WithLogger(logger Logger) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		opts.logger = logger
	}}
}

// WithMetrics enables tick/timer instrumentation, retrievable via
// (*ScheduledExecutor).Metrics. Disabled by default: even the cheap P²
// bookkeeping is bypassed entirely unless a caller opts in.
func WithMetrics(enabled bool) Option {
	return &optionFunc{func(opts *schedulerOptions) {
		opts.metrics = enabled
	}}
}

// resolveOptions applies Option values over the package defaults.
func resolveOptions(opts []Option) *schedulerOptions {
	cfg := &schedulerOptions{
		depth:     defaultDepth,
		maxTimers: defaultMaxTimers,
		logger:    NoOpLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyScheduler(cfg)
	}
	return cfg
}
