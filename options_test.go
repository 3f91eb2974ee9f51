// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package greyloop

import "testing"

func TestResolveOptions_Defaults(t *testing.T) {
	cfg := resolveOptions(nil)
	if cfg.depth != defaultDepth {
		t.Errorf("depth = %d, want %d", cfg.depth, defaultDepth)
	}
	if cfg.maxTimers != defaultMaxTimers {
		t.Errorf("maxTimers = %d, want %d", cfg.maxTimers, defaultMaxTimers)
	}
	if cfg.metrics {
		t.Error("metrics should default to disabled")
	}
	if cfg.logger == nil {
		t.Error("logger should default to a non-nil no-op Logger")
	}
}

func TestResolveOptions_Custom(t *testing.T) {
	logger := NewLogger()
	cfg := resolveOptions([]Option{
		WithDepth(3),
		WithMaxTimers(64),
		WithMetrics(true),
		WithLogger(logger),
	})
	if cfg.depth != 3 {
		t.Errorf("depth = %d, want 3", cfg.depth)
	}
	if cfg.maxTimers != 64 {
		t.Errorf("maxTimers = %d, want 64", cfg.maxTimers)
	}
	if !cfg.metrics {
		t.Error("metrics should be enabled")
	}
}

func TestResolveOptions_ClampsToMinimumOne(t *testing.T) {
	cfg := resolveOptions([]Option{WithDepth(0), WithMaxTimers(-5)})
	if cfg.depth != 1 {
		t.Errorf("depth = %d, want 1", cfg.depth)
	}
	if cfg.maxTimers != 1 {
		t.Errorf("maxTimers = %d, want 1", cfg.maxTimers)
	}
}

func TestResolveOptions_NilOptionIgnored(t *testing.T) {
	cfg := resolveOptions([]Option{nil, WithDepth(7), nil})
	if cfg.depth != 7 {
		t.Errorf("depth = %d, want 7", cfg.depth)
	}
}

func TestResolveOptions_MultipleOptionsAnyOrder(t *testing.T) {
	a := resolveOptions([]Option{WithDepth(4), WithMaxTimers(10)})
	b := resolveOptions([]Option{WithMaxTimers(10), WithDepth(4)})
	if a.depth != b.depth || a.maxTimers != b.maxTimers {
		t.Error("option application should not depend on order")
	}
}
