package greyloop

import (
	"bytes"
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func TestNoOpLogger_Silent(t *testing.T) {
	logger := NoOpLogger()
	if logger.Debug().Enabled() {
		t.Error("NoOpLogger should have every level disabled")
	}
	// should never panic even when called.
	logger.Debug().Str(`k`, `v`).Log(`should not appear anywhere`)
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(stumpy.L.WithWriter(&buf))

	logger.Info().Str(`field`, `value`).Log(`hello`)

	out := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"hello"`)) {
		t.Errorf("output missing message field: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"field":"value"`)) {
		t.Errorf("output missing custom field: %q", out)
	}
}

func TestNewLogger_FiltersBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(stumpy.L.WithWriter(&buf), stumpy.L.WithLevel(logiface.LevelError))

	logger.Info().Log(`filtered out`)
	if buf.Len() != 0 {
		t.Errorf("expected info log to be filtered, got %q", buf.String())
	}

	logger.Err().Log(`passes through`)
	if buf.Len() == 0 {
		t.Error("expected error-level log to be written")
	}
}

func TestLogCallbackPanic_IncludesCause(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(stumpy.L.WithWriter(&buf))

	cause := errors.New("boom")
	logCallbackPanic(logger, cause)

	if !bytes.Contains(buf.Bytes(), []byte(`boom`)) {
		t.Errorf("expected logged error to mention cause, got %q", buf.String())
	}
}

func TestLogTimerFired(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(stumpy.L.WithWriter(&buf), stumpy.L.WithLevel(logiface.LevelDebug))

	logTimerFired(logger, TimerID(7), 2)

	if !bytes.Contains(buf.Bytes(), []byte(`"timer_id":7`)) {
		t.Errorf("expected timer id in output, got %q", buf.String())
	}
}
