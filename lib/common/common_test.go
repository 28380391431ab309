package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
)

func TestAssertfReleaseMode(t *testing.T) {
	prev := SetDebugAssertions(false)
	defer SetDebugAssertions(prev)

	if !Assertf(true, "never fails") {
		t.Error("Assertf(true) should return true")
	}
	if Assertf(false, "fails with %d", 1) {
		t.Error("Assertf(false) should return false")
	}
}

func TestAssertfDebugModePanics(t *testing.T) {
	prev := SetDebugAssertions(true)
	defer SetDebugAssertions(prev)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic in debug mode")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected an error panic value, got %T", r)
		}
		var assertErr *AssertionError
		if !errors.As(err, &assertErr) {
			t.Fatalf("expected *AssertionError, got %T", err)
		}
		if assertErr.Msg != "key 7 missing" {
			t.Errorf("unexpected message %q", assertErr.Msg)
		}
	}()

	Assertf(false, "key %d missing", 7)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    logger.LogLevel
		wantErr bool
	}{
		{"debug", logger.DEBUG, false},
		{"INFO", logger.INFO, false},
		{"warn", logger.WARNING, false},
		{"warning", logger.WARNING, false},
		{"error", logger.ERROR, false},
		{"loud", logger.INFO, true},
	}

	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	c := DefaultConfig()
	c.DebugAsserts = true
	out := c.String()

	for _, want := range []string{"LOGGING", "info", "(stdout)", "Debug Assertions", "true"} {
		if !strings.Contains(out, want) {
			t.Errorf("config string misses %q:\n%s", want, out)
		}
	}
}
