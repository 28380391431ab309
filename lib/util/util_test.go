package util

import (
	"math"
	"testing"
	"time"
)

func TestHashStringDeterministic(t *testing.T) {
	a := HashString("config", 42)
	b := HashString("config", 42)
	if a != b {
		t.Fatalf("same input produced %d and %d", a, b)
	}

	if HashString("config", 42) == HashString("config", 43) {
		t.Error("different seeds should produce different codes")
	}
}

func TestNewStats(t *testing.T) {
	s := NewStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if s.Min != 2 || s.Max != 9 {
		t.Errorf("expected min 2 max 9, got %v %v", s.Min, s.Max)
	}
	if s.Mean != 5 {
		t.Errorf("expected mean 5, got %v", s.Mean)
	}
	if math.Abs(s.StdDeviation-2) > 1e-9 {
		t.Errorf("expected std deviation 2, got %v", s.StdDeviation)
	}

	if empty := NewStats(nil); empty != (Stats{}) {
		t.Errorf("expected zero stats for no samples, got %+v", empty)
	}
}

func TestNewDurationStats(t *testing.T) {
	s := NewDurationStats([]time.Duration{time.Microsecond, 3 * time.Microsecond})
	if s.Mean != 2000 {
		t.Errorf("expected mean of 2000ns, got %v", s.Mean)
	}
}
