package clock

import (
	"testing"
	"time"
)

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

func TestCounterQuantization(t *testing.T) {
	// Arrange
	at := time.Unix(1000, 0)
	c := NewCounter(fixedClock{t: at}, 2*time.Second)

	// Act
	got := c.Current()

	// Assert
	if got != 500 {
		t.Fatalf("expected counter 500, got %d", got)
	}
}

func TestCounterSameStepSameValue(t *testing.T) {
	c := NewCounter(nil, 2*time.Second)

	a := c.At(time.Unix(1000, 0))
	b := c.At(time.Unix(1000, int64(900*time.Millisecond)))

	if a != b {
		t.Fatalf("expected same counter within one step, got %d and %d", a, b)
	}
}

func TestCounterAdvancesAcrossSteps(t *testing.T) {
	c := NewCounter(nil, 2*time.Second)

	a := c.At(time.Unix(1000, 0))
	b := c.At(time.Unix(1003, 0))

	if b <= a {
		t.Fatalf("expected counter to advance, got %d then %d", a, b)
	}
}

func TestCounterDefaultStep(t *testing.T) {
	c := NewCounter(fixedClock{t: time.Unix(1000, 0)}, 0)

	if c.Step() != DefaultCounterStep {
		t.Fatalf("expected default step %v, got %v", DefaultCounterStep, c.Step())
	}
}
