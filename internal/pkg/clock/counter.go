package clock

import "time"

// DefaultCounterStep is used when NewCounter receives a non-positive step.
const DefaultCounterStep = 2 * time.Second

// Counter derives an HOTP counter from wall-clock time.
//
// The counter is the current unix time quantized to a fixed step, rounded to
// the nearest step boundary. It is monotonically non-decreasing in real time
// and carries no hidden state: two calls within the same step produce the
// same counter, two calls a step apart produce different counters.
type Counter struct {
	clock Clocker
	step  time.Duration
}

// NewCounter constructs a Counter quantized to the given step.
func NewCounter(clock Clocker, step time.Duration) *Counter {
	if step <= 0 {
		step = DefaultCounterStep
	}

	return &Counter{
		clock: clock,
		step:  step,
	}
}

// Current returns the counter value for the current time.
func (c *Counter) Current() uint64 {
	return c.At(c.clock.Now())
}

// At returns the counter value for an arbitrary time.
func (c *Counter) At(t time.Time) uint64 {
	stepMs := c.step.Milliseconds()
	// round to nearest step, not floor
	return uint64((t.UnixMilli() + stepMs/2) / stepMs)
}

// Step returns the quantization step.
func (c *Counter) Step() time.Duration {
	return c.step
}
