// Package clock provides a tiny time abstraction and the wall-clock
// derived HOTP counter.
//
// Production code should depend on the Clocker interface instead of calling
// time.Now() directly, so business logic can be tested against a fixed
// clock. Counter builds on Clocker to derive the step-quantized counter
// used for passcode generation.
package clock
