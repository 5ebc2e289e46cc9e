package app

import "time"

// Clock supplies the current instant. Injected so comment timestamps and
// story expiry are testable without waiting on wall time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }
