package booking

import "time"

// Clock supplies the current time. Injected so the reconciler's decisions
// can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in local time, which is the timezone
// booking dates and hours are interpreted in.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
