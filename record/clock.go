package record

import "time"

// Clock supplies the current time. Injected into the Builder so created_at
// stamping is controllable from tests.
type Clock func() time.Time

// SystemClock reads the real wall clock in UTC.
func SystemClock() Clock {
	return func() time.Time { return time.Now().UTC() }
}
