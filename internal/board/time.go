package board

import "time"

// Clock returns the current time. Mutations and reconciliation take one so
// tests can control timestamps.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
