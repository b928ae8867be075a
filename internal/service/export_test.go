package service

import "time"

// SetClock replaces the audit clock and returns a func restoring it.
func SetClock(clock func() time.Time) (restore func()) {
	previous := now
	now = clock
	return func() { now = previous }
}
