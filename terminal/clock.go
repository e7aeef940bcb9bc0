package terminal

import "time"

// Timer is a pending callback that can be cancelled
type Timer interface {
	// Stop cancels the timer; false if it already fired or was stopped
	Stop() bool
}

// Clock abstracts time so timer-driven behavior can be tested deterministically
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the real monotonic clock
type SystemClock struct{}

// Now returns the current time with monotonic clock reading
func (SystemClock) Now() time.Time {
	return time.Now()
}

// AfterFunc runs f on its own goroutine after d
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
