// Package clock is the time source for snapshots and events.
package clock

import "time"

// NowFunc returns the current time. Tests replace it through Freeze.
var NowFunc = time.Now

// Now returns NowFunc() in UTC so stored timestamps compare across zones.
func Now() time.Time { return NowFunc().UTC() }

// Freeze pins Now to t and returns a function restoring the wall clock.
func Freeze(t time.Time) (restore func()) {
	NowFunc = func() time.Time { return t }
	return Reset
}

// Reset restores the wall clock.
func Reset() { NowFunc = time.Now }
