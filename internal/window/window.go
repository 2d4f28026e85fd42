// Package window computes the time cutoff that bounds which events are reported.
package window

import "time"

// Options are the user-supplied relative-time options.
type Options struct {
	All     bool // disable filtering
	Hours   int
	Minutes int // wins over Hours when non-zero
}

// Unbounded is the cutoff that admits every event.
var Unbounded = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// Cutoff returns the earliest instant an event may have and still be reported.
// Missing or zero options degrade to Unbounded rather than failing.
func Cutoff(opts Options, now time.Time) time.Time {
	if opts.All {
		return Unbounded
	}

	minutes := 0
	if opts.Hours != 0 {
		minutes = opts.Hours * 60
	}
	if opts.Minutes != 0 {
		minutes = opts.Minutes
	}
	if minutes == 0 {
		return Unbounded
	}

	return now.UTC().Add(-time.Duration(minutes) * time.Minute)
}

// IsUnbounded reports whether cutoff disables filtering.
func IsUnbounded(cutoff time.Time) bool {
	return !cutoff.After(Unbounded)
}
