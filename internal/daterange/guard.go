package daterange

import (
	"time"

	"dtrange/internal/step"
)

// NonTerminating reports whether repeatedly applying s from start would never
// reach end. It probes a single step: the configuration is rejected when that
// step increases the signed distance to end.
//
// The probe assumes distance to end changes monotonically under repeated
// application. Calendar steps mixing signs (e.g. one month minus 40 days)
// can break that assumption and are not detected.
func NonTerminating(start, end time.Time, s step.Step) bool {
	next := s.Apply(start)
	if start.Before(end) {
		return diff(end, start) < diff(end, next)
	}
	return diff(start, end) < diff(next, end)
}

// diff returns a-b in microseconds. It does not saturate like time.Sub for
// spans beyond ~292 years.
func diff(a, b time.Time) int64 {
	return a.UnixMicro() - b.UnixMicro()
}
