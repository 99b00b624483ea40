// Package step implements the two kinds of range step: Fixed, whose absolute
// duration is constant, and Calendar, whose absolute duration depends on the
// point it is applied to.
package step

import (
	"time"

	"dtrange/internal/rangeerr"
)

// Step advances a point in time. The only implementations are Fixed and
// Calendar.
type Step interface {
	// Apply returns t advanced by the step. t is never modified.
	Apply(t time.Time) time.Time
	// IsZero reports whether the step has no magnitude at all.
	IsZero() bool
	String() string

	sealed()
}

// Validate rejects steps that can never make progress.
func Validate(s Step) error {
	if s == nil {
		return rangeerr.Type("unsupported step type")
	}
	if s.IsZero() {
		return rangeerr.Configuration("zero-magnitude step")
	}
	return nil
}

// Base unit multiples. All Fixed arithmetic happens in microseconds.
const (
	Microsecond int64 = 1
	Millisecond       = 1000 * Microsecond
	Second            = 1000 * Millisecond
	Minute            = 60 * Second
	Hour              = 60 * Minute
	Day               = 24 * Hour
	Week              = 7 * Day
)
