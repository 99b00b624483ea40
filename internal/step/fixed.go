package step

import (
	"math"
	"strconv"
	"time"
)

// Fixed is a step of a constant signed number of microseconds.
type Fixed struct {
	micros int64
}

var _ Step = Fixed{}

// FixedFields is the composite form of a Fixed step. Fields may carry
// different signs; only their total matters.
type FixedFields struct {
	Weeks        int64
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	Milliseconds int64
	Microseconds int64
}

// Total returns the fields converted to microseconds.
func (f FixedFields) Total() int64 {
	return f.Weeks*Week +
		f.Days*Day +
		f.Hours*Hour +
		f.Minutes*Minute +
		f.Seconds*Second +
		f.Milliseconds*Millisecond +
		f.Microseconds
}

// NewFixed builds a Fixed step from its composite form.
func NewFixed(f FixedFields) Fixed {
	return Fixed{micros: f.Total()}
}

// Microseconds returns a Fixed step of n microseconds.
func Microseconds(n int64) Fixed {
	return Fixed{micros: n}
}

// FromDuration returns a Fixed step equal to d, truncated to microseconds.
func FromDuration(d time.Duration) Fixed {
	return Fixed{micros: d.Microseconds()}
}

// TotalMagnitude returns the signed step size in microseconds.
func (f Fixed) TotalMagnitude() int64 {
	return f.micros
}

// Duration returns the step as a time.Duration, saturating at the
// time.Duration limits.
func (f Fixed) Duration() time.Duration {
	const limit = math.MaxInt64 / int64(time.Microsecond)
	switch {
	case f.micros > limit:
		return time.Duration(math.MaxInt64)
	case f.micros < -limit:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(f.micros) * time.Microsecond
}

// Fields decomposes the step into its canonical composite form: every
// field carries the sign of the total and fields below weeks stay within
// their natural range.
func (f Fixed) Fields() FixedFields {
	var out FixedFields
	rest := f.micros
	take := func(unit int64) int64 {
		q := rest / unit
		rest -= q * unit
		return q
	}
	out.Weeks = take(Week)
	out.Days = take(Day)
	out.Hours = take(Hour)
	out.Minutes = take(Minute)
	out.Seconds = take(Second)
	out.Milliseconds = take(Millisecond)
	out.Microseconds = rest
	return out
}

// Apply returns t moved by the step, keeping t's location.
func (f Fixed) Apply(t time.Time) time.Time {
	sub := t.Nanosecond() % 1000
	return time.UnixMicro(t.UnixMicro() + f.micros).Add(time.Duration(sub)).In(t.Location())
}

// IsZero implements Step.
func (f Fixed) IsZero() bool {
	return f.micros == 0
}

// String renders the step as a Go duration when it fits one.
func (f Fixed) String() string {
	if d := f.Duration(); d.Microseconds() == f.micros {
		return d.String()
	}
	return strconv.FormatInt(f.micros, 10) + "us"
}

func (Fixed) sealed() {}
