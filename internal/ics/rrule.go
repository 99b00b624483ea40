package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"dtrange/internal/daterange"
	"dtrange/internal/step"
)

const (
	defaultMaxOccurrences = 5000
)

// ToRRule describes an ascending plan as an RRULE with DTSTART at the plan's
// start and UNTIL just before its end. A capped plan gets COUNT instead of
// UNTIL, set to the number of points it actually yields.
//
// Fixed steps advance by elapsed time, so their rule is anchored in UTC where
// the wall clock has no transitions; calendar steps keep the plan's location.
//
// Only strides RRULE can express with the same meaning are accepted: a
// calendar step with a single positive field (microseconds excluded), or a
// fixed step that is a whole number of seconds. Monthly and yearly strides
// from days that do not exist in every month are rejected because RRULE skips
// those months where the range clamps to the month end.
func ToRRule(p *daterange.Plan) (*rrule.RRule, error) {
	if p.Empty() {
		return nil, errors.New("rrule: range is empty: " + p.Reason.String())
	}
	if p.Direction != daterange.Ascending {
		return nil, errors.New("rrule: descending ranges cannot be expressed")
	}
	if p.Start.Nanosecond() != 0 {
		return nil, errors.New("rrule: start has sub-second precision")
	}

	freq, interval, err := stride(p.Step)
	if err != nil {
		return nil, err
	}
	if (freq == rrule.MONTHLY && p.Start.Day() > 28) ||
		(freq == rrule.YEARLY && p.Start.Month() == time.February && p.Start.Day() == 29) {
		return nil, errors.New("rrule: start day does not exist in every period")
	}

	opt := rrule.ROption{
		Freq:     freq,
		Interval: interval,
		Dtstart:  p.Start,
		Until:    p.End.Add(-time.Microsecond),
	}
	if _, ok := p.Step.(step.Fixed); ok {
		opt.Dtstart = opt.Dtstart.UTC()
		opt.Until = opt.Until.UTC()
	}
	if p.Limit() > 0 {
		n := 0
		for range p.All() {
			n++
		}
		opt.Count = n
		opt.Until = time.Time{}
	}
	return rrule.NewRRule(opt)
}

func stride(s step.Step) (rrule.Frequency, int, error) {
	switch x := s.(type) {
	case step.Calendar:
		type unit struct {
			n    int
			freq rrule.Frequency
		}
		var found []unit
		for _, u := range []unit{
			{x.Years, rrule.YEARLY},
			{x.Months, rrule.MONTHLY},
			{x.Weeks, rrule.WEEKLY},
			{x.Days, rrule.DAILY},
			{x.Hours, rrule.HOURLY},
			{x.Minutes, rrule.MINUTELY},
			{x.Seconds, rrule.SECONDLY},
		} {
			if u.n != 0 {
				found = append(found, u)
			}
		}
		if len(found) != 1 || found[0].n < 0 || x.Microseconds != 0 {
			return 0, 0, errors.New("rrule: calendar step " + x.String() + " is not a single positive unit")
		}
		return found[0].freq, found[0].n, nil

	case step.Fixed:
		us := x.TotalMagnitude()
		for _, u := range []struct {
			size int64
			freq rrule.Frequency
		}{
			{step.Week, rrule.WEEKLY},
			{step.Day, rrule.DAILY},
			{step.Hour, rrule.HOURLY},
			{step.Minute, rrule.MINUTELY},
			{step.Second, rrule.SECONDLY},
		} {
			if us > 0 && us%u.size == 0 {
				return u.freq, int(us / u.size), nil
			}
		}
		return 0, 0, errors.New("rrule: fixed step " + x.String() + " is not a positive whole number of seconds")
	}
	return 0, 0, errors.New("rrule: unsupported step")
}

// Expand returns the occurrences of r in [start, end), at most limit of them
// (defaultMaxOccurrences when limit <= 0). The second result reports whether
// the cap cut the list short.
func Expand(r *rrule.RRule, start, end time.Time, limit int) ([]time.Time, bool) {
	if limit <= 0 {
		limit = defaultMaxOccurrences
	}

	var set rrule.Set
	set.RRule(r)

	out := make([]time.Time, 0)
	it := set.Iterator()
	for {
		t, ok := it()
		if !ok || !t.Before(end) {
			return out, false
		}
		if t.Before(start) {
			continue
		}
		if len(out) == limit {
			return out, true
		}
		out = append(out, t)
	}
}
