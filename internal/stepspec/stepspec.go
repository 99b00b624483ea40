// Package stepspec reads and writes the textual step notation accepted by the
// command line and the configuration file.
//
//	P1M, -P1D, PT1H30M, P1M-40D   ISO-8601 duration         -> step.Calendar
//	1 month, 3 weeks              count and calendar unit   -> step.Calendar
//	@monthly, @daily, ...         cron descriptor           -> step.Calendar
//	FREQ=WEEKLY;INTERVAL=2        RRULE fragment            -> step.Calendar
//	90m, 1h30m, 500ms             Go duration               -> step.Fixed
//	@every 1h30m                  cron interval             -> step.Fixed
//
// A leading '-' negates any form.
package stepspec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/teambition/rrule-go"

	"dtrange/internal/rangeerr"
	"dtrange/internal/step"
)

// Parse converts notation into a step.
func Parse(spec string) (step.Step, error) {
	s := strings.TrimSpace(spec)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimSpace(s[1:])
	}
	if s == "" {
		return nil, invalid(spec, errors.New("empty step"))
	}

	var (
		out step.Step
		err error
	)
	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "P"):
		out, err = parseISO(upper)
	case strings.HasPrefix(s, "@"):
		out, err = parseCron(s)
	case strings.Contains(upper, "FREQ="):
		out, err = parseRRule(upper)
	case unitPattern.MatchString(s):
		out, err = parseUnit(s)
	default:
		var d time.Duration
		d, err = time.ParseDuration(s)
		out = step.FromDuration(d)
	}
	if err != nil {
		return nil, invalid(spec, err)
	}

	if neg {
		out = negate(out)
	}
	return out, nil
}

// Format renders s in a notation Parse accepts: ISO-8601 for calendar steps,
// Go durations for fixed ones.
func Format(s step.Step) string {
	return s.String()
}

func invalid(spec string, cause error) error {
	return &rangeerr.Error{
		Kind:    rangeerr.KindConfiguration,
		Message: fmt.Sprintf("invalid step %q", spec),
		Err:     cause,
	}
}

func negate(s step.Step) step.Step {
	switch x := s.(type) {
	case step.Fixed:
		return step.Microseconds(-x.TotalMagnitude())
	case step.Calendar:
		return x.Negate()
	}
	return s
}

var isoPattern = regexp.MustCompile(`^P` +
	`(?:(-?\d+)Y)?(?:(-?\d+)M)?(?:(-?\d+)W)?(?:(-?\d+)D)?` +
	`(?:T(?:(-?\d+)H)?(?:(-?\d+)M)?(?:(-?\d+)(?:[.,](\d{1,6}))?S)?)?$`)

func parseISO(s string) (step.Step, error) {
	m := isoPattern.FindStringSubmatch(s)
	if m == nil || strings.HasSuffix(s, "T") {
		return nil, errors.Errorf("malformed ISO-8601 duration %q", s)
	}
	empty := true
	for _, g := range m[1:] {
		if g != "" {
			empty = false
		}
	}
	if empty {
		return nil, errors.Errorf("ISO-8601 duration %q has no fields", s)
	}

	var c step.Calendar
	fields := []*int{&c.Years, &c.Months, &c.Weeks, &c.Days, &c.Hours, &c.Minutes}
	for i, dst := range fields {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return nil, errors.Wrapf(err, "field %d", i+1)
		}
		*dst = n
	}

	if m[7] != "" {
		secs, err := strconv.ParseInt(m[7], 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "seconds")
		}
		var frac int64
		if m[8] != "" {
			frac, _ = strconv.ParseInt((m[8] + "00000")[:6], 10, 64)
		}
		total := secs * step.Second
		if strings.HasPrefix(m[7], "-") {
			total -= frac
		} else {
			total += frac
		}
		c.Seconds = int(total / step.Second)
		c.Microseconds = int(total % step.Second)
	}
	return c, nil
}

var descriptors = map[string]step.Calendar{
	"@yearly":   {Years: 1},
	"@annually": {Years: 1},
	"@monthly":  {Months: 1},
	"@weekly":   {Weeks: 1},
	"@daily":    {Days: 1},
	"@midnight": {Days: 1},
	"@hourly":   {Hours: 1},
}

// parseCron accepts the descriptors understood by robfig/cron. "@every"
// yields a fixed step of the (second-granular) interval cron computes; the
// calendar descriptors map to their natural calendar unit.
func parseCron(s string) (step.Step, error) {
	sched, err := cron.ParseStandard(s)
	if err != nil {
		return nil, errors.Wrap(err, "cron")
	}
	if every, ok := sched.(cron.ConstantDelaySchedule); ok {
		return step.FromDuration(every.Delay), nil
	}
	c, ok := descriptors[strings.ToLower(s)]
	if !ok {
		return nil, errors.Errorf("cron spec %q is not a fixed interval", s)
	}
	return c, nil
}

// parseRRule maps FREQ and INTERVAL of an RRULE onto a calendar step. Parts
// that select instants rather than a stride are rejected.
func parseRRule(s string) (step.Step, error) {
	s = strings.TrimPrefix(s, "RRULE:")
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return nil, errors.Wrap(err, "rrule")
	}
	if opt.Count != 0 || !opt.Until.IsZero() || len(opt.Bysetpos) > 0 ||
		len(opt.Bymonth) > 0 || len(opt.Bymonthday) > 0 || len(opt.Byyearday) > 0 ||
		len(opt.Byweekno) > 0 || len(opt.Byweekday) > 0 || len(opt.Byhour) > 0 ||
		len(opt.Byminute) > 0 || len(opt.Bysecond) > 0 || len(opt.Byeaster) > 0 {
		return nil, errors.Errorf("rrule %q selects instants; only FREQ and INTERVAL describe a step", s)
	}

	n := opt.Interval
	if n == 0 {
		n = 1
	}
	switch opt.Freq {
	case rrule.YEARLY:
		return step.Calendar{Years: n}, nil
	case rrule.MONTHLY:
		return step.Calendar{Months: n}, nil
	case rrule.WEEKLY:
		return step.Calendar{Weeks: n}, nil
	case rrule.DAILY:
		return step.Calendar{Days: n}, nil
	case rrule.HOURLY:
		return step.Calendar{Hours: n}, nil
	case rrule.MINUTELY:
		return step.Calendar{Minutes: n}, nil
	case rrule.SECONDLY:
		return step.Calendar{Seconds: n}, nil
	}
	return nil, errors.Errorf("unsupported rrule frequency %v", opt.Freq)
}

var unitPattern = regexp.MustCompile(`^(\d+)\s*(years?|months?|weeks?|days?|hours?|minutes?|seconds?|microseconds?)$`)

func parseUnit(s string) (step.Step, error) {
	m := unitPattern.FindStringSubmatch(s)
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, errors.Wrap(err, "count")
	}

	var c step.Calendar
	switch strings.TrimSuffix(m[2], "s") {
	case "year":
		c.Years = n
	case "month":
		c.Months = n
	case "week":
		c.Weeks = n
	case "day":
		c.Days = n
	case "hour":
		c.Hours = n
	case "minute":
		c.Minutes = n
	case "second":
		c.Seconds = n
	case "microsecond":
		c.Microseconds = n
	}
	return c, nil
}
