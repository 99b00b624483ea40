package step

import (
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

// Calendar is a step expressed in calendar fields. Its absolute length
// depends on where it is applied: one month from January 31 is shorter than
// one month from March 1.
type Calendar struct {
	Years        int
	Months       int
	Weeks        int
	Days         int
	Hours        int
	Minutes      int
	Seconds      int
	Microseconds int

	arith Arithmetic
}

var _ Step = Calendar{}

// Arithmetic adds calendar fields to a point in time.
type Arithmetic interface {
	AddCalendar(t time.Time, c Calendar) time.Time
}

// WithArithmetic returns a copy of c that applies itself through a.
func (c Calendar) WithArithmetic(a Arithmetic) Calendar {
	c.arith = a
	return c
}

// Negate returns the step with every field negated.
func (c Calendar) Negate() Calendar {
	c.Years, c.Months, c.Weeks, c.Days = -c.Years, -c.Months, -c.Weeks, -c.Days
	c.Hours, c.Minutes, c.Seconds, c.Microseconds = -c.Hours, -c.Minutes, -c.Seconds, -c.Microseconds
	return c
}

// Apply implements Step.
func (c Calendar) Apply(t time.Time) time.Time {
	a := c.arith
	if a == nil {
		a = Relative{}
	}
	return a.AddCalendar(t, c)
}

// IsZero implements Step.
func (c Calendar) IsZero() bool {
	return c.Years == 0 && c.Months == 0 && c.Weeks == 0 && c.Days == 0 &&
		c.Hours == 0 && c.Minutes == 0 && c.Seconds == 0 && c.Microseconds == 0
}

// String renders the step as an ISO-8601 duration ("P1Y2M", "-P1D", "PT1.5S").
// Fields with mixed signs are written with their own sign ("P1M-40D").
func (c Calendar) String() string {
	if c.IsZero() {
		return "P0D"
	}
	neg := c.nonPositive()
	if neg {
		c = c.Negate()
	}

	var sb strings.Builder
	if neg {
		sb.WriteByte('-')
	}
	sb.WriteByte('P')
	writeField(&sb, c.Years, 'Y')
	writeField(&sb, c.Months, 'M')
	writeField(&sb, c.Weeks, 'W')
	writeField(&sb, c.Days, 'D')

	secs := c.secondsString()
	if c.Hours != 0 || c.Minutes != 0 || secs != "" {
		sb.WriteByte('T')
		writeField(&sb, c.Hours, 'H')
		writeField(&sb, c.Minutes, 'M')
		if secs != "" {
			sb.WriteString(secs)
			sb.WriteByte('S')
		}
	}
	return sb.String()
}

func (c Calendar) nonPositive() bool {
	return c.Years <= 0 && c.Months <= 0 && c.Weeks <= 0 && c.Days <= 0 &&
		c.Hours <= 0 && c.Minutes <= 0 && c.Seconds <= 0 && c.Microseconds <= 0
}

// secondsString folds Seconds and Microseconds into one decimal value.
func (c Calendar) secondsString() string {
	if c.Seconds == 0 && c.Microseconds == 0 {
		return ""
	}
	total := int64(c.Seconds)*Second + int64(c.Microseconds)
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	s := sign + strconv.FormatInt(total/Second, 10)
	if frac := total % Second; frac != 0 {
		f := strconv.FormatInt(Second+frac, 10)[1:]
		s += "." + strings.TrimRight(f, "0")
	}
	return s
}

func writeField(sb *strings.Builder, n int, unit byte) {
	if n == 0 {
		return
	}
	sb.WriteString(strconv.Itoa(n))
	sb.WriteByte(unit)
}

func (Calendar) sealed() {}

// Relative is the default Arithmetic. Years and months move the date first,
// clamping the day to the length of the target month (January 31 plus one
// month is February 28, or 29 in leap years). The remaining fields are then
// added on the wall clock of t's location.
type Relative struct{}

// AddCalendar implements Arithmetic.
func (Relative) AddCalendar(t time.Time, c Calendar) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	months := int(m) - 1 + c.Years*12 + c.Months
	y += floorDiv(months, 12)
	m = time.Month(months - floorDiv(months, 12)*12 + 1)
	if n := DaysIn(y, m); d > n {
		d = n
	}

	return time.Date(
		y, m, d+c.Weeks*7+c.Days,
		hh+c.Hours, mm+c.Minutes, ss+c.Seconds,
		t.Nanosecond()+c.Microseconds*int(time.Microsecond),
		t.Location(),
	)
}

// DaysIn returns the number of days in month m of year y.
func DaysIn(y int, m time.Month) int {
	return now.New(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)).EndOfMonth().Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
