// Package timepoint normalizes the accepted start/end input shapes into a
// single canonical point in time: a time.Time with microsecond resolution.
package timepoint

import (
	"errors"
	"time"

	"dtrange/internal/rangeerr"
)

// Resolution of every normalized point.
const Resolution = time.Microsecond

// Value is one of the accepted input shapes: Timestamp, Date or Text.
type Value interface {
	isValue()
}

// Timestamp is a full point in time.
type Timestamp struct {
	Time time.Time
}

// Date is a calendar date; it normalizes to midnight.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Text is a textual point in time. It requires a format.
type Text string

func (Timestamp) isValue() {}
func (Date) isValue()      {}
func (Text) isValue()      {}

// At wraps t as a Timestamp.
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// FromAny converts a loosely typed value (time.Time, Date, string or an
// existing Value) into a Value.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case time.Time:
		return Timestamp{Time: x}, nil
	case *time.Time:
		if x != nil {
			return Timestamp{Time: *x}, nil
		}
	case string:
		return Text(x), nil
	}
	return nil, rangeerr.Type("unsupported input type")
}

// Normalizer converts Values into canonical points.
type Normalizer struct {
	// Parser handles Text values. LayoutParser is used when nil.
	Parser Parser
	// Location applies to Date values and to Text without a zone.
	// UTC is used when nil.
	Location *time.Location
}

// Normalize converts v using the default Normalizer.
func Normalize(v Value, format string) (time.Time, error) {
	return Normalizer{}.Normalize(v, format)
}

// Normalize converts v into a point truncated to Resolution. format is only
// consulted for Text values and must be set for them.
func (n Normalizer) Normalize(v Value, format string) (time.Time, error) {
	loc := n.Location
	if loc == nil {
		loc = time.UTC
	}

	switch x := v.(type) {
	case Timestamp:
		return x.Time.Truncate(Resolution), nil
	case Date:
		t := time.Date(x.Year, x.Month, x.Day, 0, 0, 0, 0, loc)
		if y, m, d := t.Date(); y != x.Year || m != x.Month || d != x.Day {
			return time.Time{}, rangeerr.Configuration("invalid date")
		}
		return t, nil
	case Text:
		if format == "" {
			return time.Time{}, rangeerr.Configuration("format required for textual input")
		}
		parser := n.Parser
		if parser == nil {
			parser = LayoutParser{}
		}
		t, err := parser.Parse(string(x), format, loc)
		if err != nil {
			var re *rangeerr.Error
			if errors.As(err, &re) {
				return time.Time{}, err
			}
			return time.Time{}, rangeerr.Format("cannot parse "+quote(string(x)), err)
		}
		return t.Truncate(Resolution), nil
	}
	return time.Time{}, rangeerr.Type("unsupported input type")
}
