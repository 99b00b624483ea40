// Package ics converts generated ranges into iCalendar artifacts: an RRULE
// describing the range, or a VCALENDAR with one VEVENT per point.
package ics

import (
	"fmt"
	"io"
	"iter"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "dtrange/internal/log"
)

// EncodeOptions controls how points become events.
type EncodeOptions struct {
	// ProductID is the PRODID of the calendar.
	ProductID string
	// Summary is the SUMMARY of every event.
	Summary string
	// Duration sets DTEND relative to each point. Zero omits DTEND.
	Duration time.Duration
	// Stamp is the DTSTAMP of every event. time.Now() when zero.
	Stamp time.Time
}

// Encode writes one VEVENT per point of seq and returns the number written.
func Encode(w io.Writer, seq iter.Seq[time.Time], opts EncodeOptions) (int, error) {
	if opts.ProductID == "" {
		opts.ProductID = "-//dtrange//EN"
	}
	if opts.Summary == "" {
		opts.Summary = "dtrange"
	}
	if opts.Stamp.IsZero() {
		opts.Stamp = time.Now().UTC()
	}

	cal := ical.NewCalendar()
	cal.SetProductId(opts.ProductID)
	cal.SetMethod(ical.MethodPublish)

	n := 0
	for t := range seq {
		ev := cal.AddEvent(fmt.Sprintf("%06d-%d@dtrange", n, t.UnixMicro()))
		ev.SetDtStampTime(opts.Stamp)
		ev.SetStartAt(t)
		if opts.Duration > 0 {
			ev.SetEndAt(t.Add(opts.Duration))
		}
		ev.SetSummary(opts.Summary)
		n++
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		appLog.Error("ics encode failed", err, "events", n)
		return n, err
	}
	appLog.Debug("ics encode completed", "events", n)
	return n, nil
}
