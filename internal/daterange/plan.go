package daterange

import (
	"iter"
	"time"

	appLog "dtrange/internal/log"
	"dtrange/internal/step"
)

// Plan is a validated range. It owns no state besides its boundaries; every
// call to All starts a fresh traversal.
type Plan struct {
	Start     time.Time
	End       time.Time
	Step      step.Step
	Direction Direction
	// Reason is ReasonNone unless the range is known to be empty.
	Reason Reason

	limit int
}

// Limit is the cap on emitted points; zero means none.
func (p *Plan) Limit() int {
	return p.limit
}

// Empty reports whether the plan produces no points.
func (p *Plan) Empty() bool {
	return p.Reason != ReasonNone
}

// All returns the lazy sequence of points. Abandoning the sequence early
// releases nothing: there is nothing to release.
func (p *Plan) All() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if p.Empty() {
			return
		}

		emitted := 0
		emit := func(t time.Time) bool {
			if p.limit > 0 && emitted >= p.limit {
				appLog.Debug("daterange: limit reached", "limit", p.limit, "step", p.Step.String())
				return false
			}
			emitted++
			return yield(t)
		}

		if f, ok := p.Step.(step.Fixed); ok {
			p.walkFixed(f, emit)
			return
		}
		p.walk(emit)
	}
}

// walkFixed iterates in integer microsecond space, so repeated additions
// never drift.
func (p *Plan) walkFixed(f step.Fixed, emit func(time.Time) bool) {
	loc := p.Start.Location()
	to := p.End.UnixMicro()
	inc := f.TotalMagnitude()

	for u := p.Start.UnixMicro(); (inc > 0 && u < to) || (inc < 0 && u > to); {
		if !emit(time.UnixMicro(u).In(loc)) {
			return
		}
		next := u + inc
		if (inc > 0) != (next > u) {
			return
		}
		u = next
	}
}

func (p *Plan) walk(emit func(time.Time) bool) {
	for cur := p.Start; p.within(cur); cur = p.Step.Apply(cur) {
		if !emit(cur) {
			return
		}
	}
}

func (p *Plan) within(t time.Time) bool {
	if p.Direction == Ascending {
		return t.Before(p.End)
	}
	return t.After(p.End)
}
