// Package daterange generates lazy sequences of points in time between a
// start (inclusive) and an end (exclusive) boundary.
//
// Example:
//
//	seq, err := daterange.Generate(
//		timepoint.Text("2022-01-01"),
//		timepoint.Text("2022-01-05"),
//		step.Calendar{Days: 1},
//		"%Y-%m-%d",
//	)
//	if err != nil {
//		return err
//	}
//	for t := range seq {
//		fmt.Println(t)
//	}
package daterange

import (
	"fmt"
	"iter"
	"time"

	appLog "dtrange/internal/log"
	"dtrange/internal/step"
	"dtrange/internal/timepoint"
)

// DefaultStep is used when a Request carries no step.
var DefaultStep step.Step = step.Calendar{Days: 1}

// Direction is the traversal direction of a range.
type Direction int

const (
	None       Direction = 0
	Ascending  Direction = 1
	Descending Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	}
	return "none"
}

// Reason explains why a range produces no points. Generate does not report
// it; use Generator.Plan to inspect it.
type Reason int

const (
	// ReasonNone: the range produces at least one point.
	ReasonNone Reason = iota
	// ReasonEqual: start equals end.
	ReasonEqual
	// ReasonDirectionMismatch: a fixed step points away from end.
	ReasonDirectionMismatch
	// ReasonNonTerminating: a calendar step was detected moving away from end.
	ReasonNonTerminating
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonEqual:
		return "start equals end"
	case ReasonDirectionMismatch:
		return "step direction mismatch"
	case ReasonNonTerminating:
		return "non-terminating step"
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Request is a single range request.
type Request struct {
	Start timepoint.Value
	End   timepoint.Value
	// Step defaults to DefaultStep.
	Step step.Step
	// Format is required when Start or End is timepoint.Text.
	Format string
}

// Options configures a Generator.
type Options struct {
	// Parser handles textual input. timepoint.LayoutParser when nil.
	Parser timepoint.Parser
	// Location for date and zone-less textual input. UTC when nil.
	Location *time.Location
	// Limit caps the number of emitted points. Zero means no cap.
	Limit int
}

// Generator turns Requests into Plans.
type Generator struct {
	norm  timepoint.Normalizer
	limit int
}

// New creates a Generator.
func New(opts Options) *Generator {
	limit := opts.Limit
	if limit < 0 {
		limit = 0
	}
	return &Generator{
		norm: timepoint.Normalizer{
			Parser:   opts.Parser,
			Location: opts.Location,
		},
		limit: limit,
	}
}

// Generate returns the points from start (inclusive) to end (exclusive)
// using default options. All errors are reported here, before iteration.
func Generate(start, end timepoint.Value, s step.Step, format string) (iter.Seq[time.Time], error) {
	return New(Options{}).Generate(Request{Start: start, End: end, Step: s, Format: format})
}

// Generate is Plan followed by Plan.All.
func (g *Generator) Generate(req Request) (iter.Seq[time.Time], error) {
	p, err := g.Plan(req)
	if err != nil {
		return nil, err
	}
	return p.All(), nil
}

// Plan normalizes and validates req and decides how the range is traversed.
func (g *Generator) Plan(req Request) (*Plan, error) {
	start, err := g.norm.Normalize(req.Start, req.Format)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := g.norm.Normalize(req.End, req.Format)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	s := req.Step
	if s == nil {
		s = DefaultStep
	}
	if err := step.Validate(s); err != nil {
		return nil, err
	}

	p := &Plan{
		Start: start,
		End:   end,
		Step:  s,
		limit: g.limit,
	}
	switch {
	case start.Before(end):
		p.Direction = Ascending
	case start.After(end):
		p.Direction = Descending
	}

	switch {
	case p.Direction == None:
		p.Reason = ReasonEqual
	case isFixed(s):
		if sign(s.(step.Fixed).TotalMagnitude()) != int64(p.Direction) {
			p.Reason = ReasonDirectionMismatch
		}
	case NonTerminating(start, end, s):
		p.Reason = ReasonNonTerminating
	}

	if p.Reason != ReasonNone {
		appLog.Debug("daterange: empty range",
			"start", start.Format(time.RFC3339Nano),
			"end", end.Format(time.RFC3339Nano),
			"step", s.String(),
			"reason", p.Reason.String(),
		)
	}
	return p, nil
}

func isFixed(s step.Step) bool {
	_, ok := s.(step.Fixed)
	return ok
}

func sign(n int64) int64 {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
