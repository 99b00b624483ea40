package model

import "time"

// Point is a single element of a generated range, as written by the
// command line encoders.
type Point struct {
	// Index is the zero-based position in the sequence.
	Index int `json:"index"`

	Time time.Time `json:"time"`
	// UnixMicro is Time in microseconds since the Unix epoch.
	UnixMicro int64 `json:"unix_micro"`
}

// NewPoint builds the i-th point of a sequence.
func NewPoint(i int, t time.Time) Point {
	return Point{Index: i, Time: t, UnixMicro: t.UnixMicro()}
}

// Summary describes a generated range after it has been consumed.
type Summary struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Step      string    `json:"step"`
	Direction string    `json:"direction"`

	// Reason is set when the range is empty by construction.
	Reason string `json:"reason,omitempty"`

	Count int        `json:"count"`
	First *time.Time `json:"first,omitempty"`
	Last  *time.Time `json:"last,omitempty"`
}

// Observe records p as the latest point of the sequence.
func (s *Summary) Observe(p Point) {
	if s.First == nil {
		t := p.Time
		s.First = &t
	}
	t := p.Time
	s.Last = &t
	s.Count++
}
