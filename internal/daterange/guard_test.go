package daterange

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtrange/internal/step"
	"dtrange/internal/timepoint"
)

func TestNonTerminating(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		step       step.Step
		want       bool
	}{
		{"forward towards end", date(2022, 1, 1), date(2022, 1, 30), oneDay, false},
		{"backward away from end", date(2022, 1, 1), date(2022, 1, 30), backDay, true},
		{"backward towards end", date(2022, 1, 30), date(2022, 1, 1), backDay, false},
		{"forward away from end", date(2022, 1, 30), date(2022, 1, 1), oneDay, true},
		{"overshoot is progress", date(2022, 1, 1), date(2022, 1, 2), step.Calendar{Years: 1}, false},
		{"equal forward", date(2022, 1, 1), date(2022, 1, 1), oneDay, true},
		{"equal backward", date(2022, 1, 1), date(2022, 1, 1), backDay, false},
		{"wide span", date(1, 1, 1), date(9000, 1, 1), step.Calendar{Years: -1}, true},
		{"wide span forward", date(1, 1, 1), date(9000, 1, 1), step.Calendar{Years: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NonTerminating(tt.start, tt.end, tt.step))
		})
	}
}

func TestNonTerminatingMixedSignIsOneStepProbe(t *testing.T) {
	s := step.Calendar{Months: 1, Days: -30}

	// From January 31 the probe lands on January 29 and flags the step.
	assert.True(t, NonTerminating(date(2022, 1, 31), date(2022, 6, 1), s))

	// From March 1 it moves forward a day and passes the probe, yet it stalls
	// on March 31 (April 30 minus 30 days). Only a limit ends the sequence.
	assert.False(t, NonTerminating(date(2022, 3, 1), date(2022, 6, 1), s))

	seq, err := New(Options{Limit: 40}).Generate(Request{
		Start: timepoint.At(date(2022, 3, 1)),
		End:   timepoint.At(date(2022, 6, 1)),
		Step:  s,
	})
	require.NoError(t, err)
	got := slices.Collect(seq)
	require.Len(t, got, 40)
	assert.Equal(t, date(2022, 3, 31), got[30])
	assert.Equal(t, date(2022, 3, 31), got[39])
}
