package stepspec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtrange/internal/rangeerr"
	"dtrange/internal/step"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want step.Step
	}{
		{"P1D", step.Calendar{Days: 1}},
		{"p1y", step.Calendar{Years: 1}},
		{"-P1M", step.Calendar{Months: -1}},
		{"P1Y2M3W4DT5H6M7S", step.Calendar{Years: 1, Months: 2, Weeks: 3, Days: 4, Hours: 5, Minutes: 6, Seconds: 7}},
		{"PT1.5S", step.Calendar{Seconds: 1, Microseconds: 500000}},
		{"PT-0.25S", step.Calendar{Microseconds: -250000}},
		{"P1M-40D", step.Calendar{Months: 1, Days: -40}},
		{"1 month", step.Calendar{Months: 1}},
		{"3 weeks", step.Calendar{Weeks: 3}},
		{"-2 days", step.Calendar{Days: -2}},
		{"10 microseconds", step.Calendar{Microseconds: 10}},
		{"@monthly", step.Calendar{Months: 1}},
		{"@annually", step.Calendar{Years: 1}},
		{"@midnight", step.Calendar{Days: 1}},
		{"-@weekly", step.Calendar{Weeks: -1}},
		{"FREQ=DAILY", step.Calendar{Days: 1}},
		{"RRULE:FREQ=MONTHLY;INTERVAL=3", step.Calendar{Months: 3}},
		{"freq=hourly;interval=6", step.Calendar{Hours: 6}},
		{"-FREQ=YEARLY", step.Calendar{Years: -1}},
		{"90m", step.NewFixed(step.FixedFields{Minutes: 90})},
		{"1h30m", step.NewFixed(step.FixedFields{Minutes: 90})},
		{"-24h", step.NewFixed(step.FixedFields{Days: -1})},
		{"1500us", step.NewFixed(step.FixedFields{Milliseconds: 1, Microseconds: 500})},
		{"@every 1h30m", step.NewFixed(step.FixedFields{Minutes: 90})},
		{"@every 500ms", step.NewFixed(step.FixedFields{Seconds: 1})},
		{"-@every 2h", step.NewFixed(step.FixedFields{Hours: -2})},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"-",
		"P",
		"PT",
		"P1DT",
		"P1X",
		"@fortnightly",
		"@every nope",
		"0 9 * * *",
		"FREQ=WEEKLY;BYDAY=MO",
		"FREQ=DAILY;COUNT=3",
		"FREQ=SOMETIMES",
		"1 fortnight",
		"soon",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, rangeerr.ErrConfiguration)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	steps := []step.Step{
		step.Calendar{Days: 1},
		step.Calendar{Years: -1},
		step.Calendar{Years: 1, Months: 2, Weeks: 3, Days: 4, Hours: 5, Minutes: 6, Seconds: 7, Microseconds: 8},
		step.Calendar{Months: 1, Days: -40},
		step.Calendar{Seconds: -3, Microseconds: -250},
		step.NewFixed(step.FixedFields{Days: 1}),
		step.NewFixed(step.FixedFields{Hours: -1, Microseconds: -1}),
		step.FromDuration(1500 * time.Microsecond),
	}
	for _, s := range steps {
		t.Run(Format(s), func(t *testing.T) {
			got, err := Parse(Format(s))
			require.NoError(t, err)
			assert.Equal(t, s, got)
		})
	}
}
