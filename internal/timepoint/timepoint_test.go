package timepoint

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtrange/internal/rangeerr"
)

func TestNormalizeShapes(t *testing.T) {
	want := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		value  Value
		format string
	}{
		{"timestamp", At(want), ""},
		{"date", Date{Year: 2022, Month: time.January, Day: 1}, ""},
		{"text strftime", Text("2022-01-01"), "%Y-%m-%d"},
		{"text tokens", Text("2022-01-01"), "YYYY-MM-DD"},
		{"text go layout", Text("2022-01-01"), "2006-01-02"},
		{"format ignored for non-text", At(want), "%Y"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.value, tt.format)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
		})
	}
}

func TestNormalizeTruncatesToMicroseconds(t *testing.T) {
	in := time.Date(2022, time.March, 4, 5, 6, 7, 123456789, time.UTC)
	got, err := Normalize(At(in), "")
	require.NoError(t, err)
	assert.Equal(t, 123456000, got.Nanosecond())
}

func TestNormalizeDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	n := Normalizer{Location: loc}

	got, err := n.Normalize(Date{Year: 2022, Month: time.January, Day: 30}, "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, time.January, 30, 0, 0, 0, 0, loc), got)
}

func TestNormalizeTextRequiresFormat(t *testing.T) {
	_, err := Normalize(Text("2022-01-01"), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, rangeerr.ErrConfiguration)
	assert.EqualError(t, err, "ConfigurationError: format required for textual input")
}

func TestNormalizeTextMismatch(t *testing.T) {
	_, err := Normalize(Text("01/02/2022"), "%Y-%m-%d")
	require.Error(t, err)
	assert.ErrorIs(t, err, rangeerr.ErrFormat)
}

func TestNormalizeInvalidDate(t *testing.T) {
	_, err := Normalize(Date{Year: 2022, Month: time.February, Day: 30}, "")
	assert.ErrorIs(t, err, rangeerr.ErrConfiguration)
}

func TestNormalizeUnsupported(t *testing.T) {
	_, err := Normalize(nil, "")
	assert.ErrorIs(t, err, rangeerr.ErrType)
}

type failingParser struct{}

func (failingParser) Parse(string, string, *time.Location) (time.Time, error) {
	return time.Time{}, errors.New("no")
}

func TestNormalizeWrapsForeignParserErrors(t *testing.T) {
	n := Normalizer{Parser: failingParser{}}
	_, err := n.Normalize(Text("x"), "x")
	assert.ErrorIs(t, err, rangeerr.ErrFormat)
}

func TestFromAny(t *testing.T) {
	now := time.Date(2022, time.May, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"time", now, Timestamp{Time: now}},
		{"time pointer", &now, Timestamp{Time: now}},
		{"date", Date{Year: 2022, Month: 5, Day: 1}, Date{Year: 2022, Month: 5, Day: 1}},
		{"string", "2022-05-01", Text("2022-05-01")},
		{"value", Text("x"), Text("x")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []any{nil, 42, 3.5, (*time.Time)(nil), []byte("2022")} {
		_, err := FromAny(bad)
		assert.ErrorIs(t, err, rangeerr.ErrType, "%#v", bad)
	}
}

func TestDateOf(t *testing.T) {
	assert.Equal(t, Date{Year: 2024, Month: time.February, Day: 29},
		DateOf(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))
}
