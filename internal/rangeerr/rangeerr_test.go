package rangeerr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err      *Error
		sentinel error
		text     string
	}{
		{Configuration("zero-magnitude step"), ErrConfiguration, "ConfigurationError: zero-magnitude step"},
		{Type("unsupported input type"), ErrType, "TypeError: unsupported input type"},
		{Format("bad input", errors.New("boom")), ErrFormat, "FormatError: bad input: boom"},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.text)
			assert.ErrorIs(t, tt.err, tt.sentinel)

			wrapped := fmt.Errorf("start: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)

			var re *Error
			assert.True(t, errors.As(wrapped, &re))
			assert.Equal(t, tt.err.Kind, re.Kind)
		})
	}
}

func TestErrorDoesNotMatchOtherKinds(t *testing.T) {
	err := Type("unsupported input type")
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.NotErrorIs(t, err, ErrFormat)
}

func TestFormatUnwrapsCause(t *testing.T) {
	_, cause := time.Parse("2006-01-02", "nope")
	err := Format("text does not match format", cause)

	var pe *time.ParseError
	assert.ErrorAs(t, err, &pe)
}
