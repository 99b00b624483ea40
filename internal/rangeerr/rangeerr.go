// Package rangeerr defines the errors reported while preparing a date range.
//
// All of them are returned before the first point is produced; iteration
// itself never fails.
package rangeerr

import "errors"

// Kind classifies a range error.
type Kind string

const (
	// KindConfiguration: the request cannot describe a well-defined range
	// (missing format for textual input, zero-magnitude step).
	KindConfiguration Kind = "configuration"
	// KindType: an input value is not one of the accepted shapes.
	KindType Kind = "type"
	// KindFormat: textual input does not match its format.
	KindFormat Kind = "format"
)

// Sentinels for errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrType          = errors.New("type error")
	ErrFormat        = errors.New("format error")
)

// Error is the error type returned by the normalizer, the step validators and
// the generator.
type Error struct {
	Kind    Kind
	Message string
	// Err is the underlying cause, if any (e.g. a time.ParseError).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := "ConfigurationError"
	switch e.Kind {
	case KindType:
		prefix = "TypeError"
	case KindFormat:
		prefix = "FormatError"
	}
	if e.Err != nil {
		return prefix + ": " + e.Message + ": " + e.Err.Error()
	}
	return prefix + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching e's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrType:
		return e.Kind == KindType
	case ErrFormat:
		return e.Kind == KindFormat
	}
	return false
}

// Configuration creates a new configuration error.
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// Type creates a new type error.
func Type(message string) *Error {
	return &Error{Kind: KindType, Message: message}
}

// Format creates a new format error wrapping cause.
func Format(message string, cause error) *Error {
	return &Error{Kind: KindFormat, Message: message, Err: cause}
}
