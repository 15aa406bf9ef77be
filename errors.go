package mpx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgs is returned when a caller passes arguments that can never be valid.
	ErrInvalidArgs = errors.New("invalid arguments provided")
	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("malformed field")
	// ErrLimitExceeded is returned when a structural cap of the file format is hit.
	ErrLimitExceeded = errors.New("limit exceeded")
	// ErrInvalidReference is returned when a calendar depends on a base that does not exist.
	ErrInvalidReference = errors.New("invalid calendar reference")
	// ErrCyclicBase is returned when a base assignment would make a calendar its own ancestor.
	ErrCyclicBase = errors.New("cyclic base calendar")
	// ErrCalendarInUse is returned when removing a calendar other calendars derive from.
	ErrCalendarInUse = errors.New("calendar is still referenced")
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("range ends before it starts")
	// ErrNoWorkingTime is returned when a walk over a calendar finds no working date.
	ErrNoWorkingTime = errors.New("calendar has no working time")
)

// ParseError reports a field whose text could not be converted.
type ParseError struct {
	// Kind names what was being parsed, e.g. "duration" or "date".
	Kind string
	// Record is the record number and Line the 1-based source line, when known.
	Record string
	Line   int
	// Field is the zero-based field position, or -1 outside a record.
	Field int
	Text  string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse %s %q", e.Kind, e.Text)
	if e.Field >= 0 {
		msg = fmt.Sprintf("%s in field %d", msg, e.Field)
	}
	if e.Record != "" {
		msg = fmt.Sprintf("%s of record %s", msg, e.Record)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("%s at line %d", msg, e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

func newParseError(kind, text string, err error) *ParseError {
	return &ParseError{Kind: kind, Field: -1, Text: text, Err: err}
}
