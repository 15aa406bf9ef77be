package mpx

import (
	"strconv"
	"strings"
	"time"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/types"
)

// Record is one line of an MPX file: a record number followed by fields.
// Getters return nil for a missing or empty field and a *ParseError for a
// field whose text cannot be converted.
type Record struct {
	Number string
	Fields []string
	// Line is the 1-based line the record started on, or 0 if unknown.
	Line int
}

// Len returns the number of fields after the record number.
func (r *Record) Len() int {
	return len(r.Fields)
}

func (r *Record) raw(i int) (string, bool) {
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	text := strings.TrimSpace(r.Fields[i])
	return text, text != ""
}

func (r *Record) fail(kind string, i int, err error) *ParseError {
	return &ParseError{Kind: kind, Record: r.Number, Line: r.Line, Field: i, Text: r.Fields[i], Err: err}
}

// String returns the field text. Unlike the other getters it does not trim.
func (r *Record) String(i int) *string {
	if i < 0 || i >= len(r.Fields) || r.Fields[i] == "" {
		return nil
	}
	return &r.Fields[i]
}

func (r *Record) Integer(i int) (*int, error) {
	text, ok := r.raw(i)
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(text)
	if err != nil {
		return nil, r.fail("integer", i, err)
	}
	return &v, nil
}

func (r *Record) Float(i int, ctx *format.Context) (*float64, error) {
	text, ok := r.raw(i)
	if !ok {
		return nil, nil
	}
	v, err := ctx.ParseDecimal(text)
	if err != nil {
		return nil, r.fail("number", i, err)
	}
	return &v, nil
}

func (r *Record) Currency(i int, ctx *format.Context) (*float64, error) {
	text, ok := r.raw(i)
	if !ok {
		return nil, nil
	}
	v, err := ctx.ParseCurrency(text)
	if err != nil {
		return nil, r.fail("currency", i, err)
	}
	return &v, nil
}

func (r *Record) Percentage(i int, ctx *format.Context) (*float64, error) {
	text, ok := r.raw(i)
	if !ok {
		return nil, nil
	}
	v, err := ctx.ParsePercentage(text)
	if err != nil {
		return nil, r.fail("percentage", i, err)
	}
	return &v, nil
}

func (r *Record) Duration(i int, ctx *format.Context) (*Duration, error) {
	text, ok := r.raw(i)
	if !ok {
		return nil, nil
	}
	d, err := ParseDuration(text, ctx)
	if err != nil {
		return nil, r.fail("duration", i, err)
	}
	return &d, nil
}

func (r *Record) Date(i int, ctx *format.Context) (*time.Time, error) {
	text, ok := r.raw(i)
	if !ok || strings.EqualFold(text, "NA") {
		return nil, nil
	}
	t, err := ctx.ParseDate(text)
	if err != nil {
		return nil, r.fail("date", i, err)
	}
	return &t, nil
}

func (r *Record) Time(i int, ctx *format.Context) (*types.TimeOfDay, error) {
	text, ok := r.raw(i)
	if !ok {
		return nil, nil
	}
	t, err := ctx.ParseTime(text)
	if err != nil {
		return nil, r.fail("time", i, err)
	}
	return &t, nil
}

func (r *Record) DateTime(i int, ctx *format.Context) (*time.Time, error) {
	text, ok := r.raw(i)
	if !ok || strings.EqualFold(text, "NA") {
		return nil, nil
	}
	t, err := ctx.ParseDateTime(text)
	if err != nil {
		return nil, r.fail("date-time", i, err)
	}
	return &t, nil
}

// NumericBoolean reads a 0/1 flag. Any other integer is an error.
func (r *Record) NumericBoolean(i int) (*bool, error) {
	v, err := r.Integer(i)
	if err != nil || v == nil {
		return nil, err
	}
	switch *v {
	case 0, 1:
		b := *v == 1
		return &b, nil
	}
	return nil, r.fail("flag", i, ErrInvalidArgs)
}

func (r *Record) DayType(i int) (*types.DayType, error) {
	v, err := r.Integer(i)
	if err != nil || v == nil {
		return nil, err
	}
	t, ok := types.DayTypeFromCode(*v)
	if !ok {
		return nil, r.fail("day type", i, ErrInvalidArgs)
	}
	return &t, nil
}

func (r *Record) Day(i int) (*types.Day, error) {
	v, err := r.Integer(i)
	if err != nil || v == nil {
		return nil, err
	}
	d, ok := types.DayFromOrdinal(*v)
	if !ok {
		return nil, r.fail("day", i, ErrInvalidArgs)
	}
	return &d, nil
}

func (r *Record) TimeUnit(i int) (*types.TimeUnit, error) {
	v, err := r.Integer(i)
	if err != nil || v == nil {
		return nil, err
	}
	u, ok := types.TimeUnitFromCode(*v)
	if !ok {
		return nil, r.fail("time unit", i, ErrInvalidArgs)
	}
	return &u, nil
}
