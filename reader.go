package mpx

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/types"
)

// Record numbers understood by the reader and writer.
const (
	RecordCurrencySettings      = "10"
	RecordDefaultSettings       = "11"
	RecordDateTimeSettings      = "12"
	RecordBaseCalendar          = "20"
	RecordBaseCalendarHours     = "25"
	RecordBaseCalendarException = "26"
	RecordProjectHeader         = "30"
	RecordResourceModelText     = "40"
	RecordResourceModel         = "41"
	RecordResource              = "50"
	RecordResourceCalendar      = "55"
	RecordResourceCalendarHours = "56"
	RecordResourceCalendarExc   = "57"
)

// Resource field identifiers used in record 41.
const (
	resourceFieldName     = 1
	resourceFieldID       = 40
	resourceFieldUniqueID = 49
)

var defaultResourceModel = []int{resourceFieldID, resourceFieldName}

// Reader loads the calendar and settings records of an MPX file. Records the
// model does not cover, such as tasks, are skipped.
type Reader struct {
	formats *format.Context
	lenient bool
	logger  *slog.Logger
}

type ReaderOption func(*Reader)

// WithFormats sets the context used until the file's own settings records
// are read.
func WithFormats(ctx *format.Context) ReaderOption {
	return func(r *Reader) { r.formats = ctx }
}

// WithLenient makes the reader log and skip malformed records instead of
// failing.
func WithLenient(lenient bool) ReaderOption {
	return func(r *Reader) { r.lenient = lenient }
}

func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) { r.logger = logger }
}

func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	if r.formats == nil {
		r.formats = format.Default()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// ReadFile reads the MPX file at path.
func (r *Reader) ReadFile(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := r.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Read parses an MPX stream. The header record fixes the delimiter and the
// code page of the rest of the file.
func (r *Reader) Read(in io.Reader) (*Project, error) {
	br := bufio.NewReader(in)
	magic, err := br.Peek(4)
	if err != nil || string(magic[:3]) != "MPX" {
		return nil, fmt.Errorf("%w: not an MPX file", ErrInvalidArgs)
	}
	delimiter := rune(magic[3])

	headerLine, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	header := strings.Split(strings.TrimRight(headerLine, "\r\n"), string(delimiter))

	p := NewProject(r.formats)
	p.Properties.Delimiter = delimiter
	if len(header) > 1 {
		p.Properties.Program = header[1]
	}
	if len(header) > 3 && strings.TrimSpace(header[3]) != "" {
		p.Properties.CodePage = strings.TrimSpace(header[3])
	}

	cr := csv.NewReader(decodeReader(p.Properties.CodePage, br))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	st := &readState{project: p, settings: r.formats.Settings(), model: defaultResourceModel}
	skipped := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.StartLine + 1
			}
			if !r.lenient {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			r.logger.Warn("Skipping unreadable line", "line", line, "error", err)
			skipped++
			continue
		}

		line, _ := cr.FieldPos(0)
		line++ // header
		rec := &Record{Number: strings.TrimSpace(fields[0]), Fields: fields[1:], Line: line}
		if err := st.apply(rec); err != nil {
			if !r.lenient {
				return nil, err
			}
			r.logger.Warn("Skipping malformed record", "record", rec.Number, "line", line, "error", err)
			skipped++
		}
	}

	r.logger.Info("Read MPX file",
		"calendars", len(p.calendars),
		"resources", len(p.resources),
		"skipped", skipped,
	)
	return p, nil
}

// readState tracks the records that later records attach to.
type readState struct {
	project  *Project
	settings format.Settings
	model    []int

	lastBase             *Calendar
	lastResource         *Resource
	lastResourceCalendar *Calendar
}

func (st *readState) formats() *format.Context {
	return st.project.formats
}

func (st *readState) apply(rec *Record) error {
	var err error
	switch rec.Number {
	case RecordCurrencySettings:
		err = st.currencySettings(rec)
	case RecordDefaultSettings:
		err = st.defaultSettings(rec)
	case RecordDateTimeSettings:
		err = st.dateTimeSettings(rec)
	case RecordProjectHeader:
		err = st.projectHeader(rec)
	case RecordBaseCalendar:
		st.lastBase, err = st.calendar(rec, nil)
	case RecordBaseCalendarHours:
		err = st.hours(rec, st.lastBase)
	case RecordBaseCalendarException:
		err = st.exception(rec, st.lastBase)
	case RecordResourceModel:
		err = st.resourceModel(rec)
	case RecordResource:
		st.lastResourceCalendar = nil
		st.lastResource, err = st.resource(rec)
	case RecordResourceCalendar:
		st.lastResourceCalendar = nil
		if st.lastResource == nil {
			return fmt.Errorf("record %s at line %d: %w: no resource to attach to", rec.Number, rec.Line, ErrInvalidReference)
		}
		st.lastResourceCalendar, err = st.calendar(rec, st.lastResource)
	case RecordResourceCalendarHours:
		err = st.hours(rec, st.lastResourceCalendar)
	case RecordResourceCalendarExc:
		err = st.exception(rec, st.lastResourceCalendar)
	default:
		slog.Debug("Ignoring record", "record", rec.Number, "line", rec.Line)
		return nil
	}

	var perr *ParseError
	if err != nil && !errors.As(err, &perr) {
		err = fmt.Errorf("record %s at line %d: %w", rec.Number, rec.Line, err)
	}
	return err
}

func (st *readState) char(rec *Record, i int) (rune, bool, error) {
	s := rec.String(i)
	if s == nil {
		return 0, false, nil
	}
	c, size := utf8.DecodeRuneInString(*s)
	if size != len(*s) {
		return 0, false, rec.fail("character", i, ErrInvalidArgs)
	}
	return c, true, nil
}

// rebuild replaces the project's format context after a settings record.
func (st *readState) rebuild(rec *Record, s format.Settings) error {
	ctx, err := format.NewContext(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}
	st.settings = s
	st.project.formats = ctx
	slog.Debug("Formats updated", "record", rec.Number, "line", rec.Line)
	return nil
}

func (st *readState) currencySettings(rec *Record) error {
	s := st.settings
	if symbol := rec.String(0); symbol != nil {
		s.CurrencySymbol = *symbol
	}
	position, err := rec.Integer(1)
	if err != nil {
		return err
	}
	if position != nil {
		s.SymbolPosition = format.SymbolPosition(*position)
	}
	digits, err := rec.Integer(2)
	if err != nil {
		return err
	}
	if digits != nil {
		s.CurrencyDigits = *digits
	}
	if c, ok, err := st.char(rec, 3); err != nil {
		return err
	} else if ok {
		s.ThousandsSeparator = c
	}
	if c, ok, err := st.char(rec, 4); err != nil {
		return err
	} else if ok {
		s.DecimalSeparator = c
	}
	return st.rebuild(rec, s)
}

func (st *readState) defaultSettings(rec *Record) error {
	ctx := st.formats()
	durationUnit, err := rec.TimeUnit(0)
	if err != nil {
		return err
	}
	workUnit, err := rec.TimeUnit(2)
	if err != nil {
		return err
	}
	hoursPerDay, err := rec.Float(3, ctx)
	if err != nil {
		return err
	}
	hoursPerWeek, err := rec.Float(4, ctx)
	if err != nil {
		return err
	}

	props := &st.project.Properties
	if durationUnit != nil {
		props.DefaultDurationUnit = *durationUnit
	}
	if workUnit != nil {
		props.DefaultWorkUnit = *workUnit
	}
	if hoursPerDay != nil {
		props.HoursPerDay = *hoursPerDay
	}
	if hoursPerWeek != nil {
		props.HoursPerWeek = *hoursPerWeek
	}
	return nil
}

func (st *readState) dateTimeSettings(rec *Record) error {
	s := st.settings
	order, err := rec.Integer(0)
	if err != nil {
		return err
	}
	if order != nil {
		if *order < int(format.MDY) || *order > int(format.YMD) {
			return rec.fail("date order", 0, ErrInvalidArgs)
		}
		s.DateOrder = format.DateOrder(*order)
	}
	clock, err := rec.Integer(1)
	if err != nil {
		return err
	}
	if clock != nil {
		s.TimeFormat = format.TimeFormat(*clock)
	}
	start, err := rec.Integer(2)
	if err != nil {
		return err
	}
	if start != nil {
		if *start < 0 || *start >= types.MinutesPerDay {
			return rec.fail("default start time", 2, ErrInvalidArgs)
		}
	}
	if c, ok, err := st.char(rec, 3); err != nil {
		return err
	} else if ok {
		s.DateSeparator = c
	}
	if c, ok, err := st.char(rec, 4); err != nil {
		return err
	} else if ok {
		s.TimeSeparator = c
	}
	if am := rec.String(5); am != nil {
		s.AMText = *am
	}
	if pm := rec.String(6); pm != nil {
		s.PMText = *pm
	}
	dateFormat, err := rec.Integer(7)
	if err != nil {
		return err
	}
	if err := st.rebuild(rec, s); err != nil {
		return err
	}
	if start != nil {
		st.project.Properties.DefaultStartTime = types.TimeOfDay(*start)
	}
	if dateFormat != nil {
		st.project.Properties.DateFormat = *dateFormat
	}
	return nil
}

func (st *readState) projectHeader(rec *Record) error {
	if title := rec.String(0); title != nil {
		st.project.Properties.Title = *title
	}
	if name := rec.String(3); name != nil {
		st.project.Properties.DefaultCalendarName = strings.TrimSpace(*name)
	}
	return nil
}

// calendar handles records 20 and 55. A missing day flag means working on a
// base calendar and default on a resource calendar.
func (st *readState) calendar(rec *Record, owner *Resource) (*Calendar, error) {
	var days [7]types.DayType
	for _, d := range types.Week {
		t, err := rec.DayType(int(d))
		if err != nil {
			return nil, err
		}
		switch {
		case t != nil && *t == types.Default && owner == nil:
			return nil, rec.fail("day type", int(d), ErrInvalidReference)
		case t != nil:
			days[d.Index()] = *t
		case owner == nil:
			days[d.Index()] = types.Working
		default:
			days[d.Index()] = types.Default
		}
	}

	name := ""
	if s := rec.String(0); s != nil {
		name = strings.TrimSpace(*s)
	}

	var (
		c   *Calendar
		err error
	)
	if owner == nil {
		c, err = st.project.AddBaseCalendar(name)
	} else {
		c, err = st.project.AddResourceCalendar(owner, name)
	}
	if err != nil {
		return nil, err
	}

	c.days = days
	return c, nil
}

// ranges reads up to three from/to time pairs starting at field first.
func (st *readState) ranges(rec *Record, first int) ([]types.DateRange, error) {
	ctx := st.formats()
	var out []types.DateRange
	for i := first; i < first+2*MaxRangesPerDay; i += 2 {
		from, err := rec.Time(i, ctx)
		if err != nil {
			return nil, err
		}
		to, err := rec.Time(i+1, ctx)
		if err != nil {
			return nil, err
		}
		if from == nil && to == nil {
			continue
		}
		if from == nil || to == nil {
			return nil, fmt.Errorf("%w: hours at field %d need both a start and an end", ErrInvalidArgs, i)
		}
		r, err := types.NewDateRange(*from, *to)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRange, err)
		}
		if out, err = appendRange(out, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (st *readState) hours(rec *Record, c *Calendar) error {
	if c == nil {
		return fmt.Errorf("%w: hours without a calendar", ErrInvalidReference)
	}
	day, err := rec.Day(0)
	if err != nil {
		return err
	}
	if day == nil {
		return fmt.Errorf("%w: hours record has no day", ErrInvalidArgs)
	}
	ranges, err := st.ranges(rec, 1)
	if err != nil {
		return err
	}

	h, err := c.AddHours(*day)
	if err != nil {
		return err
	}
	h.ranges = ranges
	return nil
}

func (st *readState) exception(rec *Record, c *Calendar) error {
	if c == nil {
		return fmt.Errorf("%w: exception without a calendar", ErrInvalidReference)
	}
	ctx := st.formats()
	from, err := rec.Date(0, ctx)
	if err != nil {
		return err
	}
	if from == nil {
		return fmt.Errorf("%w: exception has no start date", ErrInvalidArgs)
	}
	to, err := rec.Date(1, ctx)
	if err != nil {
		return err
	}
	if to == nil {
		to = from
	}
	working, err := rec.NumericBoolean(2)
	if err != nil {
		return err
	}

	e, err := NewCalendarException(*from, *to, working != nil && *working)
	if err != nil {
		return err
	}
	if e.working {
		if e.ranges, err = st.ranges(rec, 3); err != nil {
			return err
		}
	}
	return c.exceptions.add(e)
}

func (st *readState) resourceModel(rec *Record) error {
	model := make([]int, 0, rec.Len())
	for i := range rec.Fields {
		id, err := rec.Integer(i)
		if err != nil {
			return err
		}
		if id == nil || *id == 0 {
			break
		}
		model = append(model, *id)
	}
	st.model = model
	return nil
}

func (st *readState) resource(rec *Record) (*Resource, error) {
	res := &Resource{}
	for i, field := range st.model {
		switch field {
		case resourceFieldName:
			if s := rec.String(i); s != nil {
				res.Name = *s
			}
		case resourceFieldID, resourceFieldUniqueID:
			v, err := rec.Integer(i)
			if err != nil {
				return nil, err
			}
			if v == nil {
				continue
			}
			if field == resourceFieldID {
				res.ID = *v
			} else {
				res.UniqueID = *v
			}
		}
	}

	p := st.project
	if res.UniqueID == 0 {
		res.UniqueID = int(p.resourceIDs.Next())
	} else {
		p.resourceIDs.Observe(int64(res.UniqueID))
	}
	if res.ID == 0 {
		res.ID = res.UniqueID
	}
	p.resources = append(p.resources, res)
	return res, nil
}

// ReadFile reads the MPX file at path with a Reader built from opts.
func ReadFile(path string, opts ...ReaderOption) (*Project, error) {
	return NewReader(opts...).ReadFile(path)
}

// Read parses an MPX stream with a Reader built from opts.
func Read(in io.Reader, opts ...ReaderOption) (*Project, error) {
	return NewReader(opts...).Read(in)
}
