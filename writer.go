package mpx

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/types"
)

// mpxVersion is written in the header record.
const mpxVersion = "4.0"

type recordWriter struct {
	csv     *csv.Writer
	formats *format.Context
}

func (w *recordWriter) write(number string, fields ...string) {
	// csv.Writer keeps the first error and reports it from Error.
	_ = w.csv.Write(append([]string{number}, fields...))
}

// Write emits the settings, calendars and resources of p as an MPX file
// using p's delimiter, code page and formats. Derived calendars that no
// resource owns cannot be expressed in MPX and are left out.
func Write(out io.Writer, p *Project) error {
	encoded := encodeWriter(p.Properties.CodePage, out)
	cw := csv.NewWriter(encoded)
	cw.Comma = p.Properties.Delimiter
	cw.UseCRLF = true
	w := &recordWriter{csv: cw, formats: p.Formats()}

	w.write("MPX", p.Properties.Program, mpxVersion, p.Properties.CodePage)
	w.settings(p)

	owned := map[*Calendar]bool{}
	for _, c := range p.calendars {
		if c.IsBaseCalendar() {
			w.calendar(RecordBaseCalendar, c.name, c)
		}
	}

	if len(p.resources) > 0 {
		w.write(RecordResourceModel, itoa(resourceFieldID), itoa(resourceFieldName), itoa(resourceFieldUniqueID))
	}
	for _, r := range p.resources {
		w.write(RecordResource, itoa(r.ID), r.Name, itoa(r.UniqueID))
		if c := r.calendar; c != nil && c.base != nil {
			owned[c] = true
			w.calendar(RecordResourceCalendar, c.root().name, c)
		}
	}

	for _, c := range p.calendars {
		if !c.IsBaseCalendar() && !owned[c] {
			slog.Warn("Derived calendar has no resource, not written", "calendar", c.label())
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing MPX: %w", err)
	}
	// The encoder buffers incomplete input; closing it does not close out.
	if closer, ok := encoded.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// WriteFile writes p to path.
func WriteFile(path string, p *Project) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (w *recordWriter) settings(p *Project) {
	s := w.formats.Settings()
	props := p.Properties

	w.write(RecordCurrencySettings,
		s.CurrencySymbol,
		itoa(int(s.SymbolPosition)),
		itoa(s.CurrencyDigits),
		string(s.ThousandsSeparator),
		string(s.DecimalSeparator),
	)
	w.write(RecordDefaultSettings,
		itoa(int(props.DefaultDurationUnit)),
		"0",
		itoa(int(props.DefaultWorkUnit)),
		w.formats.FormatFloat(props.HoursPerDay),
		w.formats.FormatFloat(props.HoursPerWeek),
	)
	w.write(RecordDateTimeSettings,
		itoa(int(s.DateOrder)),
		itoa(int(s.TimeFormat)),
		itoa(int(props.DefaultStartTime)),
		string(s.DateSeparator),
		string(s.TimeSeparator),
		s.AMText,
		s.PMText,
		itoa(props.DateFormat),
	)
	w.write(RecordProjectHeader, props.Title, "", "", props.DefaultCalendarName)
}

func (w *recordWriter) calendar(number, name string, c *Calendar) {
	days, hours := flatten(c)
	fields := []string{name}
	for _, d := range types.Week {
		fields = append(fields, itoa(int(days[d.Index()])))
	}
	w.write(number, fields...)

	hoursNumber, exceptionNumber := RecordBaseCalendarHours, RecordBaseCalendarException
	if number == RecordResourceCalendar {
		hoursNumber, exceptionNumber = RecordResourceCalendarHours, RecordResourceCalendarExc
	}

	for _, d := range types.Week {
		h := hours[d.Index()]
		if h == nil {
			continue
		}
		w.write(hoursNumber, append([]string{itoa(int(d))}, w.ranges(h.ranges)...)...)
	}

	for _, e := range c.exceptions.all() {
		working := "0"
		if e.working {
			working = "1"
		}
		fields := []string{w.date(e.from), w.date(e.to), working}
		w.write(exceptionNumber, append(fields, w.ranges(e.ranges)...)...)
	}
}

// flatten resolves c's default days through every calendar between c and
// its root, since a file names only the root as a resource calendar's base.
// Days still default afterwards defer to the root.
func flatten(c *Calendar) ([7]types.DayType, [7]*CalendarHours) {
	days, hours := c.days, c.hours
	root := c.root()
	for _, d := range types.Week {
		i := d.Index()
		for cal := c; cal.base != nil && cal.base != root && days[i] == types.Default; {
			cal = cal.base
			days[i] = cal.days[i]
			if hours[i] == nil || len(hours[i].ranges) == 0 {
				hours[i] = cal.hours[i]
			}
		}
	}
	return days, hours
}

// date writes the calendar day of t, whatever its location.
func (w *recordWriter) date(t time.Time) string {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, w.formats.Settings().Location)
	return w.formats.FormatDate(day)
}

func (w *recordWriter) ranges(ranges []types.DateRange) []string {
	var out []string
	for _, r := range ranges {
		out = append(out, w.formats.FormatTime(r.From), w.formats.FormatTime(r.To))
	}
	return out
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
