package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Xevion/go-mpx/types"
)

// dateLayouts returns the layout dates are written with, and the layouts
// accepted when parsing (unpadded day and month, two or four digit year).
func dateLayouts(order DateOrder, sep rune) (string, []string) {
	s := string(sep)
	switch order {
	case MDY:
		return "01" + s + "02" + s + "06", []string{"1" + s + "2" + s + "06", "1" + s + "2" + s + "2006"}
	case YMD:
		return "06" + s + "01" + s + "02", []string{"06" + s + "1" + s + "2", "2006" + s + "1" + s + "2"}
	default:
		return "02" + s + "01" + s + "06", []string{"2" + s + "1" + s + "06", "2" + s + "1" + s + "2006"}
	}
}

// ParseDate parses a date field. Both two and four digit years are accepted.
func (c *Context) ParseDate(s string) (time.Time, error) {
	text := strings.TrimSpace(s)
	for _, layout := range c.parseLayouts {
		if t, err := time.ParseInLocation(layout, text, c.settings.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: date %q", ErrSyntax, s)
}

// FormatDate writes a date with a two digit year, as MPX files do. Years a
// two digit year would read back as a different century (before 1969 or
// after 2068) are written with four digits.
func (c *Context) FormatDate(t time.Time) string {
	t = t.In(c.settings.Location)
	if year := t.Year(); year < 1969 || year > 2068 {
		return t.Format(strings.Replace(c.dateLayout, "06", "2006", 1))
	}
	return t.Format(c.dateLayout)
}

// ParseTime parses a time-of-day field in either clock format. A trailing
// AM or PM text is honoured regardless of the configured TimeFormat.
func (c *Context) ParseTime(s string) (types.TimeOfDay, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	meridiem := 0
	if am := strings.ToLower(c.settings.AMText); strings.HasSuffix(text, am) {
		meridiem = 1
		text = strings.TrimSpace(strings.TrimSuffix(text, am))
	} else if pm := strings.ToLower(c.settings.PMText); strings.HasSuffix(text, pm) {
		meridiem = 2
		text = strings.TrimSpace(strings.TrimSuffix(text, pm))
	}

	hh, mm, ok := strings.Cut(text, string(c.settings.TimeSeparator))
	if !ok {
		return 0, fmt.Errorf("%w: time %q", ErrSyntax, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q", ErrSyntax, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q", ErrSyntax, s)
	}

	if meridiem != 0 {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: time %q", ErrSyntax, s)
		}
		hour %= 12
		if meridiem == 2 {
			hour += 12
		}
	}

	t, err := types.NewTimeOfDay(hour, minute)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q: %v", ErrSyntax, s, err)
	}
	return t, nil
}

// FormatTime writes a time of day. 24:00 is written as midnight.
func (c *Context) FormatTime(t types.TimeOfDay) string {
	hour, minute := t.Hour()%24, t.Minute()
	sep := string(c.settings.TimeSeparator)
	if c.settings.TimeFormat == TwentyFourHour {
		return fmt.Sprintf("%02d%s%02d", hour, sep, minute)
	}
	text := c.settings.AMText
	if hour >= 12 {
		text = c.settings.PMText
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d%s%02d%s", hour, sep, minute, text)
}

// ParseDateTime parses "<date> <time>", falling back to a bare date.
func (c *Context) ParseDateTime(s string) (time.Time, error) {
	text := strings.TrimSpace(s)
	if datePart, timePart, ok := strings.Cut(text, " "); ok {
		d, err := c.ParseDate(datePart)
		if err != nil {
			return time.Time{}, err
		}
		t, err := c.ParseTime(timePart)
		if err != nil {
			return time.Time{}, err
		}
		return d.Add(time.Duration(t) * time.Minute), nil
	}
	return c.ParseDate(text)
}

// FormatDateTime writes "<date> <time>".
func (c *Context) FormatDateTime(t time.Time) string {
	t = t.In(c.settings.Location)
	tod := types.TimeOfDay(t.Hour()*60 + t.Minute())
	return c.FormatDate(t) + " " + c.FormatTime(tod)
}

// ParseBool accepts the numeric 0/1 form as well as the locale's yes/no text.
func (c *Context) ParseBool(s string) (bool, error) {
	text := strings.TrimSpace(s)
	switch {
	case text == "1", strings.EqualFold(text, c.locale.Yes):
		return true, nil
	case text == "0", strings.EqualFold(text, c.locale.No):
		return false, nil
	}
	return false, fmt.Errorf("%w: boolean %q", ErrSyntax, s)
}
