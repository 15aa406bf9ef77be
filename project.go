// Package mpx reads and writes MPX project files and provides the calendar
// working-time model that schedule computations are built on: which dates
// are working dates, how many working days lie between two dates, and which
// date lies a given number of working days away.
package mpx

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/internal"
	"github.com/Xevion/go-mpx/types"
)

// DefaultCalendarName is the base calendar MPX files use when none is named.
const DefaultCalendarName = "Standard"

// Properties are the file and project settings that are not formats.
type Properties struct {
	// Delimiter separates fields; CodePage names the text encoding.
	Delimiter rune
	CodePage  string
	Program   string

	Title               string
	DefaultCalendarName string

	DefaultDurationUnit types.TimeUnit
	DefaultWorkUnit     types.TimeUnit
	HoursPerDay         float64
	HoursPerWeek        float64
	// DefaultStartTime is the time of day tasks start when none is given.
	DefaultStartTime types.TimeOfDay
	// DateFormat is the record 12 display format code, kept for writing.
	DateFormat int
}

// Resource is the part of an MPX resource this package models: its identity
// and its calendar.
type Resource struct {
	ID       int
	UniqueID int
	Name     string
	calendar *Calendar
}

// Calendar returns the resource's own calendar, or nil.
func (r *Resource) Calendar() *Calendar {
	return r.calendar
}

// Project owns every calendar read from or written to a file. Derived
// calendars point at their base without owning it; the project refuses to
// drop a base that is still in use.
type Project struct {
	Properties Properties

	formats   *format.Context
	calendars []*Calendar
	byName    map[string]*Calendar
	resources []*Resource

	calendarIDs internal.Sequence
	resourceIDs internal.Sequence
}

// NewProject returns an empty project. A nil formats uses format.Default().
func NewProject(formats *format.Context) *Project {
	if formats == nil {
		formats = format.Default()
	}
	return &Project{
		Properties: Properties{
			Delimiter:           ',',
			CodePage:            "ANSI",
			Program:             "go-mpx",
			DefaultCalendarName: DefaultCalendarName,
			DefaultDurationUnit: types.Days,
			DefaultWorkUnit:     types.Hours,
			HoursPerDay:         8,
			HoursPerWeek:        40,
			DefaultStartTime:    8 * 60,
		},
		formats: formats,
		byName:  map[string]*Calendar{},
	}
}

// Formats returns the formatting context for the project's fields.
func (p *Project) Formats() *format.Context {
	return p.formats
}

// SetFormats replaces the formatting context, e.g. after settings change.
func (p *Project) SetFormats(ctx *format.Context) error {
	if ctx == nil {
		return ErrInvalidArgs
	}
	p.formats = ctx
	return nil
}

// AddBaseCalendar creates a named base calendar working Monday to Friday.
func (p *Project) AddBaseCalendar(name string) (*Calendar, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: base calendar needs a name", ErrInvalidArgs)
	}
	if _, ok := p.byName[name]; ok {
		return nil, fmt.Errorf("%w: calendar %q already exists", ErrInvalidArgs, name)
	}
	c := NewBaseCalendar(name)
	p.register(c)
	p.byName[name] = c
	return c, nil
}

// AddDerivedCalendar creates a calendar inheriting every day from the base
// calendar called baseName.
func (p *Project) AddDerivedCalendar(baseName string) (*Calendar, error) {
	base, ok := p.byName[baseName]
	if !ok {
		return nil, fmt.Errorf("%w: no base calendar named %q", ErrInvalidReference, baseName)
	}
	c, err := NewDerivedCalendar(base)
	if err != nil {
		return nil, err
	}
	p.register(c)
	return c, nil
}

func (p *Project) register(c *Calendar) {
	c.UniqueID = int(p.calendarIDs.Next())
	p.calendars = append(p.calendars, c)
	slog.Debug("Calendar added", "calendar", c.label(), "unique_id", c.UniqueID)
}

// Calendar looks up a base calendar by name.
func (p *Project) Calendar(name string) (*Calendar, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// CalendarByID looks up any calendar by unique ID.
func (p *Project) CalendarByID(id int) (*Calendar, bool) {
	for _, c := range p.calendars {
		if c.UniqueID == id {
			return c, true
		}
	}
	return nil, false
}

// Calendars returns every calendar in creation order.
func (p *Project) Calendars() []*Calendar {
	return append([]*Calendar(nil), p.calendars...)
}

// BaseCalendars returns the named root calendars in creation order.
func (p *Project) BaseCalendars() []*Calendar {
	var out []*Calendar
	for _, c := range p.calendars {
		if c.IsBaseCalendar() {
			out = append(out, c)
		}
	}
	return out
}

// DefaultCalendar returns the calendar named by Properties.DefaultCalendarName.
func (p *Project) DefaultCalendar() (*Calendar, bool) {
	return p.Calendar(p.Properties.DefaultCalendarName)
}

// RenameCalendar changes a base calendar's name, keeping lookups in step.
func (p *Project) RenameCalendar(c *Calendar, name string) error {
	if !c.IsBaseCalendar() || name == "" {
		return fmt.Errorf("%w: only base calendars carry names", ErrInvalidArgs)
	}
	if other, ok := p.byName[name]; ok && other != c {
		return fmt.Errorf("%w: calendar %q already exists", ErrInvalidArgs, name)
	}
	delete(p.byName, c.name)
	c.SetName(name)
	p.byName[name] = c
	return nil
}

// RemoveCalendar drops c from the project. Removing a calendar that another
// calendar derives from fails with ErrCalendarInUse; resources using c lose
// their calendar.
func (p *Project) RemoveCalendar(c *Calendar) error {
	index := -1
	for i, owned := range p.calendars {
		if owned == c {
			index = i
		} else if owned.base == c {
			return fmt.Errorf("%w: %q is the base of %q", ErrCalendarInUse, c.label(), owned.label())
		}
	}
	if index < 0 {
		return fmt.Errorf("%w: calendar %q is not part of the project", ErrInvalidReference, c.label())
	}

	p.calendars = append(p.calendars[:index], p.calendars[index+1:]...)
	if c.name != "" && p.byName[c.name] == c {
		delete(p.byName, c.name)
	}
	for _, r := range p.resources {
		if r.calendar == c {
			r.calendar = nil
		}
	}
	return nil
}

// AddResource creates a resource with the next free unique ID.
func (p *Project) AddResource(name string) *Resource {
	id := int(p.resourceIDs.Next())
	r := &Resource{ID: id, UniqueID: id, Name: name}
	p.resources = append(p.resources, r)
	return r
}

// Resources returns every resource in creation order.
func (p *Project) Resources() []*Resource {
	return append([]*Resource(nil), p.resources...)
}

// AddResourceCalendar gives r a calendar derived from the base called
// baseName, replacing any calendar it had.
func (p *Project) AddResourceCalendar(r *Resource, baseName string) (*Calendar, error) {
	c, err := p.AddDerivedCalendar(baseName)
	if err != nil {
		return nil, fmt.Errorf("resource %q: %w", r.Name, err)
	}
	if r.calendar != nil {
		if err := p.RemoveCalendar(r.calendar); err != nil {
			return nil, err
		}
	}
	r.calendar = c
	return c, nil
}

// Validate checks every calendar and that each base belongs to the project.
func (p *Project) Validate() error {
	var errs []error
	for _, c := range p.calendars {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
		if check := CheckBaseRegistered(p, c); check.fail {
			errs = append(errs, fmt.Errorf("calendar %q: %w", c.label(), check.err))
		}
	}
	return errors.Join(errs...)
}
