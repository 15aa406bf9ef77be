package mpx

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/Xevion/go-mpx/format"
	"github.com/Xevion/go-mpx/types"
)

const fullFile = `MPX,Microsoft Project for Windows,4.0,ANSI
10,$,1,2,",",.
11,2,1,1,8.00,40.00
12,1,1,480,/,:,am,pm,0
30,Project Plan,Acme,Jo,Standard
20,Standard,0,1,1,1,1,1,0
25,2,09:00,12:00,13:00,17:00
26,25/12/2024,26/12/2024,0
26,28/12/2024,28/12/2024,1,10:00,14:00
20,Night,1,0,0,0,0,0,1
25,1,22:00,00:00
41,40,1,49
50,7,Alice,101
55,Standard,,,0,,,,2
56,4,07:00,11:00
57,02/01/2025,,0
50,8,Bob,102
70,1,Task
`

func utcFormats(t *testing.T) *format.Context {
	t.Helper()
	s := format.DefaultSettings()
	s.Location = time.UTC
	ctx, err := format.NewContext(s)
	require.NoError(t, err)
	return ctx
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readString(t *testing.T, text string, opts ...ReaderOption) (*Project, error) {
	t.Helper()
	opts = append([]ReaderOption{WithFormats(utcFormats(t)), WithLogger(quietLogger())}, opts...)
	return Read(strings.NewReader(strings.ReplaceAll(text, "\n", "\r\n")), opts...)
}

func TestReadFull(t *testing.T) {
	p, err := readString(t, fullFile)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	props := p.Properties
	assert.Equal(t, ',', props.Delimiter)
	assert.Equal(t, "Microsoft Project for Windows", props.Program)
	assert.Equal(t, "ANSI", props.CodePage)
	assert.Equal(t, "Project Plan", props.Title)
	assert.Equal(t, "Standard", props.DefaultCalendarName)
	assert.Equal(t, types.Days, props.DefaultDurationUnit)
	assert.Equal(t, types.Hours, props.DefaultWorkUnit)
	assert.Equal(t, 8.0, props.HoursPerDay)
	assert.Equal(t, 40.0, props.HoursPerWeek)
	assert.Equal(t, types.TimeOfDay(480), props.DefaultStartTime)

	s := p.Formats().Settings()
	assert.Equal(t, format.SymbolBefore, s.SymbolPosition)
	assert.Equal(t, ',', s.ThousandsSeparator)
	assert.Equal(t, format.DMY, s.DateOrder)
	assert.Equal(t, time.UTC, s.Location)

	require.Len(t, p.Calendars(), 3)
	require.Len(t, p.BaseCalendars(), 2)

	standard, ok := p.Calendar("Standard")
	require.True(t, ok)
	assert.Equal(t, 420, standard.WorkingMinutes(day(2024, 12, 2)))
	assert.Equal(t, 480, standard.WorkingMinutes(day(2024, 12, 3)))
	assert.False(t, standard.IsWorkingDate(day(2024, 12, 26)))
	assert.Equal(t, 240, standard.WorkingMinutes(day(2024, 12, 28)))
	require.Len(t, standard.Exceptions(), 2)

	night, ok := p.Calendar("Night")
	require.True(t, ok)
	assert.True(t, night.IsWorkingDay(types.Sunday))
	assert.False(t, night.IsWorkingDay(types.Monday))
	assert.Equal(t, []types.DateRange{{From: 22 * 60, To: types.MinutesPerDay}}, night.DayHours(types.Sunday))

	resources := p.Resources()
	require.Len(t, resources, 2)
	alice := resources[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, 7, alice.ID)
	assert.Equal(t, 101, alice.UniqueID)

	cal := alice.Calendar()
	require.NotNil(t, cal)
	assert.Equal(t, standard, cal.Base())
	assert.Equal(t, types.Default, cal.WorkingDay(types.Monday))
	assert.False(t, cal.IsWorkingDay(types.Tuesday))
	assert.Equal(t, 420, cal.WorkingMinutes(day(2024, 12, 2)))
	assert.Equal(t, 240, cal.WorkingMinutes(day(2024, 12, 4)))
	assert.False(t, cal.IsWorkingDate(day(2025, 1, 2)))
	assert.True(t, cal.IsWorkingDate(day(2025, 1, 3)))

	assert.Nil(t, resources[1].Calendar())
	assert.Equal(t, "Bob", resources[1].Name)

	// IDs read from the file are not handed out again.
	assert.Equal(t, 103, p.AddResource("Carol").UniqueID)
}

func TestReadDefaultResourceModel(t *testing.T) {
	p, err := readString(t, "MPX,x,4.0,ANSI\n20,Standard\n50,3,Alice\n55,Standard\n")
	require.NoError(t, err)

	r := p.Resources()[0]
	assert.Equal(t, 3, r.ID)
	assert.Equal(t, "Alice", r.Name)
	assert.Equal(t, 1, r.UniqueID)

	standard, _ := p.Calendar("Standard")
	for _, d := range types.Week {
		assert.True(t, standard.IsWorkingDay(d), "absent base flags mean working")
		assert.Equal(t, types.Default, r.Calendar().WorkingDay(d), "absent resource flags mean default")
	}
}

func TestReadLocalisedFile(t *testing.T) {
	text := "MPX;Microsoft Project;4.0;ANSI\r\n" +
		"10;€;0;2;.;,\r\n" +
		"11;2;0;1;7,5;37,5\r\n" +
		"12;1;1;480;.;:;;;0\r\n" +
		"20;Équipe;0;1;1;1;1;1;0\r\n" +
		"26;24.12.2024;24.12.2024;0\r\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)

	p, err := Read(strings.NewReader(encoded), WithFormats(utcFormats(t)), WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, ';', p.Properties.Delimiter)
	assert.Equal(t, 7.5, p.Properties.HoursPerDay)
	s := p.Formats().Settings()
	assert.Equal(t, "€", s.CurrencySymbol)
	assert.Equal(t, ',', s.DecimalSeparator)
	assert.Equal(t, '.', s.DateSeparator)

	c, ok := p.Calendar("Équipe")
	require.True(t, ok)
	assert.False(t, c.IsWorkingDate(day(2024, 12, 24)))
	assert.True(t, c.IsWorkingDate(day(2024, 12, 23)))
}

func TestReadStrictErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
		line string
	}{
		{"not an MPX file", "PROJECT,x\n", ErrInvalidArgs, ""},
		{"empty", "", ErrInvalidArgs, ""},
		{"bad day", "MPX,x,4.0,ANSI\n20,Standard\n25,9,08:00,12:00\n", ErrParse, "at line 3"},
		{"default flag on base", "MPX,x,4.0,ANSI\n20,Standard,2\n", ErrParse, "at line 2"},
		{"hours without calendar", "MPX,x,4.0,ANSI\n25,2,08:00,12:00\n", ErrInvalidReference, "at line 2"},
		{"resource calendar without resource", "MPX,x,4.0,ANSI\n20,Standard\n55,Standard\n", ErrInvalidReference, "at line 3"},
		{"unknown base", "MPX,x,4.0,ANSI\n20,Standard\n50,1,Alice\n55,Missing\n", ErrInvalidReference, "at line 4"},
		{"duplicate base", "MPX,x,4.0,ANSI\n20,Standard\n20,Standard\n", ErrInvalidArgs, "at line 3"},
		{"hours twice", "MPX,x,4.0,ANSI\n20,Standard\n25,2,08:00,12:00\n25,2,13:00,17:00\n", ErrLimitExceeded, "at line 4"},
		{"half a range", "MPX,x,4.0,ANSI\n20,Standard\n25,2,08:00\n", ErrInvalidArgs, "at line 3"},
		{"overlapping ranges", "MPX,x,4.0,ANSI\n20,Standard\n25,2,08:00,12:00,11:00,13:00\n", ErrInvalidArgs, "at line 3"},
		{"exception ends first", "MPX,x,4.0,ANSI\n20,Standard\n26,02/01/2024,01/01/2024,0\n", ErrInvalidRange, "at line 3"},
		{"bad exception date", "MPX,x,4.0,ANSI\n20,Standard\n26,31/02/2024,,0\n", ErrParse, "at line 3"},
		{"bad date order", "MPX,x,4.0,ANSI\n12,5\n", ErrParse, "at line 2"},
		{"separator clash", "MPX,x,4.0,ANSI\n10,$,1,2,.,.\n", ErrInvalidArgs, "at line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readString(t, tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadLenient(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	text := "MPX,x,4.0,ANSI\n" +
		"20,Standard\n" +
		"25,9,08:00,12:00\n" +
		"26,25/12/2024,25/12/2024,0\n" +
		"26,oops,,0\n" +
		"25,2,09:00,12:00\n"
	p, err := readString(t, text, WithLenient(true), WithLogger(logger))
	require.NoError(t, err)

	standard, ok := p.Calendar("Standard")
	require.True(t, ok)
	assert.Len(t, standard.Exceptions(), 1)
	assert.Equal(t, 180, standard.WorkingMinutes(day(2024, 12, 2)))

	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, "Skipping malformed record"))
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "line=5")
	assert.Contains(t, out, "skipped=2")
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.mpx")
	require.NoError(t, os.WriteFile(path, []byte(strings.ReplaceAll(fullFile, "\n", "\r\n")), 0o644))

	p, err := ReadFile(path, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Len(t, p.Calendars(), 3)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mpx"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.mpx")
	require.NoError(t, os.WriteFile(bad, []byte("MPX,x,4.0,ANSI\r\n25,2\r\n"), 0o644))
	_, err = ReadFile(bad, WithLogger(quietLogger()))
	assert.ErrorContains(t, err, bad)
}
