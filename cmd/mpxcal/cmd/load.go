package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mpx "github.com/Xevion/go-mpx"
	"github.com/Xevion/go-mpx/internal"
)

var (
	calendarName string
	resourceName string
)

// addCalendarFlags registers the flags that pick a calendar out of a file.
func addCalendarFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&calendarName, "calendar", "c", "", "base calendar name (default: the project's default calendar)")
	cmd.Flags().StringVarP(&resourceName, "resource", "r", "", "use this resource's calendar instead of a base calendar")
}

// loadProject reads an MPX file from a path or an http(s) URL.
func loadProject(ctx context.Context, source string) (*mpx.Project, error) {
	opts := []mpx.ReaderOption{mpx.WithFormats(formats), mpx.WithLenient(cfg.Lenient)}

	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return mpx.ReadFile(source, opts...)
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, fmt.Errorf("fetch_timeout: %w", err)
	}
	client := internal.NewHttpClient(ctx, timeout)
	defer client.Close()

	body, err := client.Fetch(source)
	if err != nil {
		return nil, err
	}
	return mpx.Read(bytes.NewReader(body), opts...)
}

// pickCalendar resolves the --calendar and --resource flags. Without either
// it tries the configured default calendar, then the file's own default.
func pickCalendar(p *mpx.Project) (*mpx.Calendar, error) {
	if resourceName != "" {
		for _, r := range p.Resources() {
			if r.Name == resourceName {
				if r.Calendar() == nil {
					return nil, fmt.Errorf("resource %q has no calendar", resourceName)
				}
				return r.Calendar(), nil
			}
		}
		return nil, fmt.Errorf("%w: no resource named %q", mpx.ErrInvalidReference, resourceName)
	}

	if calendarName != "" {
		c, ok := p.Calendar(calendarName)
		if !ok {
			return nil, fmt.Errorf("%w: no calendar named %q", mpx.ErrInvalidReference, calendarName)
		}
		return c, nil
	}
	if c, ok := p.Calendar(cfg.DefaultCalendar); ok {
		return c, nil
	}
	if c, ok := p.DefaultCalendar(); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: file has no calendar %q", mpx.ErrInvalidReference, cfg.DefaultCalendar)
}

// parseDate reads an ISO date, or a date in the configured format.
func parseDate(s string) (time.Time, error) {
	if t, err := internal.ParseDate(s, formats.Settings().Location); err == nil {
		return t, nil
	}
	return formats.ParseDateTime(s)
}

func loadCalendar(cmd *cobra.Command, source string) (*mpx.Project, *mpx.Calendar, error) {
	p, err := loadProject(cmd.Context(), source)
	if err != nil {
		return nil, nil, err
	}
	c, err := pickCalendar(p)
	if err != nil {
		return nil, nil, err
	}
	return p, c, nil
}
