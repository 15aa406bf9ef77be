package scheduling

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts five-field expressions and descriptors such as
// "@daily". A leading "CRON_TZ=Europe/Paris" evaluates the expression in
// that zone.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// CronTrigger fires on the times matched by a cron expression.
type CronTrigger struct {
	expression string // required for hash
	schedule   cron.Schedule
}

func NewCronTrigger(expression string) (*CronTrigger, error) {
	expression = strings.TrimSpace(expression)
	if strings.HasPrefix(expression, "@every") {
		return nil, fmt.Errorf("invalid cron expression %q: intervals are not daily schedules", expression)
	}
	schedule, err := cronParser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return &CronTrigger{
		expression: expression,
		schedule:   schedule,
	}, nil
}

// NextTime returns the first match after now, or nil for an expression that
// never matches, such as February 30th.
func (t *CronTrigger) NextTime(now time.Time) *time.Time {
	next := t.schedule.Next(now)
	if next.IsZero() {
		return nil
	}
	return &next
}

// Hash returns a stable hash value for the CronTrigger.
func (t *CronTrigger) Hash() uint64 {
	h := fnv.New64()
	fmt.Fprintf(h, "cron:%s", t.expression)
	return h.Sum64()
}

func (t *CronTrigger) String() string {
	return "cron(" + t.expression + ")"
}
