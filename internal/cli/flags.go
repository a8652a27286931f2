package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// capacityFlag collects repeated TYPE=N values.
type capacityFlag map[string]int

var _ pflag.Value = capacityFlag{}

func (c capacityFlag) String() string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, c[k]))
	}
	return strings.Join(parts, ",")
}

func (c capacityFlag) Set(v string) error {
	for _, item := range strings.Split(v, ",") {
		mt, n, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok || strings.TrimSpace(mt) == "" {
			return fmt.Errorf("expected TYPE=N, got %q", item)
		}
		capacity, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || capacity < 0 {
			return fmt.Errorf("capacity for %s must be a non-negative integer, got %q", mt, n)
		}
		c[strings.ToUpper(strings.TrimSpace(mt))] = capacity
	}
	return nil
}

func (c capacityFlag) Type() string { return "TYPE=N" }

var timeLayouts = []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

// timeFlag parses a date or date-time in a fixed location.
type timeFlag struct {
	loc *time.Location
	t   *time.Time
}

var _ pflag.Value = (*timeFlag)(nil)

func newTimeFlag(loc *time.Location) *timeFlag {
	return &timeFlag{loc: loc}
}

func (f *timeFlag) String() string {
	if f.t == nil {
		return ""
	}
	return f.t.Format("2006-01-02T15:04")
}

func (f *timeFlag) Set(v string) error {
	t, err := parseLocalTime(v, f.loc)
	if err != nil {
		return err
	}
	f.t = &t
	return nil
}

func (f *timeFlag) Type() string { return "DATE" }

// Value returns the parsed time, nil when the flag was not given.
func (f *timeFlag) Value() *time.Time { return f.t }

func parseLocalTime(v string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	v = strings.TrimSpace(v)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or YYYY-MM-DDTHH:MM)", v)
}
