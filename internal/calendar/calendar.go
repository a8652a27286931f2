// Package calendar answers working-time questions for a single-shift plant:
// which days are worked, where the shift and its breaks fall, and how far a
// timestamp moves when a number of working minutes is consumed.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrInvalidWorkingHours is returned for shift lengths outside 8–12 hours.
var ErrInvalidWorkingHours = errors.New("invalid working hours")

const (
	shiftStartHour = 6
	dateLayout     = "2006-01-02"

	// searchLimitDays bounds scans for the next or previous working day.
	searchLimitDays = 3660
)

// netDailyMinutes is shift length minus the breaks that fall inside it.
var netDailyMinutes = map[int]int{
	8:  440,
	9:  500,
	10: 560,
	11: 590,
	12: 650,
}

type breakWindow struct {
	startMin, endMin int // minutes after midnight
	minShiftHours    int
}

var breaks = []breakWindow{
	{startMin: 10 * 60, endMin: 10*60 + 40, minShiftHours: 0},
	{startMin: 14 * 60, endMin: 14*60 + 30, minShiftHours: 11},
}

// NetDailyMinutes returns the productive minutes in one working day for a
// shift of the given length.
func NetDailyMinutes(hours int) (int, error) {
	m, ok := netDailyMinutes[hours]
	if !ok {
		return 0, fmt.Errorf("%w: %d (supported: 8-12)", ErrInvalidWorkingHours, hours)
	}
	return m, nil
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithLocation sets the plant's local time zone. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *Calendar) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithWeekendsOff treats Saturday and Sunday as non-working days in addition
// to listed holidays.
func WithWeekendsOff(off bool) Option {
	return func(c *Calendar) {
		c.weekendsOff = off
	}
}

// Calendar is immutable after construction and safe for concurrent reads.
type Calendar struct {
	hours       int
	daily       int
	loc         *time.Location
	holidays    map[string]struct{}
	weekendsOff bool
}

type window struct {
	start, end time.Time
}

// New builds a calendar for the given shift length and holiday dates.
func New(hours int, holidays []time.Time, opts ...Option) (*Calendar, error) {
	daily, err := NetDailyMinutes(hours)
	if err != nil {
		return nil, err
	}
	c := &Calendar{
		hours:    hours,
		daily:    daily,
		loc:      time.UTC,
		holidays: make(map[string]struct{}, len(holidays)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, h := range holidays {
		// Holidays are calendar dates; take them as written, not converted.
		c.holidays[h.Format(dateLayout)] = struct{}{}
	}
	return c, nil
}

// Hours returns the configured shift length.
func (c *Calendar) Hours() int { return c.hours }

// DailyMinutes returns the net working minutes in one working day.
func (c *Calendar) DailyMinutes() int { return c.daily }

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location { return c.loc }

// Holidays returns the holiday dates in ascending order.
func (c *Calendar) Holidays() []string {
	out := make([]string, 0, len(c.holidays))
	for d := range c.holidays {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (c *Calendar) midnight(t time.Time) time.Time {
	t = t.In(c.loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

func (c *Calendar) at(day time.Time, minuteOfDay int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, minuteOfDay, 0, 0, c.loc)
}

// IsWorkingDay reports whether t's date is a working day.
func (c *Calendar) IsWorkingDay(t time.Time) bool {
	day := t.In(c.loc)
	if _, ok := c.holidays[day.Format(dateLayout)]; ok {
		return false
	}
	if c.weekendsOff {
		wd := day.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	return true
}

// ShiftStart returns 06:00 on t's date.
func (c *Calendar) ShiftStart(t time.Time) time.Time {
	return c.at(c.midnight(t), shiftStartHour*60)
}

// ShiftEnd returns the end of the shift on t's date.
func (c *Calendar) ShiftEnd(t time.Time) time.Time {
	return c.at(c.midnight(t), (shiftStartHour+c.hours)*60)
}

// windows returns the productive intervals of t's date, in order. Empty on
// non-working days.
func (c *Calendar) windows(t time.Time) []window {
	if !c.IsWorkingDay(t) {
		return nil
	}
	day := c.midnight(t)
	startMin := shiftStartHour * 60
	endMin := (shiftStartHour + c.hours) * 60

	var out []window
	cur := startMin
	for _, b := range breaks {
		if c.hours < b.minShiftHours || b.endMin <= cur || b.startMin >= endMin {
			continue
		}
		if b.startMin > cur {
			out = append(out, window{start: c.at(day, cur), end: c.at(day, b.startMin)})
		}
		cur = b.endMin
	}
	if cur < endMin {
		out = append(out, window{start: c.at(day, cur), end: c.at(day, endMin)})
	}
	return out
}

func (c *Calendar) nextDay(t time.Time) time.Time {
	return c.midnight(t).AddDate(0, 0, 1)
}

// NextWorkingStart returns the shift start of the first working day strictly
// after t's date.
func (c *Calendar) NextWorkingStart(t time.Time) time.Time {
	day := c.nextDay(t)
	for i := 0; i < searchLimitDays && !c.IsWorkingDay(day); i++ {
		day = day.AddDate(0, 0, 1)
	}
	return c.ShiftStart(day)
}

// Normalize returns the earliest working instant at or after t.
func (c *Calendar) Normalize(t time.Time) time.Time {
	t = t.In(c.loc)
	for i := 0; i < searchLimitDays; i++ {
		for _, w := range c.windows(t) {
			if t.Before(w.end) {
				if t.Before(w.start) {
					return w.start
				}
				return t
			}
		}
		t = c.nextDay(t)
	}
	return t
}

// Advance walks forward from `from`, consuming only working minutes. When the
// budget runs out exactly at the end of a window the window end is returned;
// the walk never jumps over a break it does not need.
func (c *Calendar) Advance(from time.Time, minutes float64) time.Time {
	if minutes <= 0 {
		return from.In(c.loc)
	}
	remaining := toDuration(minutes)
	t := c.Normalize(from)
	for i := 0; i < searchLimitDays*4; i++ {
		for _, w := range c.windows(t) {
			if !t.Before(w.end) {
				continue
			}
			if t.Before(w.start) {
				t = w.start
			}
			avail := w.end.Sub(t)
			if remaining <= avail {
				return t.Add(remaining)
			}
			remaining -= avail
			t = w.end
		}
		t = c.NextWorkingStart(t)
	}
	return t
}

// WorkingMinutesBetween returns the working minutes in [start, end).
func (c *Calendar) WorkingMinutesBetween(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	var total time.Duration
	day := c.midnight(start)
	last := c.midnight(end)
	for i := 0; !day.After(last) && i < searchLimitDays*4; i++ {
		for _, w := range c.windows(day) {
			s, e := w.start, w.end
			if s.Before(start) {
				s = start
			}
			if e.After(end) {
				e = end
			}
			if e.After(s) {
				total += e.Sub(s)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return total.Minutes()
}

// RemainingToday returns the working minutes between t and the end of its
// shift.
func (c *Calendar) RemainingToday(t time.Time) float64 {
	return c.WorkingMinutesBetween(t, c.ShiftEnd(t))
}

// InWorkingTime reports whether t lies inside a working window. When
// allowEnd is set the closing instant of a window also counts.
func (c *Calendar) InWorkingTime(t time.Time, allowEnd bool) bool {
	for _, w := range c.windows(t) {
		if !t.Before(w.start) && t.Before(w.end) {
			return true
		}
		if allowEnd && t.Equal(w.end) {
			return true
		}
	}
	return false
}

// SubtractWorkingDays steps back n working days from date. date is a
// calendar date: its year, month and day are read as written and placed in
// the calendar's zone, like holidays. The result keeps date's clock time.
func (c *Calendar) SubtractWorkingDays(date time.Time, n int) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(),
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), c.loc)
	for i := 0; n > 0 && i < searchLimitDays*4; i++ {
		d = d.AddDate(0, 0, -1)
		if c.IsWorkingDay(d) {
			n--
		}
	}
	return d
}

func toDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
