package formatter

import (
	"fmt"
	"math"
	"time"
)

// FormatMinutes renders working minutes as "7h 20m". Fractions are rounded
// to the nearest minute.
func FormatMinutes(minutes float64) string {
	m := int(math.Round(math.Abs(minutes)))
	sign := ""
	if minutes < 0 && m > 0 {
		sign = "-"
	}
	h, rem := m/60, m%60
	switch {
	case m == 0:
		return "0m"
	case h > 0 && rem > 0:
		return fmt.Sprintf("%s%dh %dm", sign, h, rem)
	case h > 0:
		return fmt.Sprintf("%s%dh", sign, h)
	default:
		return fmt.Sprintf("%s%dm", sign, rem)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// FormatStamp renders a planned time as "03-04 06:00".
func FormatStamp(t time.Time) string {
	return t.Format("01-02 15:04")
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DueIn describes a delivery date relative to now in calendar days.
func DueIn(due, now time.Time) string {
	y1, m1, d1 := now.Date()
	y2, m2, d2 := due.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	days := int(math.Round(b.Sub(a).Hours() / 24))

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 0:
		return fmt.Sprintf("in %dd", days)
	default:
		return fmt.Sprintf("%dd ago", -days)
	}
}

func orDash(s string) string {
	if s == "" {
		return StyleDim.Render("--")
	}
	return s
}
