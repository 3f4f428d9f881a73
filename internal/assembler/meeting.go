package assembler

import (
	"strconv"
	"strings"

	"github.com/testudo-plus/schedule-api/internal/models"
)

// Meeting is one weekly class meeting in minutes of day, half-open [Start, End).
type Meeting struct {
	Day   models.Weekday
	Start int
	End   int
}

// Meetings expands a section's day pattern and time range into its weekly
// meetings. A section whose days or time cannot be parsed ("TBA", malformed
// range) yields no meetings: it never conflicts and stays schedulable.
func Meetings(sec models.CourseSection) []Meeting {
	days := models.ParseDayPattern(sec.Days)
	if len(days) == 0 {
		return nil
	}
	parts := strings.SplitN(sec.Time, "-", 2)
	if len(parts) != 2 {
		return nil
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return nil
	}
	end, ok := parseClock(parts[1])
	if !ok || end <= start {
		return nil
	}
	ms := make([]Meeting, 0, len(days))
	for _, d := range days {
		ms = append(ms, Meeting{Day: d, Start: start, End: end})
	}
	return ms
}

// parseClock converts a 12-hour clock string ("10:00am", "9am", "12:15pm")
// into minutes since midnight.
func parseClock(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	suffix := s[len(s)-2:]
	if suffix != "am" && suffix != "pm" {
		return 0, false
	}
	s = strings.TrimSpace(s[:len(s)-2])

	hh, mm := s, "0"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hh, mm = s[:i], s[i+1:]
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 1 || h > 12 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if suffix == "pm" && h != 12 {
		h += 12
	}
	if suffix == "am" && h == 12 {
		h = 0
	}
	return h*60 + m, true
}

func overlaps(a, b Meeting) bool {
	return a.Day == b.Day && a.Start < b.End && b.Start < a.End
}

// conflicts reports whether any meeting of a overlaps any meeting of b.
func conflicts(a, b []Meeting) bool {
	for _, ma := range a {
		for _, mb := range b {
			if overlaps(ma, mb) {
				return true
			}
		}
	}
	return false
}
