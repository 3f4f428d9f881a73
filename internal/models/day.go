package models

import "time"

// Weekday is a day of the week as the catalog prints it.
type Weekday string

const (
	Monday    Weekday = "M"
	Tuesday   Weekday = "Tu"
	Wednesday Weekday = "W"
	Thursday  Weekday = "Th"
	Friday    Weekday = "F"
	Saturday  Weekday = "Sa"
	Sunday    Weekday = "Su"
)

// Time maps the catalog letter onto the standard library weekday.
func (d Weekday) Time() time.Weekday {
	switch d {
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	default:
		return time.Sunday
	}
}

// dayTokens in scan order. Two-letter tokens first so "TuTh" never parses as
// a bare "T" pair and "Sa"/"Su" never parse as "S".
var dayTokens = []Weekday{Tuesday, Thursday, Saturday, Sunday, Monday, Wednesday, Friday}

// ParseDayPattern expands a compact day-pattern string into its weekday set:
// "MWF" -> {M, W, F}, "TuTh" -> {Tu, Th}. Unknown characters are skipped, so
// an unparseable pattern yields an empty (never-conflicting) day set.
func ParseDayPattern(pattern string) []Weekday {
	var days []Weekday
	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range dayTokens {
			t := string(tok)
			if len(pattern)-i >= len(t) && pattern[i:i+len(t)] == t {
				days = append(days, tok)
				i += len(t)
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return days
}
