package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// ScheduleEvent is one weekly meeting to be rendered into the calendar.
type ScheduleEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Day         time.Weekday
	StartMinute int
	EndMinute   int
}

// ICS renders the weekly meetings as a recurring iCalendar document. Each
// meeting becomes a VEVENT anchored on its next occurrence after anchor with
// a weekly RRULE.
func ICS(name string, events []ScheduleEvent, anchor time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//testudo-plus//schedule-api//EN")
	cal.SetXWRCalName(name)

	for _, ev := range events {
		if ev.EndMinute <= ev.StartMinute {
			return "", fmt.Errorf("event %s: end before start", ev.Summary)
		}
		day := nextWeekday(anchor, ev.Day)
		start := time.Date(day.Year(), day.Month(), day.Day(), ev.StartMinute/60, ev.StartMinute%60, 0, 0, anchor.Location())
		end := time.Date(day.Year(), day.Month(), day.Day(), ev.EndMinute/60, ev.EndMinute%60, 0, 0, anchor.Location())

		vevent := cal.AddEvent(ev.UID)
		vevent.SetCreatedTime(anchor)
		vevent.SetDtStampTime(anchor)
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
		vevent.SetSummary(ev.Summary)
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		vevent.AddRrule("FREQ=WEEKLY")
	}

	return cal.Serialize(), nil
}

func nextWeekday(from time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, offset)
}
