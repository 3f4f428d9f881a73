package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICSRendersWeeklyEvents(t *testing.T) {
	anchor := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC) // a Wednesday

	out, err := ICS("Fall 2025", []ScheduleEvent{
		{
			UID:         "cmsc131-0101-1@testudo-plus",
			Summary:     "CMSC131 (0101)",
			Location:    "IRB 0324",
			Day:         time.Monday,
			StartMinute: 10 * 60,
			EndMinute:   10*60 + 50,
		},
	}, anchor)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:CMSC131 (0101)")
	assert.Contains(t, out, "LOCATION:IRB 0324")
	assert.Contains(t, out, "RRULE:FREQ=WEEKLY")
	// Monday after the Wednesday anchor is Sep 15.
	assert.Contains(t, out, "DTSTART:20250915T100000")
}

func TestICSRejectsInvertedTimes(t *testing.T) {
	_, err := ICS("Fall 2025", []ScheduleEvent{
		{UID: "x@testudo-plus", Summary: "broken", Day: time.Monday, StartMinute: 600, EndMinute: 600},
	}, time.Now())
	require.Error(t, err)
}

func TestNextWeekdaySameDay(t *testing.T) {
	wednesday := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wednesday, nextWeekday(wednesday, time.Wednesday))
}
