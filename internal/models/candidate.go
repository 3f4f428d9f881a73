package models

// ScheduleCandidate is one conflict-free selection of sections, one per
// requirement slot. Ephemeral: constructed and scored during assembly,
// discarded after the response.
type ScheduleCandidate struct {
	Sections       []CourseSection `json:"courses"`
	TotalCredits   int             `json:"totalCredits"`
	Score          float64         `json:"score"`
	IdleGapMinutes int             `json:"idleGapMinutes"`
}

// Key returns an order-insensitive identity of the section set, used to
// de-duplicate candidates that picked the same sections in another order.
func (c ScheduleCandidate) Key() string {
	ids := make([]string, len(c.Sections))
	for i, s := range c.Sections {
		ids[i] = s.Identity()
	}
	// insertion sort; candidate sizes are tiny
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	key := ""
	for _, id := range ids {
		key += id + ";"
	}
	return key
}
