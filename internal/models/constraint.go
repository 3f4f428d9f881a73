package models

// RankingPreference selects the ordering bias the assembler applies.
type RankingPreference string

const (
	PreferBestRating RankingPreference = "best_rating"
	PreferCompact    RankingPreference = "compact"
	PreferSpread     RankingPreference = "spread"
)

// ConstraintSet is the parsed intent of one request. Produced fresh per
// request; never cached or persisted.
type ConstraintSet struct {
	Departments     []string          `json:"departments"`
	GenEds          []string          `json:"genEds"`
	Courses         []string          `json:"courses"`
	ExcludedCourses []string          `json:"excludedCourses,omitempty"`
	DayExclusions   []Weekday         `json:"dayExclusions,omitempty"`
	EarliestStart   int               `json:"earliestStart"` // minute of day, -1 unset
	LatestEnd       int               `json:"latestEnd"`     // minute of day, -1 unset
	MinCredits      int               `json:"minCredits"`    // 0 unset
	MaxCredits      int               `json:"maxCredits"`    // 0 unset
	Level           int               `json:"level,omitempty"`
	Preference      RankingPreference `json:"preference,omitempty"`
}

// NewConstraintSet returns an empty set with the unset sentinels in place.
func NewConstraintSet() ConstraintSet {
	return ConstraintSet{EarliestStart: -1, LatestEnd: -1}
}

// Empty reports whether the set names no requirement slot at all.
func (c ConstraintSet) Empty() bool {
	return len(c.Departments) == 0 && len(c.GenEds) == 0 && len(c.Courses) == 0
}

// SlotCount is the number of requirement slots the assembled schedule must fill.
func (c ConstraintSet) SlotCount() int {
	return len(c.Departments) + len(c.GenEds) + len(c.Courses)
}

// ExcludesDay reports whether the given weekday was ruled out.
func (c ConstraintSet) ExcludesDay(day Weekday) bool {
	for _, d := range c.DayExclusions {
		if d == day {
			return true
		}
	}
	return false
}
