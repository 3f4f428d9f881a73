package models

import (
	"fmt"
	"strings"
	"time"
)

// PartitionKind selects the catalog listing a partition was fetched from.
type PartitionKind string

const (
	PartitionDepartment PartitionKind = "department"
	PartitionGenEd      PartitionKind = "genEd"
)

// PartitionID identifies the unit of fetch/cache granularity: all sections
// for one department or one gen-ed code in one term.
type PartitionID struct {
	Kind   PartitionKind `json:"kind"`
	Key    string        `json:"key"`
	TermID string        `json:"termId"`
}

// String renders the canonical cache-key form, e.g. "dept_CMSC_202508".
func (id PartitionID) String() string {
	prefix := "dept"
	if id.Kind == PartitionGenEd {
		prefix = "gened"
	}
	return fmt.Sprintf("%s_%s_%s", prefix, id.Key, id.TermID)
}

// CourseSection is one offered section of a course. Immutable once fetched
// within its cache lifetime; identity is (Code, Section, TermID).
type CourseSection struct {
	Code             string   `json:"code"`
	Section          string   `json:"section"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	Credits          int      `json:"credits"`
	Instructor       string   `json:"instructor"`
	InstructorRating *float64 `json:"instructorRating,omitempty"`
	CourseGPA        *float64 `json:"courseGpa,omitempty"`
	OpenSeats        int      `json:"openSeats"`
	TotalSeats       int      `json:"totalSeats"`
	Location         string   `json:"location"`
	Days             string   `json:"days"`
	Time             string   `json:"time"`
	GenEdCodes       []string `json:"genEdCodes,omitempty"`
	TermID           string   `json:"termId"`
}

// Identity returns the unique key of the section within a term.
func (s CourseSection) Identity() string {
	return s.Code + "|" + s.Section + "|" + s.TermID
}

// Department extracts the leading alphabetic department prefix of the code,
// e.g. "CMSC330" -> "CMSC".
func (s CourseSection) Department() string {
	return DepartmentOf(s.Code)
}

// DepartmentOf returns the alphabetic prefix of a DEPT### course code.
func DepartmentOf(code string) string {
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return code[:i]
		}
	}
	return code
}

// Level returns the course level digit (1-9) or 0 when the code carries none.
func (s CourseSection) Level() int {
	dept := s.Department()
	if len(s.Code) <= len(dept) {
		return 0
	}
	d := s.Code[len(dept)]
	if d < '0' || d > '9' {
		return 0
	}
	return int(d - '0')
}

// CachePartition holds the ordered section list for one partition identity.
// Replaced wholesale on refresh, never mutated in place.
type CachePartition struct {
	ID        PartitionID     `json:"id"`
	Sections  []CourseSection `json:"sections"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// IsStale reports whether the partition has outlived the TTL at the given instant.
func (p *CachePartition) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(p.FetchedAt) > ttl
}

// NormalizeCourseCode upper-cases and trims a DEPT### style course code.
func NormalizeCourseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
