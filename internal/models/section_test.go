package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPartitionIDString(t *testing.T) {
	dept := PartitionID{Kind: PartitionDepartment, Key: "CMSC", TermID: "202508"}
	assert.Equal(t, "dept_CMSC_202508", dept.String())

	gened := PartitionID{Kind: PartitionGenEd, Key: "FSOC", TermID: "202508"}
	assert.Equal(t, "gened_FSOC_202508", gened.String())
}

func TestCourseSectionDepartmentAndLevel(t *testing.T) {
	sec := CourseSection{Code: "CMSC330"}
	assert.Equal(t, "CMSC", sec.Department())
	assert.Equal(t, 3, sec.Level())

	honors := CourseSection{Code: "CMSC389H"}
	assert.Equal(t, 3, honors.Level())

	odd := CourseSection{Code: "CMSC"}
	assert.Equal(t, "CMSC", odd.Department())
	assert.Equal(t, 0, odd.Level())
}

func TestCachePartitionIsStale(t *testing.T) {
	now := time.Date(2025, 8, 20, 9, 0, 0, 0, time.UTC)
	part := CachePartition{FetchedAt: now.Add(-23 * time.Hour)}
	assert.False(t, part.IsStale(now, 24*time.Hour))

	part.FetchedAt = now.Add(-25 * time.Hour)
	assert.True(t, part.IsStale(now, 24*time.Hour))
}

func TestScheduleCandidateKeyIsOrderInsensitive(t *testing.T) {
	a := CourseSection{Code: "CMSC330", Section: "0101", TermID: "202508"}
	b := CourseSection{Code: "MATH140", Section: "0201", TermID: "202508"}

	first := ScheduleCandidate{Sections: []CourseSection{a, b}}
	second := ScheduleCandidate{Sections: []CourseSection{b, a}}
	assert.Equal(t, first.Key(), second.Key())
}
