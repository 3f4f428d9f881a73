package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `
<html><body>
<div class="course">
  <div class="course-id">CMSC330</div>
  <span class="course-title">Organization of Programming Languages</span>
  <span class="course-min-credits">3</span>
  <div class="approved-course-text">A study of programming languages.</div>
</div>
<div class="course">
  <div class="course-id">COMM107</div>
  <span class="course-title">Oral Communication</span>
  <span class="course-min-credits">3</span>
  <span class="course-subcategory"><a href="#">FSOC</a></span>
</div>
<div class="course">
  <span class="course-title">orphan entry without an id</span>
</div>
</body></html>`

const sectionsHTML = `
<html><body>
<div class="section">
  <span class="section-id">0101</span>
  <span class="section-instructor">Jane Rivera</span>
  <span class="open-seats-count">12</span>
  <span class="total-seats-count">40</span>
  <span class="section-days">MWF</span>
  <span class="class-start-time">10:00am</span>
  <span class="class-end-time">10:50am</span>
  <span class="building-code">IRB</span>
  <span class="class-room">0324</span>
</div>
<div class="section">
  <span class="section-id">0201</span>
  <span class="open-seats-count">0</span>
  <span class="total-seats-count">35</span>
  <span class="section-days">TuTh</span>
</div>
</body></html>`

func TestParseCourseListings(t *testing.T) {
	courses, err := parseCourseListings(strings.NewReader(listingHTML))
	require.NoError(t, err)
	require.Len(t, courses, 2, "entries without a course id are skipped")

	assert.Equal(t, "CMSC330", courses[0].Code)
	assert.Equal(t, "Organization of Programming Languages", courses[0].Title)
	assert.Equal(t, 3, courses[0].Credits)
	assert.Equal(t, "A study of programming languages.", courses[0].Description)
	assert.Empty(t, courses[0].GenEds)

	assert.Equal(t, "COMM107", courses[1].Code)
	assert.Equal(t, []string{"FSOC"}, courses[1].GenEds)
}

func TestParseCourseListingsDefaultsCredits(t *testing.T) {
	courses, err := parseCourseListings(strings.NewReader(
		`<div class="course"><div class="course-id">ARTT100</div></div>`))
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, 3, courses[0].Credits)
}

func TestParseSectionRows(t *testing.T) {
	rows, err := parseSectionRows(strings.NewReader(sectionsHTML))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, sectionRow{
		ID:         "0101",
		Instructor: "Jane Rivera",
		Days:       "MWF",
		Time:       "10:00am-10:50am",
		Location:   "IRB 0324",
		OpenSeats:  12,
		TotalSeats: 40,
	}, rows[0])

	assert.Equal(t, "TBA", rows[1].Instructor, "missing instructor becomes TBA")
	assert.Empty(t, rows[1].Time, "a missing time stays empty rather than a dangling dash")
	assert.Empty(t, rows[1].Location)
}

func TestParseEmptyDocuments(t *testing.T) {
	courses, err := parseCourseListings(strings.NewReader("<html></html>"))
	require.NoError(t, err)
	assert.Empty(t, courses)

	rows, err := parseSectionRows(strings.NewReader("<html></html>"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
