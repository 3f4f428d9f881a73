package catalog

import (
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// courseListing is one course entry on a schedule-of-classes listing page.
type courseListing struct {
	Code        string
	Title       string
	Description string
	Credits     int
	GenEds      []string
}

// sectionRow is one section row on a course detail page.
type sectionRow struct {
	ID         string
	Instructor string
	Days       string
	Time       string
	Location   string
	OpenSeats  int
	TotalSeats int
}

const maxDescriptionLen = 500

// parseCourseListings extracts the course entries from a department or gen-ed
// listing page. Entries without a course id are skipped.
func parseCourseListings(r io.Reader) ([]courseListing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var courses []courseListing
	doc.Find("div.course").Each(func(_ int, sel *goquery.Selection) {
		code := text(sel.Find("div.course-id").First())
		if code == "" {
			return
		}

		credits := 3
		if raw := text(sel.Find("span.course-min-credits").First()); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				credits = n
			}
		}

		var genEds []string
		sel.Find("span.course-subcategory a").Each(func(_ int, link *goquery.Selection) {
			genEds = append(genEds, text(link))
		})

		var descParts []string
		sel.Find("div.approved-course-text").Each(func(_ int, d *goquery.Selection) {
			if t := text(d); t != "" {
				descParts = append(descParts, t)
			}
		})
		desc := strings.Join(descParts, " ")
		if len(desc) > maxDescriptionLen {
			desc = desc[:maxDescriptionLen]
		}

		courses = append(courses, courseListing{
			Code:        code,
			Title:       text(sel.Find("span.course-title").First()),
			Description: desc,
			Credits:     credits,
			GenEds:      genEds,
		})
	})
	return courses, nil
}

// parseSectionRows extracts the section rows from a course detail page.
func parseSectionRows(r io.Reader) ([]sectionRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var rows []sectionRow
	doc.Find("div.section").Each(func(_ int, sel *goquery.Selection) {
		row := sectionRow{
			ID:         text(sel.Find("span.section-id").First()),
			Instructor: text(sel.Find("span.section-instructor").First()),
			Days:       text(sel.Find("span.section-days").First()),
			OpenSeats:  atoi(text(sel.Find("span.open-seats-count").First())),
			TotalSeats: atoi(text(sel.Find("span.total-seats-count").First())),
		}
		if row.Instructor == "" {
			row.Instructor = "TBA"
		}

		start := text(sel.Find("span.class-start-time").First())
		end := text(sel.Find("span.class-end-time").First())
		if start != "" && end != "" {
			row.Time = start + "-" + end
		}

		building := text(sel.Find("span.building-code").First())
		room := text(sel.Find("span.class-room").First())
		row.Location = strings.TrimSpace(building + " " + room)

		rows = append(rows, row)
	})
	return rows, nil
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
