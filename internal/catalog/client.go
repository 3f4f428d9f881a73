package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/testudo-plus/schedule-api/internal/models"
	"github.com/testudo-plus/schedule-api/pkg/config"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

// Client fetches section lists from the schedule-of-classes site. One
// FetchPartition call covers a whole partition: the listing page plus every
// course's detail page, optionally enriched with ratings.
type Client struct {
	baseURL     string
	maxSections int
	http        *http.Client
	ratings     *RatingsClient
	logger      *zap.Logger
}

func NewClient(cfg config.CatalogConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:     strings.TrimRight(cfg.SOCBaseURL, "/"),
		maxSections: cfg.MaxSectionsPerDoc,
		http:        &http.Client{Timeout: timeout},
		logger:      logger,
	}
	if cfg.EnrichRatings {
		c.ratings = NewRatingsClient(cfg.RatingsBaseURL, timeout, logger)
	}
	return c
}

// FetchPartition downloads all sections for one partition identity. A failed
// listing fetch is a hard error; a failed course detail fetch only drops that
// course, matching upstream flakiness to a smaller partition rather than none.
func (c *Client) FetchPartition(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error) {
	listURL := c.listingURL(id)
	courses, err := c.fetchListings(ctx, listURL)
	if err != nil {
		return nil, appErrors.Wrap(err,
			appErrors.ErrPartitionUnavailable.Code,
			appErrors.ErrPartitionUnavailable.Status,
			"fetching listing "+id.String())
	}

	var out []models.CourseSection
	for _, course := range courses {
		rows, err := c.fetchSections(ctx, course.Code, id.TermID)
		if err != nil {
			c.logger.Warn("skipping course after failed section fetch",
				zap.String("course", course.Code), zap.Error(err))
			continue
		}
		for _, row := range rows {
			out = append(out, models.CourseSection{
				Code:        course.Code,
				Section:     row.ID,
				Title:       course.Title,
				Description: course.Description,
				Credits:     course.Credits,
				Instructor:  row.Instructor,
				OpenSeats:   row.OpenSeats,
				TotalSeats:  row.TotalSeats,
				Location:    row.Location,
				Days:        row.Days,
				Time:        row.Time,
				GenEdCodes:  course.GenEds,
				TermID:      id.TermID,
			})
			if c.maxSections > 0 && len(out) >= c.maxSections {
				c.logger.Info("partition truncated at section cap",
					zap.String("partition", id.String()), zap.Int("cap", c.maxSections))
				c.enrich(ctx, out)
				return out, nil
			}
		}
	}

	c.enrich(ctx, out)
	return out, nil
}

func (c *Client) listingURL(id models.PartitionID) string {
	if id.Kind == models.PartitionGenEd {
		return fmt.Sprintf("%s/soc/gen-ed/%s/%s", c.baseURL, id.TermID, strings.ToUpper(id.Key))
	}
	return fmt.Sprintf("%s/soc/%s/%s", c.baseURL, id.TermID, strings.ToUpper(id.Key))
}

func (c *Client) fetchListings(ctx context.Context, url string) ([]courseListing, error) {
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseCourseListings(resp.Body)
}

func (c *Client) fetchSections(ctx context.Context, code, termID string) ([]sectionRow, error) {
	url := fmt.Sprintf("%s/soc/%s/%s/%s", c.baseURL, termID, models.DepartmentOf(code), code)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseSectionRows(resp.Body)
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return resp, nil
}

// enrich attaches instructor ratings and course GPAs. Lookups are memoized
// per call; every failure degrades to a missing figure, never to an error.
func (c *Client) enrich(ctx context.Context, sections []models.CourseSection) {
	if c.ratings == nil || len(sections) == 0 {
		return
	}
	ratingByInstructor := make(map[string]*float64)
	gpaByCourse := make(map[string]*float64)

	for i := range sections {
		sec := &sections[i]

		rating, ok := ratingByInstructor[sec.Instructor]
		if !ok {
			rating = c.ratings.ProfessorRating(ctx, sec.Instructor)
			ratingByInstructor[sec.Instructor] = rating
		}
		sec.InstructorRating = rating

		gpa, ok := gpaByCourse[sec.Code]
		if !ok {
			gpa = c.ratings.CourseGPA(ctx, sec.Code)
			gpaByCourse[sec.Code] = gpa
		}
		sec.CourseGPA = gpa
	}
}
