package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/testudo-plus/schedule-api/internal/constraint"
	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
)

const advisorCourseCap = 30

// AdvisorService backs the recommendation and campus-compass endpoints. Both
// are thin proxies: catalog and campus data in, generated prose out. Course
// matching itself is deterministic, so the endpoint still returns structured
// results when the collaborator is absent.
type AdvisorService struct {
	store     partitionResolver
	fetcher   sectionFetcher
	collab    explainer
	campus    *CampusService
	events    *EventService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

func NewAdvisorService(store partitionResolver, fetcher sectionFetcher, collab explainer, campus *CampusService, events *EventService, validate *validator.Validate, logger *zap.Logger) *AdvisorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisorService{
		store:     store,
		fetcher:   fetcher,
		collab:    collab,
		campus:    campus,
		events:    events,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Recommend matches catalog courses against the query and, when the
// collaborator is configured, asks it to phrase a recommendation.
func (s *AdvisorService) Recommend(ctx context.Context, req dto.AdvisorRequest) (*dto.AdvisorResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid advisor request")
	}

	termID := req.TermID
	if termID == "" {
		termID = CurrentTermAt(s.now())
	}

	cs := constraint.Extract(req.Query)
	courses, err := s.matchCourses(ctx, cs, termID)
	if err != nil {
		return nil, err
	}

	resp := &dto.AdvisorResponse{Courses: courses}
	if s.collab == nil || !s.collab.Available() || len(courses) == 0 {
		return resp, nil
	}

	text, err := s.collab.Generate(ctx, recommendPrompt(req.Query, courses))
	if err != nil {
		s.logger.Debug("recommendation generation failed", zap.Error(err))
		return resp, nil
	}
	resp.Recommendation = strings.TrimSpace(text)
	return resp, nil
}

// matchCourses resolves the partitions the query references and keeps one
// representative section per course code, capped.
func (s *AdvisorService) matchCourses(ctx context.Context, cs models.ConstraintSet, termID string) ([]models.CourseSection, error) {
	var ids []models.PartitionID
	for _, dept := range cs.Departments {
		ids = append(ids, models.PartitionID{Kind: models.PartitionDepartment, Key: dept, TermID: termID})
	}
	for _, code := range cs.GenEds {
		ids = append(ids, models.PartitionID{Kind: models.PartitionGenEd, Key: code, TermID: termID})
	}

	seen := make(map[string]bool)
	var courses []models.CourseSection
	for _, id := range ids {
		part, _, err := s.store.Resolve(ctx, id, s.fetcher.FetchPartition)
		if err != nil {
			return nil, err
		}
		for _, sec := range part.Sections {
			if seen[sec.Code] {
				continue
			}
			if cs.Level > 0 && sec.Level() != cs.Level {
				continue
			}
			seen[sec.Code] = true
			courses = append(courses, sec)
			if len(courses) >= advisorCourseCap {
				return courses, nil
			}
		}
	}
	return courses, nil
}

func recommendPrompt(query string, courses []models.CourseSection) string {
	var sb strings.Builder
	sb.WriteString("You are an academic advisor. Recommend up to five of these real courses for the student's request, with one sentence each.\n")
	fmt.Fprintf(&sb, "Request: %q\n\nCourses:\n", query)
	for _, c := range courses {
		fmt.Fprintf(&sb, "- %s %s (%d credits)", c.Code, c.Title, c.Credits)
		if c.CourseGPA != nil {
			fmt.Fprintf(&sb, ", avg GPA %.2f", *c.CourseGPA)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Ask answers a campus-logistics question over the static campus facts and
// the events feed. Requires the collaborator.
func (s *AdvisorService) Ask(ctx context.Context, req dto.CompassRequest) (*dto.CompassResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid compass request")
	}
	if s.collab == nil || !s.collab.Available() {
		return nil, appErrors.ErrAdvisorUnavailable
	}

	facts, err := json.Marshal(s.campus.Facts())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encoding campus facts")
	}

	var eventsJSON []byte
	if s.events != nil {
		if events, err := s.events.Upcoming(ctx); err == nil {
			if len(events) > 10 {
				events = events[:10]
			}
			eventsJSON, _ = json.Marshal(events)
		}
	}

	answer, err := s.collab.Generate(ctx, compassPrompt(req.Query, facts, eventsJSON))
	if err != nil {
		return nil, err
	}
	return &dto.CompassResponse{Answer: strings.TrimSpace(answer)}, nil
}

func compassPrompt(query string, facts, events []byte) string {
	var sb strings.Builder
	sb.WriteString("You are a campus assistant. Answer using only the provided data; quote exact walking times, and suggest a shuttle for walks of 12 minutes or more.\n")
	fmt.Fprintf(&sb, "Question: %q\n\nCampus data:\n%s\n", query, facts)
	if len(events) > 0 {
		fmt.Fprintf(&sb, "\nUpcoming events:\n%s\n", events)
	}
	return sb.String()
}
