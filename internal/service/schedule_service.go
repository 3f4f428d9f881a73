package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/testudo-plus/schedule-api/internal/assembler"
	"github.com/testudo-plus/schedule-api/internal/cache"
	"github.com/testudo-plus/schedule-api/internal/constraint"
	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/internal/models"
	appErrors "github.com/testudo-plus/schedule-api/pkg/errors"
	"github.com/testudo-plus/schedule-api/pkg/export"
)

type partitionResolver interface {
	Resolve(ctx context.Context, id models.PartitionID, fetch cache.FetchFunc) (*models.CachePartition, cache.ResolveInfo, error)
}

type sectionFetcher interface {
	FetchPartition(ctx context.Context, id models.PartitionID) ([]models.CourseSection, error)
}

type scheduleAssembler interface {
	Pools(cs models.ConstraintSet, cat assembler.Catalog) []assembler.Pool
	Assemble(ctx context.Context, cs models.ConstraintSet, pools []assembler.Pool) assembler.Result
}

type explainer interface {
	Available() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

type assemblyRecorder interface {
	ObserveAssembly(d time.Duration, partial bool)
}

// ScheduleService orchestrates one build: extract constraints, resolve the
// referenced partitions through the cache, run the assembler, and shape the
// response metadata an explanation collaborator can phrase.
type ScheduleService struct {
	store     partitionResolver
	fetcher   sectionFetcher
	asm       scheduleAssembler
	explain   explainer
	metrics   assemblyRecorder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// ScheduleServiceDeps bundles the collaborators; explain and metrics are optional.
type ScheduleServiceDeps struct {
	Store     partitionResolver
	Fetcher   sectionFetcher
	Assembler scheduleAssembler
	Explainer explainer
	Metrics   assemblyRecorder
	Validator *validator.Validate
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewScheduleService(deps ScheduleServiceDeps) *ScheduleService {
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &ScheduleService{
		store:     deps.Store,
		fetcher:   deps.Fetcher,
		asm:       deps.Assembler,
		explain:   deps.Explainer,
		metrics:   deps.Metrics,
		validator: deps.Validator,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// Build runs the full pipeline. Recognizing nothing, failing to fetch a
// partition, and finding no conflict-free combination are all normal outcomes
// reported through meta.reasonCode, not errors.
func (s *ScheduleService) Build(ctx context.Context, req dto.BuildScheduleRequest) (*dto.BuildScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule request")
	}

	termID := req.TermID
	if termID == "" {
		termID = CurrentTermAt(s.now())
	}

	cs := constraint.Extract(req.FreeText)
	resp := &dto.BuildScheduleResponse{
		Schedules: []models.ScheduleCandidate{},
		Meta:      dto.BuildScheduleMeta{TermID: termID, Constraints: cs},
	}

	if cs.Empty() {
		resp.Meta.ReasonCode = dto.ReasonNoConstraintsRecognized
		return resp, nil
	}

	cat, stale, err := s.resolveCatalog(ctx, cs, termID)
	if err != nil {
		s.logger.Warn("partition resolve failed", zap.String("term", termID), zap.Error(err))
		resp.Meta.ReasonCode = dto.ReasonPartitionUnavailable
		return resp, nil
	}
	resp.Meta.Stale = stale

	pools := s.asm.Pools(cs, cat)
	started := s.now()
	result := s.asm.Assemble(ctx, cs, pools)
	if s.metrics != nil {
		s.metrics.ObserveAssembly(s.now().Sub(started), result.PartialSearch)
	}

	resp.Schedules = result.Candidates
	resp.Meta.PartialSearch = result.PartialSearch
	resp.Meta.CandidatesConsidered = result.NodesVisited
	resp.Meta.CandidatesFound = result.Found
	if len(result.Candidates) == 0 {
		resp.Meta.ReasonCode = dto.ReasonUnsatisfiable
	}

	s.explainInto(ctx, resp)
	return resp, nil
}

// resolveCatalog resolves every partition the constraint set references.
// Specific courses resolve through their department's partition.
func (s *ScheduleService) resolveCatalog(ctx context.Context, cs models.ConstraintSet, termID string) (assembler.Catalog, bool, error) {
	cat := assembler.Catalog{
		Departments: make(map[string][]models.CourseSection),
		GenEds:      make(map[string][]models.CourseSection),
	}

	depts := append([]string(nil), cs.Departments...)
	for _, code := range cs.Courses {
		depts = append(depts, models.DepartmentOf(models.NormalizeCourseCode(code)))
	}

	stale := false
	for _, dept := range depts {
		if _, done := cat.Departments[dept]; done {
			continue
		}
		id := models.PartitionID{Kind: models.PartitionDepartment, Key: dept, TermID: termID}
		part, info, err := s.store.Resolve(ctx, id, s.fetcher.FetchPartition)
		if err != nil {
			return cat, false, err
		}
		cat.Departments[dept] = part.Sections
		stale = stale || info.Stale
	}

	for _, code := range cs.GenEds {
		if _, done := cat.GenEds[code]; done {
			continue
		}
		id := models.PartitionID{Kind: models.PartitionGenEd, Key: code, TermID: termID}
		part, info, err := s.store.Resolve(ctx, id, s.fetcher.FetchPartition)
		if err != nil {
			return cat, false, err
		}
		cat.GenEds[code] = part.Sections
		stale = stale || info.Stale
	}

	return cat, stale, nil
}

// explainInto asks the collaborator to phrase the outcome. Best effort: any
// failure leaves the explanation empty.
func (s *ScheduleService) explainInto(ctx context.Context, resp *dto.BuildScheduleResponse) {
	if s.explain == nil || !s.explain.Available() {
		return
	}
	text, err := s.explain.Generate(ctx, explanationPrompt(resp))
	if err != nil {
		s.logger.Debug("explanation generation failed", zap.Error(err))
		return
	}
	resp.Meta.Explanation = strings.TrimSpace(text)
}

func explanationPrompt(resp *dto.BuildScheduleResponse) string {
	var sb strings.Builder
	sb.WriteString("You are a course-scheduling assistant. In two sentences, explain this result to a student.\n")
	fmt.Fprintf(&sb, "Requested departments: %v, gen-eds: %v, specific courses: %v.\n",
		resp.Meta.Constraints.Departments, resp.Meta.Constraints.GenEds, resp.Meta.Constraints.Courses)
	fmt.Fprintf(&sb, "Search visited %d states and found %d conflict-free schedules; %d are returned.\n",
		resp.Meta.CandidatesConsidered, resp.Meta.CandidatesFound, len(resp.Schedules))
	if resp.Meta.ReasonCode != "" {
		fmt.Fprintf(&sb, "Outcome code: %s.\n", resp.Meta.ReasonCode)
	}
	if resp.Meta.PartialSearch {
		sb.WriteString("The search stopped early at its exploration budget.\n")
	}
	if resp.Meta.Stale {
		sb.WriteString("Catalog data is from an expired cache entry because the live source was unreachable.\n")
	}
	return sb.String()
}

// Export renders one built schedule as an iCalendar document.
func (s *ScheduleService) Export(ctx context.Context, req dto.ExportScheduleRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	resp, err := s.Build(ctx, dto.BuildScheduleRequest{FreeText: req.FreeText, TermID: req.TermID})
	if err != nil {
		return "", err
	}
	if len(resp.Schedules) == 0 {
		return "", appErrors.Clone(appErrors.ErrNotFound, "no schedule found to export")
	}

	rank := req.Rank
	if rank <= 0 {
		rank = 1
	}
	if rank > len(resp.Schedules) {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rank %d exceeds the %d schedules found", rank, len(resp.Schedules)))
	}
	chosen := resp.Schedules[rank-1]

	var events []export.ScheduleEvent
	for _, sec := range chosen.Sections {
		for i, m := range assembler.Meetings(sec) {
			events = append(events, export.ScheduleEvent{
				UID:         fmt.Sprintf("%s-%s-%d@testudo-plus", sec.Code, sec.Section, i),
				Summary:     fmt.Sprintf("%s %s", sec.Code, sec.Title),
				Location:    sec.Location,
				Description: fmt.Sprintf("Section %s with %s", sec.Section, sec.Instructor),
				Day:         m.Day.Time(),
				StartMinute: m.Start,
				EndMinute:   m.End,
			})
		}
	}

	name := fmt.Sprintf("Schedule %s", resp.Meta.TermID)
	return export.ICS(name, events, s.now())
}
