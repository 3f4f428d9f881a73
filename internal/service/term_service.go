package service

import (
	"fmt"
	"time"

	"github.com/testudo-plus/schedule-api/internal/dto"
	"github.com/testudo-plus/schedule-api/internal/models"
)

// TermService answers which academic terms the catalog can be queried for.
// Pure date arithmetic, no collaborators.
type TermService struct {
	now func() time.Time
}

func NewTermService(now func() time.Time) *TermService {
	if now == nil {
		now = time.Now
	}
	return &TermService{now: now}
}

// Current returns the term id the calendar date falls into: Spring through
// May, Summer through July, Fall through November, then next year's Winter.
func (s *TermService) Current() string {
	return CurrentTermAt(s.now())
}

// CurrentTermAt is Current for an explicit instant.
func CurrentTermAt(t time.Time) string {
	year := t.Year()
	switch {
	case t.Month() <= time.May:
		return fmt.Sprintf("%d01", year)
	case t.Month() <= time.July:
		return fmt.Sprintf("%d05", year)
	case t.Month() <= time.November:
		return fmt.Sprintf("%d08", year)
	default:
		return fmt.Sprintf("%d12", year+1)
	}
}

// List returns the rolling-year term options plus the current term id.
func (s *TermService) List() dto.TermsResponse {
	year := s.now().Year()
	return dto.TermsResponse{
		Terms: []models.Term{
			{ID: fmt.Sprintf("%d05", year), Label: fmt.Sprintf("Summer %d", year)},
			{ID: fmt.Sprintf("%d08", year), Label: fmt.Sprintf("Fall %d", year)},
			{ID: fmt.Sprintf("%d12", year), Label: fmt.Sprintf("Winter %d", year+1)},
			{ID: fmt.Sprintf("%d01", year+1), Label: fmt.Sprintf("Spring %d", year+1)},
		},
		Current: s.Current(),
	}
}
