package dto

import "github.com/testudo-plus/schedule-api/internal/models"

// Reason codes reported in BuildScheduleMeta when no schedules come back.
const (
	ReasonPartitionUnavailable    = "partition_unavailable"
	ReasonNoConstraintsRecognized = "no_constraints_recognized"
	ReasonUnsatisfiable           = "unsatisfiable"
)

// BuildScheduleRequest is the /schedule/build payload.
type BuildScheduleRequest struct {
	FreeText string `json:"freeText" validate:"required,min=2,max=1000"`
	TermID   string `json:"termId" validate:"omitempty,len=6,numeric"`
}

// BuildScheduleMeta carries the structure an explanation collaborator needs:
// what was understood, how hard the search worked, and how the data was served.
type BuildScheduleMeta struct {
	TermID               string               `json:"termId"`
	Constraints          models.ConstraintSet `json:"constraints"`
	ReasonCode           string               `json:"reasonCode,omitempty"`
	Stale                bool                 `json:"stale"`
	PartialSearch        bool                 `json:"partialSearch"`
	CandidatesConsidered int                  `json:"candidatesConsidered"`
	CandidatesFound      int                  `json:"candidatesFound"`
	Explanation          string               `json:"explanation,omitempty"`
}

// BuildScheduleResponse is the /schedule/build reply.
type BuildScheduleResponse struct {
	Schedules []models.ScheduleCandidate `json:"schedules"`
	Meta      BuildScheduleMeta          `json:"meta"`
}

// ExportScheduleRequest selects which built schedule to render as a calendar.
type ExportScheduleRequest struct {
	FreeText string `form:"freeText" validate:"required,min=2,max=1000"`
	TermID   string `form:"termId" validate:"omitempty,len=6,numeric"`
	Rank     int    `form:"rank" validate:"omitempty,min=1,max=10"`
}

// TermsResponse lists the selectable terms plus the current one.
type TermsResponse struct {
	Terms   []models.Term `json:"terms"`
	Current string        `json:"current"`
}
