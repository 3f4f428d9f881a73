package dto

import "github.com/testudo-plus/schedule-api/internal/models"

// AdvisorRequest asks for course recommendations in free text.
type AdvisorRequest struct {
	Query  string `json:"query" validate:"required,min=2,max=1000"`
	TermID string `json:"termId" validate:"omitempty,len=6,numeric"`
}

// AdvisorResponse pairs the matched courses with optional generated prose.
type AdvisorResponse struct {
	Courses        []models.CourseSection `json:"courses"`
	Recommendation string                 `json:"recommendation,omitempty"`
}

// CompassRequest asks a campus-logistics question.
type CompassRequest struct {
	Query string `json:"query" validate:"required,min=2,max=1000"`
}

// CompassResponse is the generated answer.
type CompassResponse struct {
	Answer string `json:"answer"`
}

// EventsResponse wraps the upcoming campus events feed.
type EventsResponse struct {
	Events []models.CampusEvent `json:"events"`
}
