package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RatingsClient queries the PlanetTerp API for instructor ratings and course
// GPAs. Every lookup is best-effort: a miss, a timeout, or a malformed reply
// yields a nil figure, never an error.
type RatingsClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewRatingsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *RatingsClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RatingsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ProfessorRating looks up the average rating for an instructor. Placeholder
// names ("TBA", "Staff") are never queried.
func (r *RatingsClient) ProfessorRating(ctx context.Context, name string) *float64 {
	trimmed := strings.TrimSpace(name)
	upper := strings.ToUpper(trimmed)
	if trimmed == "" || upper == "TBA" || upper == "STAFF" {
		return nil
	}

	var payload struct {
		AverageRating *float64 `json:"average_rating"`
	}
	if !r.getJSON(ctx, "/professor", trimmed, &payload) {
		return nil
	}
	return payload.AverageRating
}

// CourseGPA looks up the average GPA for a course code.
func (r *RatingsClient) CourseGPA(ctx context.Context, code string) *float64 {
	if strings.TrimSpace(code) == "" {
		return nil
	}

	var payload struct {
		AverageGPA *float64 `json:"average_gpa"`
	}
	if !r.getJSON(ctx, "/course", code, &payload) {
		return nil
	}
	return payload.AverageGPA
}

func (r *RatingsClient) getJSON(ctx context.Context, path, name string, out interface{}) bool {
	u := r.baseURL + path + "?name=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	resp, err := r.http.Do(req)
	if err != nil {
		r.logger.Debug("ratings lookup failed", zap.String("name", name), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		r.logger.Debug("ratings decode failed", zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}
