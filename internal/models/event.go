package models

import "time"

// CampusEvent is one entry from the campus events feed.
type CampusEvent struct {
	Title       string    `json:"title"`
	StartsAt    time.Time `json:"startsAt"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
}
