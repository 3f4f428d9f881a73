package models

// DiningHall describes one dining location and its walking distances.
type DiningHall struct {
	Name      string            `json:"name"`
	Hours     string            `json:"hours"`
	Location  string            `json:"location"`
	WalkTimes map[string]string `json:"walkTimes"`
	Options   []string          `json:"options"`
	Note      string            `json:"note,omitempty"`
}

// ShuttleRoute describes one campus shuttle line.
type ShuttleRoute struct {
	Route     string   `json:"route"`
	Stops     []string `json:"stops"`
	Frequency string   `json:"frequency"`
	Hours     string   `json:"hours"`
	UseFor    string   `json:"useFor"`
}

// CampusFacts is the static campus reference set served to the compass
// collaborator. No network access involved.
type CampusFacts struct {
	Dining       []DiningHall      `json:"dining"`
	Shuttles     []ShuttleRoute    `json:"shuttles"`
	WalkingTimes map[string]string `json:"walkingTimes"`
}
