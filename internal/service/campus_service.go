package service

import "github.com/testudo-plus/schedule-api/internal/models"

// CampusService serves the static campus reference set. The data is compiled
// in; it changes rarely enough that a redeploy is the update path.
type CampusService struct {
	facts models.CampusFacts
}

func NewCampusService() *CampusService {
	return &CampusService{facts: campusFacts}
}

func (s *CampusService) Facts() models.CampusFacts {
	return s.facts
}

var campusFacts = models.CampusFacts{
	Dining: []models.DiningHall{
		{
			Name:     "251 North Dining Hall",
			Hours:    "Mon-Fri: 7am-9pm, Sat-Sun: 10am-8pm",
			Location: "North campus",
			WalkTimes: map[string]string{
				"McKeldin": "12 min", "Stamp": "10 min", "Iribe": "20 min",
				"Cole Field House": "3 min", "Cambridge": "10 min", "Ellicott": "5 min",
			},
			Options: []string{"vegetarian", "vegan", "halal", "all-you-can-eat"},
		},
		{
			Name:     "South Campus Dining Hall",
			Hours:    "Mon-Fri: 7am-8pm, Sat-Sun: 10am-7pm",
			Location: "South campus, near South Campus Commons",
			WalkTimes: map[string]string{
				"Ellicott": "20 min", "Eppley": "25 min", "Stamp": "12 min",
				"McKeldin": "5 min", "Cambridge": "20 min", "Yahentamitsi": "18 min",
			},
			Options: []string{"vegetarian", "vegan", "all-you-can-eat"},
			Note:    "On the opposite side of campus from Cambridge Community",
		},
		{
			Name:     "Yahentamitsi Dining Hall",
			Hours:    "Mon-Fri: 7am-9pm, Sat-Sun: 10am-8pm",
			Location: "North campus, near Cambridge Community",
			WalkTimes: map[string]string{
				"Cambridge": "2 min", "Oakland": "7 min", "Cumberland": "3 min",
				"McKeldin": "10 min", "South Campus Dining": "25 min", "Ellicott": "22 min",
			},
			Options: []string{"vegetarian", "vegan", "kosher", "all-you-can-eat"},
		},
		{
			Name:     "The Diner",
			Hours:    "Mon-Fri: 7am-midnight, Sat-Sun: 10am-midnight",
			Location: "Inside Stamp Student Union, center campus",
			WalkTimes: map[string]string{
				"Stamp": "0 min", "McKeldin": "5 min", "Hornbake": "6 min",
				"Ellicott": "12 min", "Cambridge": "12 min",
			},
			Options: []string{"vegetarian", "late night", "grab-and-go"},
		},
	},
	Shuttles: []models.ShuttleRoute{
		{
			Route:     "104 (Campus Connector)",
			Stops:     []string{"Iribe Center", "Stamp Student Union", "Eppley Rec Center", "Cole Field House"},
			Frequency: "Every 15 min",
			Hours:     "7am-7pm Mon-Fri",
			UseFor:    "Quick trips between north and south campus",
		},
		{
			Route:     "111 (Blue)",
			Stops:     []string{"McKeldin Library", "Kim Engineering", "Eppley", "Regents Drive Garage"},
			Frequency: "Every 10 min",
			Hours:     "7am-11pm Mon-Fri",
			UseFor:    "Getting to south campus from center",
		},
		{
			Route:     "115 (Orange)",
			Stops:     []string{"Stamp", "College Park Metro", "The View Apartments"},
			Frequency: "Every 20 min",
			Hours:     "7am-11pm daily",
			UseFor:    "Off-campus trips and metro access",
		},
	},
	WalkingTimes: map[string]string{
		"Cambridge to Yahentamitsi":        "2 min",
		"Cambridge to South Campus Dining": "20 min",
		"Cambridge to Ellicott":            "22 min",
		"Ellicott to South Campus Dining":  "3 min",
		"McKeldin to Stamp":                "5 min",
		"Stamp to Eppley":                  "15 min",
	},
}
