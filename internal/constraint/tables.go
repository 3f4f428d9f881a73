package constraint

import "github.com/testudo-plus/schedule-api/internal/models"

// The extractor is table-driven: every recognized phrase lives in one of the
// lookup tables below so the rule set can be tested as data, independently of
// the matching control flow.

// GenEdCodes maps each general-education code to its catalog label.
var GenEdCodes = map[string]string{
	"FSAW": "Academic Writing",
	"FSAR": "Analytic Reasoning",
	"FSMA": "Math",
	"FSOC": "Oral Communications",
	"FSPW": "Professional Writing",
	"DSHS": "History and Social Sciences",
	"DSHU": "Humanities",
	"DSNS": "Natural Sciences",
	"DSNL": "Natural Science Lab",
	"DSSP": "Scholarship in Practice",
	"DVCC": "Cultural Competency",
	"DVUP": "Understanding Plural Societies",
	"SCIS": "Signature Courses - Big Question",
}

// DepartmentCodes is the set of department prefixes the extractor recognizes
// as whole words.
var DepartmentCodes = map[string]bool{
	"AASP": true, "AMST": true, "ANTH": true, "AOSC": true, "ARAB": true,
	"AREC": true, "ARTH": true, "ARTT": true, "ASTR": true, "BCHM": true,
	"BMGT": true, "BSCI": true, "CCJS": true, "CHEM": true, "CHIN": true,
	"CLAS": true, "CMSC": true, "ECON": true, "ENAE": true, "ENCE": true,
	"ENEE": true, "ENGL": true, "ENME": true, "FREN": true, "GEOG": true,
	"GEOL": true, "GERM": true, "GVPT": true, "HESP": true, "HIST": true,
	"INST": true, "ITAL": true, "JAPN": true, "JOUR": true, "KNES": true,
	"KORA": true, "LING": true, "MATH": true, "MUSC": true, "NFSC": true,
	"PHIL": true, "PHYS": true, "PLCY": true, "PSYC": true, "SOCY": true,
	"SPAN": true, "STAT": true, "THET": true,
}

// genEdSynonyms maps lowercase phrases to gen-ed codes. Multi-word phrases
// win over any single word they contain.
var genEdSynonyms = map[string]string{
	"fsaw": "FSAW", "fsar": "FSAR", "fsma": "FSMA", "fsoc": "FSOC",
	"fspw": "FSPW", "dshs": "DSHS", "dshu": "DSHU", "dsns": "DSNS",
	"dsnl": "DSNL", "dssp": "DSSP", "dvcc": "DVCC", "dvup": "DVUP",
	"scis": "SCIS",

	"academic writing":                "FSAW",
	"analytic reasoning":              "FSAR",
	"analytical reasoning":            "FSAR",
	"math requirement":                "FSMA",
	"math gen ed":                     "FSMA",
	"oral communication":              "FSOC",
	"oral communications":             "FSOC",
	"comm":                            "FSOC",
	"public speaking":                 "FSOC",
	"professional writing":            "FSPW",
	"history and social sciences":     "DSHS",
	"social sciences":                 "DSHS",
	"humanities":                      "DSHU",
	"natural sciences":                "DSNS",
	"natural science":                 "DSNS",
	"natural science lab":             "DSNL",
	"science lab":                     "DSNL",
	"scholarship in practice":         "DSSP",
	"cultural competency":             "DVCC",
	"cultural competence":             "DVCC",
	"diversity":                       "DVUP",
	"understanding plural societies":  "DVUP",
	"plural societies":                "DVUP",
	"signature course":                "SCIS",
	"big question":                    "SCIS",
}

// departmentSynonyms maps colloquial subject names to department codes.
var departmentSynonyms = map[string]string{
	"computer science": "CMSC",
	"cs":               "CMSC",
	"math":             "MATH",
	"mathematics":      "MATH",
	"english":          "ENGL",
	"history":          "HIST",
	"physics":          "PHYS",
	"chemistry":        "CHEM",
	"biology":          "BSCI",
	"economics":        "ECON",
	"psychology":       "PSYC",
	"philosophy":       "PHIL",
	"statistics":       "STAT",
	"business":         "BMGT",
	"journalism":       "JOUR",
	"government":       "GVPT",
	"politics":         "GVPT",
	"sociology":        "SOCY",
	"anthropology":     "ANTH",
	"astronomy":        "ASTR",
	"kinesiology":      "KNES",
	"linguistics":      "LING",
}

const (
	noonMinute    = 12 * 60
	eveningMinute = 17 * 60
	midMorning    = 10 * 60
)

// timeRules map day/time-of-day phrases onto window edits.
var timeRules = map[string]func(*models.ConstraintSet){
	"mornings":           func(c *models.ConstraintSet) { c.LatestEnd = noonMinute },
	"morning classes":    func(c *models.ConstraintSet) { c.LatestEnd = noonMinute },
	"in the morning":     func(c *models.ConstraintSet) { c.LatestEnd = noonMinute },
	"afternoons":         func(c *models.ConstraintSet) { c.EarliestStart = noonMinute },
	"afternoon classes":  func(c *models.ConstraintSet) { c.EarliestStart = noonMinute },
	"evenings":           func(c *models.ConstraintSet) { c.EarliestStart = eveningMinute },
	"evening classes":    func(c *models.ConstraintSet) { c.EarliestStart = eveningMinute },
	"no early classes":   func(c *models.ConstraintSet) { c.EarliestStart = midMorning },
	"nothing too early":  func(c *models.ConstraintSet) { c.EarliestStart = midMorning },
	"no 8am":             func(c *models.ConstraintSet) { c.EarliestStart = 9 * 60 },
	"no 8ams":            func(c *models.ConstraintSet) { c.EarliestStart = 9 * 60 },
	"minimize gaps":      func(c *models.ConstraintSet) { c.Preference = models.PreferCompact },
	"compact schedule":   func(c *models.ConstraintSet) { c.Preference = models.PreferCompact },
	"back to back":       func(c *models.ConstraintSet) { c.Preference = models.PreferCompact },
	"spread out":         func(c *models.ConstraintSet) { c.Preference = models.PreferSpread },
	"best professors":    func(c *models.ConstraintSet) { c.Preference = models.PreferBestRating },
	"good professors":    func(c *models.ConstraintSet) { c.Preference = models.PreferBestRating },
	"highly rated":       func(c *models.ConstraintSet) { c.Preference = models.PreferBestRating },
}

// weekdayNames maps spelled-out day names to their catalog letters.
var weekdayNames = map[string]models.Weekday{
	"monday":     models.Monday,
	"mondays":    models.Monday,
	"tuesday":    models.Tuesday,
	"tuesdays":   models.Tuesday,
	"wednesday":  models.Wednesday,
	"wednesdays": models.Wednesday,
	"thursday":   models.Thursday,
	"thursdays":  models.Thursday,
	"friday":     models.Friday,
	"fridays":    models.Friday,
	"saturday":   models.Saturday,
	"saturdays":  models.Saturday,
	"sunday":     models.Sunday,
	"sundays":    models.Sunday,
}

// dayExclusionLeads are the words that, preceding a day name, rule the day
// out ("avoid fridays", "no classes on friday", "not on mondays").
var dayExclusionLeads = map[string]bool{
	"avoid":   true,
	"no":      true,
	"not":     true,
	"without": true,
	"skip":    true,
	"except":  true,
	"free":    true,
	"off":     true,
}

// exclusionVerbs mark course codes the requester has already completed.
var exclusionVerbs = map[string]bool{
	"took":      true,
	"taken":     true,
	"completed": true,
	"finished":  true,
	"passed":    true,
}
