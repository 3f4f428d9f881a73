package constraint

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/testudo-plus/schedule-api/internal/models"
)

var (
	courseCodeRe = regexp.MustCompile(`^([a-z]{4})([0-9]{3}[a-z]?)$`)
	creditsRe    = regexp.MustCompile(`\b(at least|up to)?\s*([0-9]{1,2})\s*credits?\b`)
	levelRe      = regexp.MustCompile(`\b([1-4])00[- ]?level\b`)
	wordRe       = regexp.MustCompile(`[a-z0-9]+`)
)

type phraseRule struct {
	words []string
	apply func(*models.ConstraintSet)
}

// phraseRules is assembled from the lookup tables once, ordered longest
// phrase first so a three-word synonym always beats a one-word substring it
// contains.
var phraseRules = buildPhraseRules()

func buildPhraseRules() []phraseRule {
	var rules []phraseRule

	for phrase, code := range genEdSynonyms {
		code := code
		rules = append(rules, phraseRule{
			words: strings.Fields(phrase),
			apply: func(c *models.ConstraintSet) { c.GenEds = appendUnique(c.GenEds, code) },
		})
	}
	for phrase, dept := range departmentSynonyms {
		dept := dept
		rules = append(rules, phraseRule{
			words: strings.Fields(phrase),
			apply: func(c *models.ConstraintSet) { c.Departments = appendUnique(c.Departments, dept) },
		})
	}
	for phrase, apply := range timeRules {
		rules = append(rules, phraseRule{words: strings.Fields(phrase), apply: apply})
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if len(rules[i].words) != len(rules[j].words) {
			return len(rules[i].words) > len(rules[j].words)
		}
		return strings.Join(rules[i].words, " ") < strings.Join(rules[j].words, " ")
	})
	return rules
}

// Extract maps free text onto a structured constraint set using the lookup
// tables. Matching is case-insensitive, whole-word, longest-phrase-wins.
// Extraction never fails; text with no recognized phrase yields an empty set.
func Extract(freeText string) models.ConstraintSet {
	cs := models.NewConstraintSet()
	text := strings.ToLower(freeText)

	tokens := wordRe.FindAllString(text, -1)
	consumed := make([]bool, len(tokens))

	extractCourses(tokens, consumed, &cs)
	matchPhrases(tokens, consumed, &cs)
	extractDayExclusions(tokens, consumed, &cs)
	extractDepartmentCodes(tokens, consumed, &cs)
	extractCredits(text, &cs)
	extractLevel(text, &cs)

	return cs
}

// extractCourses recognizes DEPT### tokens. A completion verb in the three
// preceding words ("already took CMSC216") marks the course excluded rather
// than requested.
func extractCourses(tokens []string, consumed []bool, cs *models.ConstraintSet) {
	for i, tok := range tokens {
		m := courseCodeRe.FindStringSubmatch(tok)
		if m == nil || !DepartmentCodes[strings.ToUpper(m[1])] {
			continue
		}
		code := strings.ToUpper(tok)
		consumed[i] = true

		excluded := false
		for back := i - 1; back >= 0 && back >= i-3; back-- {
			if exclusionVerbs[tokens[back]] {
				excluded = true
				break
			}
		}
		if excluded {
			cs.ExcludedCourses = appendUnique(cs.ExcludedCourses, code)
		} else {
			cs.Courses = appendUnique(cs.Courses, code)
		}
	}
}

func matchPhrases(tokens []string, consumed []bool, cs *models.ConstraintSet) {
	for _, rule := range phraseRules {
		n := len(rule.words)
	scan:
		for i := 0; i+n <= len(tokens); i++ {
			for j := 0; j < n; j++ {
				if consumed[i+j] || tokens[i+j] != rule.words[j] {
					continue scan
				}
			}
			for j := 0; j < n; j++ {
				consumed[i+j] = true
			}
			rule.apply(cs)
		}
	}
}

func extractDayExclusions(tokens []string, consumed []bool, cs *models.ConstraintSet) {
	for i, tok := range tokens {
		day, ok := weekdayNames[tok]
		if !ok || consumed[i] {
			continue
		}
		lead := false
		for back := i - 1; back >= 0 && back >= i-3; back-- {
			if dayExclusionLeads[tokens[back]] {
				lead = true
				break
			}
		}
		// "fridays off" / "fridays free"
		if !lead && i+1 < len(tokens) && (tokens[i+1] == "off" || tokens[i+1] == "free") {
			lead = true
		}
		// "no classes on monday or friday": the exclusion carries across a
		// conjunction from a day already ruled out.
		if !lead && i >= 2 && (tokens[i-1] == "or" || tokens[i-1] == "and") {
			if prev, ok := weekdayNames[tokens[i-2]]; ok && cs.ExcludesDay(prev) {
				lead = true
			}
		}
		if !lead {
			continue
		}
		consumed[i] = true
		if !cs.ExcludesDay(day) {
			cs.DayExclusions = append(cs.DayExclusions, day)
		}
	}
}

func extractDepartmentCodes(tokens []string, consumed []bool, cs *models.ConstraintSet) {
	for i, tok := range tokens {
		if consumed[i] {
			continue
		}
		code := strings.ToUpper(tok)
		if DepartmentCodes[code] {
			consumed[i] = true
			cs.Departments = appendUnique(cs.Departments, code)
		}
	}
}

func extractCredits(text string, cs *models.ConstraintSet) {
	m := creditsRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n <= 0 {
		return
	}
	switch m[1] {
	case "at least":
		cs.MinCredits = n
	case "up to":
		cs.MaxCredits = n
	default:
		cs.MinCredits = n
		cs.MaxCredits = n
	}
}

func extractLevel(text string, cs *models.ConstraintSet) {
	m := levelRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if lvl, err := strconv.Atoi(m[1]); err == nil {
		cs.Level = lvl
	}
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
