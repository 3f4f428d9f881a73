package assembler

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/testudo-plus/schedule-api/internal/models"
)

// Config tunes the search. Weights are exposed rather than hard-coded so the
// ranking can be adjusted per deployment.
type Config struct {
	TopK          int
	NodeBudget    int
	WeightRating  float64
	WeightGPA     float64
	WeightCompact float64
}

// Pool is the candidate section list for one requirement slot, filtered and
// ordered before the search starts.
type Pool struct {
	Slot     string
	Sections []models.CourseSection
}

// Catalog is the immutable section snapshot the search reads: resolved
// partition contents keyed by department and gen-ed code.
type Catalog struct {
	Departments map[string][]models.CourseSection
	GenEds      map[string][]models.CourseSection
}

// Result is the outcome of one assembly run.
type Result struct {
	Candidates    []models.ScheduleCandidate
	Found         int
	NodesVisited  int
	PartialSearch bool
}

// Assembler turns constraint sets and cached sections into ranked
// conflict-free schedules. Stateless between calls; safe for concurrent use.
type Assembler struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Assembler {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.NodeBudget <= 0 {
		cfg.NodeBudget = 10000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{cfg: cfg, logger: logger}
}

// Pools builds one candidate pool per requirement slot: specific courses
// first, then departments, then gen-eds. Sections are dropped when they have
// no open seats, belong to an excluded course, meet on an excluded day, fall
// outside the requested time window, or (for department and gen-ed slots)
// miss the requested level. Each pool is ordered by desirability: rating
// descending, GPA descending, open seats descending, then code and section
// ascending.
func (a *Assembler) Pools(cs models.ConstraintSet, cat Catalog) []Pool {
	courseSlots := make(map[string]bool, len(cs.Courses))
	for _, code := range cs.Courses {
		courseSlots[models.NormalizeCourseCode(code)] = true
	}

	var pools []Pool
	for _, code := range cs.Courses {
		code = models.NormalizeCourseCode(code)
		var pool []models.CourseSection
		for _, sec := range cat.Departments[models.DepartmentOf(code)] {
			if sec.Code == code && a.admissible(sec, cs, false) {
				pool = append(pool, sec)
			}
		}
		pools = append(pools, Pool{Slot: "course:" + code, Sections: orderPool(pool)})
	}
	for _, dept := range cs.Departments {
		var pool []models.CourseSection
		for _, sec := range cat.Departments[dept] {
			if !courseSlots[sec.Code] && a.admissible(sec, cs, true) {
				pool = append(pool, sec)
			}
		}
		pools = append(pools, Pool{Slot: "dept:" + dept, Sections: orderPool(pool)})
	}
	for _, code := range cs.GenEds {
		var pool []models.CourseSection
		for _, sec := range cat.GenEds[code] {
			if !courseSlots[sec.Code] && a.admissible(sec, cs, true) {
				pool = append(pool, sec)
			}
		}
		pools = append(pools, Pool{Slot: "gened:" + code, Sections: orderPool(pool)})
	}
	return pools
}

func (a *Assembler) admissible(sec models.CourseSection, cs models.ConstraintSet, applyLevel bool) bool {
	if sec.OpenSeats <= 0 {
		return false
	}
	for _, code := range cs.ExcludedCourses {
		if sec.Code == models.NormalizeCourseCode(code) {
			return false
		}
	}
	if applyLevel && cs.Level > 0 && sec.Level() != cs.Level {
		return false
	}
	for _, m := range Meetings(sec) {
		if cs.ExcludesDay(m.Day) {
			return false
		}
		if cs.EarliestStart >= 0 && m.Start < cs.EarliestStart {
			return false
		}
		if cs.LatestEnd >= 0 && m.End > cs.LatestEnd {
			return false
		}
	}
	return true
}

func orderPool(pool []models.CourseSection) []models.CourseSection {
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if ra, rb := deref(a.InstructorRating), deref(b.InstructorRating); ra != rb {
			return ra > rb
		}
		if ga, gb := deref(a.CourseGPA), deref(b.CourseGPA); ga != gb {
			return ga > gb
		}
		if a.OpenSeats != b.OpenSeats {
			return a.OpenSeats > b.OpenSeats
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Section < b.Section
	})
	return pool
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Assemble runs the bounded depth-first search over the pools: one slot per
// depth, one section committed per slot, no course committed into more than
// one slot, no two committed sections meeting at overlapping times on a
// shared day. The search walks an explicit frame stack
// so the node budget and caller cancellation are checked at every step
// boundary. It returns the top-K distinct candidates by descending score; an
// empty pool list yields an empty result.
func (a *Assembler) Assemble(ctx context.Context, cs models.ConstraintSet, pools []Pool) Result {
	var res Result
	if len(pools) == 0 {
		return res
	}

	// Meetings are parsed once per section, not once per visit.
	meetings := make([][][]Meeting, len(pools))
	for i, pool := range pools {
		meetings[i] = make([][]Meeting, len(pool.Sections))
		for j, sec := range pool.Sections {
			meetings[i][j] = Meetings(sec)
		}
	}

	type frame struct {
		next int
	}
	stack := make([]frame, 1, len(pools))
	picks := make([]int, len(pools))
	seen := make(map[string]bool)
	var found []scored

search:
	for len(stack) > 0 {
		if ctx.Err() != nil {
			res.PartialSearch = true
			break
		}
		depth := len(stack) - 1
		f := &stack[depth]

		if f.next >= len(pools[depth].Sections) {
			stack = stack[:depth]
			continue
		}
		idx := f.next
		f.next++

		res.NodesVisited++
		if res.NodesVisited > a.cfg.NodeBudget {
			res.PartialSearch = true
			a.logger.Debug("search budget exhausted",
				zap.Int("nodes", res.NodesVisited), zap.Int("found", len(found)))
			break
		}

		// A course reachable through several slots (a gen-ed code inside a
		// requested department, say) must still appear at most once.
		code := pools[depth].Sections[idx].Code
		for prev := 0; prev < depth; prev++ {
			if pools[prev].Sections[picks[prev]].Code == code {
				continue search
			}
			if conflicts(meetings[prev][picks[prev]], meetings[depth][idx]) {
				continue search
			}
		}
		picks[depth] = idx

		if depth < len(pools)-1 {
			stack = append(stack, frame{})
			continue
		}

		cand, ok := a.complete(cs, pools, picks)
		if !ok || seen[cand.key] {
			continue
		}
		seen[cand.key] = true
		found = append(found, cand)
	}

	sort.SliceStable(found, func(i, j int) bool {
		a, b := found[i], found[j]
		if a.candidate.Score != b.candidate.Score {
			return a.candidate.Score > b.candidate.Score
		}
		if a.candidate.IdleGapMinutes != b.candidate.IdleGapMinutes {
			return a.candidate.IdleGapMinutes < b.candidate.IdleGapMinutes
		}
		return a.candidate.Sections[0].Code < b.candidate.Sections[0].Code
	})

	res.Found = len(found)
	limit := a.cfg.TopK
	if limit > len(found) {
		limit = len(found)
	}
	res.Candidates = make([]models.ScheduleCandidate, 0, limit)
	for _, f := range found[:limit] {
		res.Candidates = append(res.Candidates, f.candidate)
	}
	return res
}

type scored struct {
	candidate models.ScheduleCandidate
	key       string
}

// complete validates the fully-committed assignment against the credit window
// and scores it.
func (a *Assembler) complete(cs models.ConstraintSet, pools []Pool, picks []int) (scored, bool) {
	sections := make([]models.CourseSection, len(pools))
	credits := 0
	for i, pool := range pools {
		sections[i] = pool.Sections[picks[i]]
		credits += sections[i].Credits
	}
	if cs.MinCredits > 0 && credits < cs.MinCredits {
		return scored{}, false
	}
	if cs.MaxCredits > 0 && credits > cs.MaxCredits {
		return scored{}, false
	}

	gap := idleGapMinutes(sections)
	cand := models.ScheduleCandidate{
		Sections:       sections,
		TotalCredits:   credits,
		Score:          a.score(cs, sections, gap),
		IdleGapMinutes: gap,
	}
	return scored{candidate: cand, key: cand.Key()}, true
}

// score is the weighted sum of average rating, average GPA, and the negated
// idle-gap compactness term. Averages run over the sections that carry the
// figure; a schedule with no rated sections contributes zero for that term.
func (a *Assembler) score(cs models.ConstraintSet, sections []models.CourseSection, gap int) float64 {
	wr, wg, wc := a.weights(cs.Preference)

	var ratingSum, gpaSum float64
	var ratingN, gpaN int
	for _, sec := range sections {
		if sec.InstructorRating != nil {
			ratingSum += *sec.InstructorRating
			ratingN++
		}
		if sec.CourseGPA != nil {
			gpaSum += *sec.CourseGPA
			gpaN++
		}
	}
	score := 0.0
	if ratingN > 0 {
		score += wr * ratingSum / float64(ratingN)
	}
	if gpaN > 0 {
		score += wg * gpaSum / float64(gpaN)
	}
	return score - wc*float64(gap)
}

// weights applies the requested ranking bias on top of the configured vector.
func (a *Assembler) weights(pref models.RankingPreference) (wr, wg, wc float64) {
	wr, wg, wc = a.cfg.WeightRating, a.cfg.WeightGPA, a.cfg.WeightCompact
	switch pref {
	case models.PreferBestRating:
		wr *= 2
	case models.PreferCompact:
		wc *= 10
	case models.PreferSpread:
		wc = -wc
	}
	return wr, wg, wc
}

// idleGapMinutes sums the gaps between consecutive meetings on each day that
// carries two or more meetings.
func idleGapMinutes(sections []models.CourseSection) int {
	byDay := make(map[models.Weekday][]Meeting)
	for _, sec := range sections {
		for _, m := range Meetings(sec) {
			byDay[m.Day] = append(byDay[m.Day], m)
		}
	}
	total := 0
	for _, ms := range byDay {
		if len(ms) < 2 {
			continue
		}
		sort.Slice(ms, func(i, j int) bool { return ms[i].Start < ms[j].Start })
		for i := 1; i < len(ms); i++ {
			if gap := ms[i].Start - ms[i-1].End; gap > 0 {
				total += gap
			}
		}
	}
	return total
}
