package risk

import (
	"sort"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// EffectiveInterrogated resolves the cycle-adjusted "already examined" set
// for one subject: the student ids still treated as examined after the
// rotation rule has returned the least-recently-examined students to the
// eligible pool.
//
// Each student's position is their most recent interrogation date in the
// subject; a student who re-enters the pool and is examined again simply
// moves to the back. The ordered list is then trimmed from the oldest end,
// cycleReturn entries at a time, until its length drops below
// ceil(cycleThreshold% * classSize). Ties on date are broken by student id
// so the removal order is reproducible across runs and datasets.
func EffectiveInterrogated(interrogations []models.Interrogation, subjectID string, classSize int, cfg models.ClassConfig) map[string]struct{} {
	threshold := cfg.CycleThreshold
	if threshold <= 0 {
		threshold = models.DefaultCycleThreshold
	}
	returnCount := cfg.CycleReturn
	if returnCount <= 0 {
		returnCount = models.DefaultCycleReturn
	}

	lastDate := make(map[string]string)
	for _, in := range interrogations {
		if in.SubjectID != subjectID {
			continue
		}
		if prev, ok := lastDate[in.StudentID]; !ok || in.Date > prev {
			lastDate[in.StudentID] = in.Date
		}
	}

	type entry struct {
		studentID string
		date      string
	}
	ordered := make([]entry, 0, len(lastDate))
	for studentID, date := range lastDate {
		ordered = append(ordered, entry{studentID: studentID, date: date})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].date != ordered[j].date {
			return ordered[i].date < ordered[j].date
		}
		return ordered[i].studentID < ordered[j].studentID
	})

	thresholdCount := ceilPercent(threshold, classSize)
	for len(ordered) >= thresholdCount && len(ordered) > 0 {
		drop := returnCount
		if drop > len(ordered) {
			drop = len(ordered)
		}
		ordered = ordered[drop:]
	}

	effective := make(map[string]struct{}, len(ordered))
	for _, e := range ordered {
		effective[e.studentID] = struct{}{}
	}
	return effective
}

// ceilPercent computes ceil(percent/100 * total) in integer arithmetic.
func ceilPercent(percent, total int) int {
	return (percent*total + 99) / 100
}
