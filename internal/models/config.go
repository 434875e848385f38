package models

// Defaults applied when a class has no stored configuration.
const (
	DefaultSchoolDays     = 5
	DefaultCycleThreshold = 80
	DefaultCycleReturn    = 2
	DefaultAvgPerDay      = 1
)

// ClassConfig tunes the rotation mechanic and calendar for one class.
//
// CycleThreshold is the percentage of the class size at which the cycle
// resets; CycleReturn is how many least-recently-examined students return to
// the eligible pool per reset step. AvgPerDay maps subject id to the typical
// number of interrogations that subject produces per day.
type ClassConfig struct {
	SchoolDays     int            `json:"school_days"`
	CycleThreshold int            `json:"cycle_threshold"`
	CycleReturn    int            `json:"cycle_return"`
	AvgPerDay      map[string]int `json:"avg_per_day"`
}

// DefaultClassConfig returns the configuration used before any admin tuning.
func DefaultClassConfig() ClassConfig {
	return ClassConfig{
		SchoolDays:     DefaultSchoolDays,
		CycleThreshold: DefaultCycleThreshold,
		CycleReturn:    DefaultCycleReturn,
		AvgPerDay:      map[string]int{},
	}
}

// AvgFor returns the configured average interrogations per day for a
// subject, falling back to the documented default of 1.
func (c ClassConfig) AvgFor(subjectID string) int {
	if avg, ok := c.AvgPerDay[subjectID]; ok && avg >= 1 {
		return avg
	}
	return DefaultAvgPerDay
}
