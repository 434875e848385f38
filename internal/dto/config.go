package dto

// UpdateConfigRequest tunes the rotation mechanic of a class.
type UpdateConfigRequest struct {
	SchoolDays     int `json:"school_days" validate:"required,oneof=5 6"`
	CycleThreshold int `json:"cycle_threshold" validate:"required,min=1,max=100"`
	CycleReturn    int `json:"cycle_return" validate:"required,min=1"`
}

// SetSubjectAverageRequest overrides the typical interrogations-per-day of a
// subject.
type SetSubjectAverageRequest struct {
	AvgPerDay int `json:"avg_per_day" validate:"required,min=1,max=10"`
}
