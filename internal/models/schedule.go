package models

import "time"

// ScheduleEntry assigns a subject to a weekday of the class timetable.
// DayOfWeek is the ISO weekday (1=Monday) and never exceeds the configured
// number of school days.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Hours     int       `db:"hours" json:"hours"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
