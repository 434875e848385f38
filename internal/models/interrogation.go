package models

import "time"

// Interrogation is a recorded oral exam for a student in a subject on a date.
// Date is an ISO day string (YYYY-MM-DD). At most one interrogation exists
// per (student, subject, date); the write path enforces this.
type Interrogation struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Date      string    `db:"date" json:"date"`
	Grade     *float64  `db:"grade" json:"grade,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// InterrogationFilter narrows interrogation listings.
type InterrogationFilter struct {
	ClassID   string
	StudentID string
	SubjectID string
	DateFrom  string
	DateTo    string
	Page      int
	PageSize  int
}
