package models

import "time"

// Absence marks a student absent on a date. A nil SubjectID means the whole
// day; a set SubjectID blocks only that subject.
type Absence struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	SubjectID *string   `db:"subject_id" json:"subject_id,omitempty"`
	Date      string    `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Covers reports whether the absence blocks the given subject.
func (a Absence) Covers(subjectID string) bool {
	return a.SubjectID == nil || *a.SubjectID == subjectID
}
