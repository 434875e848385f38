package models

import "time"

// Vacation marks a date on which no school activity happens. Risk
// computation short-circuits for vacation dates.
type Vacation struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Date      string    `db:"date" json:"date"`
	Note      *string   `db:"note" json:"note,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
