package models

import "time"

// Student represents a class member whose interrogation risk is tracked.
type Student struct {
	ID           string    `db:"id" json:"id"`
	ClassID      string    `db:"class_id" json:"class_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	FullName     string    `db:"full_name" json:"full_name"`
	Image        *string   `db:"image" json:"image,omitempty"`
	IsClassAdmin bool      `db:"is_class_admin" json:"is_class_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter captures supported filters for listing students.
type StudentFilter struct {
	ClassID   string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
