package dto

import "github.com/davideferri/interro-risk-api/internal/risk"

// RiskQuery captures the date parameter shared by the risk endpoints. An
// empty date means today.
type RiskQuery struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}

// DashboardResponse is the per-date dashboard payload.
type DashboardResponse struct {
	Date     string             `json:"date"`
	Display  string             `json:"display"`
	Vacation bool               `json:"vacation"`
	Subjects []risk.SubjectRisk `json:"subjects"`
}

// WeeklyResponse maps each date of the school week to its subject risks.
type WeeklyResponse struct {
	Anchor string                        `json:"anchor"`
	Days   []WeeklyDay                   `json:"days"`
	Risks  map[string][]risk.SubjectRisk `json:"risks"`
}

// WeeklyDay pairs a week date with its display label.
type WeeklyDay struct {
	Date    string `json:"date"`
	Display string `json:"display"`
}

// ClassStatsResponse lists per-student risk for one subject and date.
type ClassStatsResponse struct {
	SubjectID string             `json:"subject_id"`
	Date      string             `json:"date"`
	Students  []risk.StudentRisk `json:"students"`
}

// HistoryResponse lists recorded exams of a subject, newest first.
type HistoryResponse struct {
	SubjectID string         `json:"subject_id"`
	Entries   []HistoryEntry `json:"entries"`
}

// HistoryEntry is one recorded exam with the student's display name resolved.
type HistoryEntry struct {
	ID          string   `json:"id"`
	StudentID   string   `json:"student_id"`
	StudentName string   `json:"student_name"`
	Date        string   `json:"date"`
	Display     string   `json:"display"`
	Grade       *float64 `json:"grade,omitempty"`
}

// NextSchoolDayResponse resolves the next school day from a date.
type NextSchoolDayResponse struct {
	From    string `json:"from"`
	Next    string `json:"next"`
	Display string `json:"display"`
}
