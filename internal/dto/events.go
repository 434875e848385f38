package dto

// CreateInterrogationRequest records an oral exam.
type CreateInterrogationRequest struct {
	StudentID string   `json:"student_id" validate:"required"`
	SubjectID string   `json:"subject_id" validate:"required"`
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	Grade     *float64 `json:"grade" validate:"omitempty,min=0,max=10"`
}

// UpdateGradeRequest sets or clears the grade of a recorded exam.
type UpdateGradeRequest struct {
	Grade *float64 `json:"grade" validate:"omitempty,min=0,max=10"`
}

// CreateAbsenceRequest marks a student absent. Omitting subject_id marks the
// whole day.
type CreateAbsenceRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	SubjectID *string `json:"subject_id"`
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
}

// CreateVolunteerRequest records a student volunteering for a subject.
type CreateVolunteerRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// CreateVacationRequest marks a no-school date.
type CreateVacationRequest struct {
	Date string  `json:"date" validate:"required,datetime=2006-01-02"`
	Note *string `json:"note" validate:"omitempty,max=256"`
}
