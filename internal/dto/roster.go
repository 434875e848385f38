package dto

// CreateClassRequest describes the payload for creating a class.
type CreateClassRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

// CreateStudentRequest describes the payload for adding a class member.
type CreateStudentRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=64"`
	LastName     string  `json:"last_name" validate:"required,min=1,max=64"`
	Image        *string `json:"image" validate:"omitempty,url"`
	IsClassAdmin bool    `json:"is_class_admin"`
}

// UpdateStudentRequest describes the payload for editing a class member.
type UpdateStudentRequest struct {
	FirstName    string  `json:"first_name" validate:"required,min=1,max=64"`
	LastName     string  `json:"last_name" validate:"required,min=1,max=64"`
	Image        *string `json:"image" validate:"omitempty,url"`
	IsClassAdmin bool    `json:"is_class_admin"`
}

// CreateSubjectRequest describes the payload for adding a subject.
type CreateSubjectRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=64"`
	TeacherID *string `json:"teacher_id"`
}

// UpdateSubjectRequest describes the payload for editing a subject.
type UpdateSubjectRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=64"`
	TeacherID *string `json:"teacher_id"`
}

// CreateTeacherRequest describes the payload for adding a teacher.
type CreateTeacherRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=128"`
}

// CreateScheduleEntryRequest describes the payload for one timetable slot.
type CreateScheduleEntryRequest struct {
	SubjectID string `json:"subject_id" validate:"required"`
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	Hours     int    `json:"hours" validate:"omitempty,min=1,max=12"`
}

// ReplaceScheduleDayRequest swaps the full timetable of one weekday.
type ReplaceScheduleDayRequest struct {
	DayOfWeek int                          `json:"day_of_week" validate:"required,min=1,max=7"`
	Entries   []CreateScheduleEntryRequest `json:"entries" validate:"dive"`
}
