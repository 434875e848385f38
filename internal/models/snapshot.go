package models

// Snapshot is the immutable, fully materialized view of one class that the
// risk engine computes over. It is rebuilt per computation; the engine never
// mutates it and never reaches past it for more data.
type Snapshot struct {
	ClassID        string          `json:"class_id"`
	Students       []Student       `json:"students"`
	Subjects       []Subject       `json:"subjects"`
	Teachers       []Teacher       `json:"teachers"`
	Schedule       []ScheduleEntry `json:"schedule"`
	Interrogations []Interrogation `json:"interrogations"`
	Absences       []Absence       `json:"absences"`
	Volunteers     []Volunteer     `json:"volunteers"`
	Vacations      []Vacation      `json:"vacations"`
	Config         ClassConfig     `json:"config"`
}

// SubjectByID looks up a subject in the snapshot.
func (s *Snapshot) SubjectByID(id string) *Subject {
	for i := range s.Subjects {
		if s.Subjects[i].ID == id {
			return &s.Subjects[i]
		}
	}
	return nil
}

// StudentByID looks up a student in the snapshot.
func (s *Snapshot) StudentByID(id string) *Student {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return &s.Students[i]
		}
	}
	return nil
}

// TeacherByID looks up a teacher in the snapshot.
func (s *Snapshot) TeacherByID(id string) *Teacher {
	for i := range s.Teachers {
		if s.Teachers[i].ID == id {
			return &s.Teachers[i]
		}
	}
	return nil
}

// IsVacation reports whether the date is marked as a vacation day.
func (s *Snapshot) IsVacation(date string) bool {
	for _, v := range s.Vacations {
		if v.Date == date {
			return true
		}
	}
	return false
}

// VacationDates returns the set of vacation dates in the snapshot.
func (s *Snapshot) VacationDates() map[string]struct{} {
	dates := make(map[string]struct{}, len(s.Vacations))
	for _, v := range s.Vacations {
		dates[v.Date] = struct{}{}
	}
	return dates
}
