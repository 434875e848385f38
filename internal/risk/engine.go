package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// Status classifies the outcome of a single risk evaluation. Abnormal
// situations (empty roster, saturated slots, …) are statuses, not errors;
// callers branch on Status.
type Status string

const (
	StatusVacation            Status = "vacation"
	StatusNotScheduled        Status = "not-scheduled"
	StatusNoStudents          Status = "no-students"
	StatusVolunteer           Status = "volunteer"
	StatusAlreadyInterrogated Status = "already-interrogated"
	StatusAbsent              Status = "absent"
	StatusNoEligible          Status = "no-eligible"
	StatusNoSlots             Status = "no-slots"
	StatusAtRisk              Status = "at-risk"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusVacation, StatusNotScheduled, StatusNoStudents, StatusVolunteer,
		StatusAlreadyInterrogated, StatusAbsent, StatusNoEligible, StatusNoSlots,
		StatusAtRisk:
		return true
	}
	return false
}

// Result is the outcome of one (student, subject, date) evaluation.
type Result struct {
	Risk        float64 `json:"risk"`
	Status      Status  `json:"status"`
	Explanation string  `json:"explanation"`
}

// SubjectRisk is a Result enriched with subject display fields, produced by
// the per-student aggregators.
type SubjectRisk struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	TeacherName string `json:"teacher_name"`
	Result
}

// StudentRisk is a Result enriched with student display fields, produced by
// the class statistics aggregator.
type StudentRisk struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Initials    string `json:"initials"`
	Result
}

// Engine evaluates interrogation risk over an immutable class snapshot.
// It is stateless: every method takes the snapshot explicitly and derives
// all working sets from it, so repeated calls with the same snapshot are
// bit-identical.
type Engine struct{}

// NewEngine constructs the engine.
func NewEngine() *Engine {
	return &Engine{}
}

// CalculateRisk classifies one (student, subject, date) instance and
// computes its numeric risk. The rules form a decision table evaluated in
// fixed priority order; the first match wins.
func (e *Engine) CalculateRisk(snap *models.Snapshot, studentID, subjectID, date string) Result {
	if snap.IsVacation(date) {
		return Result{Risk: 0, Status: StatusVacation, Explanation: "Vacation day"}
	}

	dow := DayOfWeek(date)
	if !e.scheduledOn(snap, subjectID, dow) {
		return Result{Risk: 0, Status: StatusNotScheduled, Explanation: "Subject not scheduled today"}
	}

	n := len(snap.Students)
	if n == 0 {
		return Result{Risk: 0, Status: StatusNoStudents, Explanation: "No students in class"}
	}

	volunteerIDs := make(map[string]struct{})
	for _, v := range snap.Volunteers {
		if v.SubjectID == subjectID && v.Date == date {
			volunteerIDs[v.StudentID] = struct{}{}
		}
	}
	if _, ok := volunteerIDs[studentID]; ok {
		return Result{Risk: 100, Status: StatusVolunteer, Explanation: "Volunteered for today, will be examined"}
	}

	effectiveI := EffectiveInterrogated(snap.Interrogations, subjectID, n, snap.Config)
	if _, ok := effectiveI[studentID]; ok {
		return Result{Risk: 0, Status: StatusAlreadyInterrogated, Explanation: "Already examined in this subject"}
	}

	absentIDs := make(map[string]struct{})
	for _, a := range snap.Absences {
		if a.Date == date && a.Covers(subjectID) {
			absentIDs[a.StudentID] = struct{}{}
		}
	}
	if _, ok := absentIDs[studentID]; ok {
		return Result{Risk: 0, Status: StatusAbsent, Explanation: "Absent today"}
	}

	i := len(effectiveI)
	a := len(absentIDs)
	v := len(volunteerIDs)
	m := snap.Config.AvgFor(subjectID)

	eligible := n - i - a - v
	if eligible < 0 {
		eligible = 0
	}
	slots := m - v
	if slots < 0 {
		slots = 0
	}

	if eligible == 0 {
		return Result{Risk: 0, Status: StatusNoEligible, Explanation: "No eligible students"}
	}
	if slots == 0 {
		return Result{Risk: 0, Status: StatusNoSlots, Explanation: "All slots taken by volunteers"}
	}

	risk := float64(slots) / float64(eligible) * 100
	if risk > 100 {
		risk = 100
	}
	if risk < 0 {
		risk = 0
	}
	risk = math.Round(risk*10) / 10

	return Result{
		Risk:        risk,
		Status:      StatusAtRisk,
		Explanation: fmt.Sprintf("%d slot(s) for %d eligible students (I=%d after cycle)", slots, eligible, i),
	}
}

// Dashboard evaluates every subject scheduled on the date's weekday for one
// student, sorted descending by risk.
func (e *Engine) Dashboard(snap *models.Snapshot, studentID, date string) []SubjectRisk {
	dow := DayOfWeek(date)
	seen := make(map[string]struct{})
	results := make([]SubjectRisk, 0)
	for _, entry := range snap.Schedule {
		if entry.DayOfWeek != dow {
			continue
		}
		if _, dup := seen[entry.SubjectID]; dup {
			continue
		}
		seen[entry.SubjectID] = struct{}{}
		subject := snap.SubjectByID(entry.SubjectID)
		if subject == nil {
			continue
		}
		results = append(results, e.subjectRisk(snap, studentID, subject, date))
	}
	sortByRiskDesc(results)
	return results
}

// AllRisks evaluates every subject in the snapshot for one student,
// regardless of schedule, sorted descending by risk. Unscheduled subjects
// surface with the not-scheduled status.
func (e *Engine) AllRisks(snap *models.Snapshot, studentID, date string) []SubjectRisk {
	results := make([]SubjectRisk, 0, len(snap.Subjects))
	for idx := range snap.Subjects {
		results = append(results, e.subjectRisk(snap, studentID, &snap.Subjects[idx], date))
	}
	sortByRiskDesc(results)
	return results
}

// Weekly computes the dashboard for every school day of the week containing
// date, keyed by ISO date.
func (e *Engine) Weekly(snap *models.Snapshot, studentID, date string) map[string][]SubjectRisk {
	weekly := make(map[string][]SubjectRisk)
	for _, d := range WeekDates(date, snap.Config.SchoolDays) {
		weekly[d] = e.Dashboard(snap, studentID, d)
	}
	return weekly
}

// ClassStats evaluates every student in the roster against one subject and
// date, sorted ascending by surname (case-insensitive).
func (e *Engine) ClassStats(snap *models.Snapshot, subjectID, date string) []StudentRisk {
	results := make([]StudentRisk, 0, len(snap.Students))
	for _, student := range snap.Students {
		r := e.CalculateRisk(snap, student.ID, subjectID, date)
		results = append(results, StudentRisk{
			StudentID:   student.ID,
			StudentName: student.FullName,
			Initials:    Initials(student.FullName),
			Result:      r,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		si := strings.ToLower(Surname(results[i].StudentName))
		sj := strings.ToLower(Surname(results[j].StudentName))
		if si != sj {
			return si < sj
		}
		return results[i].StudentID < results[j].StudentID
	})
	return results
}

// SubjectHistory lists a student's past interrogations in one subject,
// most recent first. A pure lookup, no risk computation.
func (e *Engine) SubjectHistory(snap *models.Snapshot, studentID, subjectID string) []models.Interrogation {
	history := make([]models.Interrogation, 0)
	for _, in := range snap.Interrogations {
		if in.StudentID == studentID && in.SubjectID == subjectID {
			history = append(history, in)
		}
	}
	sortHistoryDesc(history)
	return history
}

// ClassHistory lists every interrogation recorded in one subject across the
// whole class, most recent first.
func (e *Engine) ClassHistory(snap *models.Snapshot, subjectID string) []models.Interrogation {
	history := make([]models.Interrogation, 0)
	for _, in := range snap.Interrogations {
		if in.SubjectID == subjectID {
			history = append(history, in)
		}
	}
	sortHistoryDesc(history)
	return history
}

func sortHistoryDesc(history []models.Interrogation) {
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Date != history[j].Date {
			return history[i].Date > history[j].Date
		}
		return history[i].ID < history[j].ID
	})
}

// WeekDates exposes the school week for the snapshot's configuration.
func (e *Engine) WeekDates(snap *models.Snapshot, date string) []string {
	return WeekDates(date, snap.Config.SchoolDays)
}

// NextSchoolDay finds the next non-vacation school day after date for the
// snapshot's configuration.
func (e *Engine) NextSchoolDay(snap *models.Snapshot, date string) string {
	return NextSchoolDay(date, snap.Config.SchoolDays, snap.VacationDates())
}

func (e *Engine) subjectRisk(snap *models.Snapshot, studentID string, subject *models.Subject, date string) SubjectRisk {
	teacherName := "—"
	if subject.TeacherID != nil {
		if teacher := snap.TeacherByID(*subject.TeacherID); teacher != nil {
			teacherName = Surname(teacher.FullName)
		}
	}
	return SubjectRisk{
		SubjectID:   subject.ID,
		SubjectName: subject.Name,
		TeacherName: teacherName,
		Result:      e.CalculateRisk(snap, studentID, subject.ID, date),
	}
}

func (e *Engine) scheduledOn(snap *models.Snapshot, subjectID string, dayOfWeek int) bool {
	if dayOfWeek == 0 {
		return false
	}
	for _, entry := range snap.Schedule {
		if entry.SubjectID == subjectID && entry.DayOfWeek == dayOfWeek {
			return true
		}
	}
	return false
}

func sortByRiskDesc(results []SubjectRisk) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Risk > results[j].Risk
	})
}
