package risk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideferri/interro-risk-api/internal/models"
)

const (
	mondayDate  = "2024-11-11"
	tuesdayDate = "2024-11-12"
)

func strPtr(s string) *string { return &s }

// testSnapshot builds a 20-student class with Math scheduled on Monday.
func testSnapshot() *models.Snapshot {
	snap := &models.Snapshot{
		ClassID: "class-1",
		Subjects: []models.Subject{
			{ID: "sub-math", ClassID: "class-1", Name: "Math", TeacherID: strPtr("tea-1")},
		},
		Teachers: []models.Teacher{
			{ID: "tea-1", ClassID: "class-1", FullName: "Anna Bianchi"},
		},
		Schedule: []models.ScheduleEntry{
			{ID: "sch-1", ClassID: "class-1", SubjectID: "sub-math", DayOfWeek: 1, Hours: 2},
		},
		Config: models.DefaultClassConfig(),
	}
	surnames := []string{
		"Albano", "Bruni", "Carli", "Danti", "Espo", "Ferri", "Gallo", "Irti",
		"Landi", "Magri", "Neri", "Orsi", "Pinti", "Quario", "Ricci", "Serra",
		"Tosi", "Udine", "Verdi", "Zanetti",
	}
	for i, surname := range surnames {
		id := fmt.Sprintf("stu-%02d", i+1)
		snap.Students = append(snap.Students, models.Student{
			ID:        id,
			ClassID:   "class-1",
			FirstName: "Luca",
			LastName:  surname,
			FullName:  "Luca " + surname,
		})
	}
	return snap
}

func TestCalculateRiskFreshClass(t *testing.T) {
	snap := testSnapshot()
	engine := NewEngine()

	r := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)

	assert.Equal(t, StatusAtRisk, r.Status)
	assert.Equal(t, 5.0, r.Risk)
	assert.Contains(t, r.Explanation, "1 slot(s) for 20 eligible students")
	assert.Contains(t, r.Explanation, "I=0")
}

func TestCalculateRiskVacationOverridesEverything(t *testing.T) {
	snap := testSnapshot()
	snap.Vacations = append(snap.Vacations, models.Vacation{ID: "vac-1", Date: mondayDate})
	snap.Volunteers = append(snap.Volunteers, models.Volunteer{ID: "vol-1", StudentID: "stu-01", SubjectID: "sub-math", Date: mondayDate})
	engine := NewEngine()

	for _, student := range snap.Students {
		r := engine.CalculateRisk(snap, student.ID, "sub-math", mondayDate)
		assert.Equal(t, StatusVacation, r.Status)
		assert.Zero(t, r.Risk)
	}
}

func TestCalculateRiskNotScheduled(t *testing.T) {
	snap := testSnapshot()
	engine := NewEngine()

	r := engine.CalculateRisk(snap, "stu-01", "sub-math", tuesdayDate)

	assert.Equal(t, StatusNotScheduled, r.Status)
	assert.Zero(t, r.Risk)
}

func TestCalculateRiskEmptyRoster(t *testing.T) {
	snap := testSnapshot()
	snap.Students = nil
	engine := NewEngine()

	r := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)

	assert.Equal(t, StatusNoStudents, r.Status)
	assert.Zero(t, r.Risk)
}

func TestVolunteerOverridesAlreadyInterrogated(t *testing.T) {
	snap := testSnapshot()
	snap.Interrogations = append(snap.Interrogations, models.Interrogation{
		ID: "int-1", StudentID: "stu-01", SubjectID: "sub-math", Date: "2024-10-07",
	})
	snap.Volunteers = append(snap.Volunteers, models.Volunteer{
		ID: "vol-1", StudentID: "stu-01", SubjectID: "sub-math", Date: mondayDate,
	})
	engine := NewEngine()

	r := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)

	assert.Equal(t, StatusVolunteer, r.Status)
	assert.Equal(t, 100.0, r.Risk)
}

func TestAbsentStudentShrinksEligiblePool(t *testing.T) {
	snap := testSnapshot()
	snap.Absences = append(snap.Absences, models.Absence{
		ID: "abs-1", StudentID: "stu-01", Date: mondayDate,
	})
	engine := NewEngine()

	absent := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)
	assert.Equal(t, StatusAbsent, absent.Status)
	assert.Zero(t, absent.Risk)

	other := engine.CalculateRisk(snap, "stu-02", "sub-math", mondayDate)
	assert.Equal(t, StatusAtRisk, other.Status)
	assert.Equal(t, 5.3, other.Risk) // 1 slot over 19 eligible
}

func TestSubjectSpecificAbsenceBlocksOnlyThatSubject(t *testing.T) {
	snap := testSnapshot()
	snap.Subjects = append(snap.Subjects, models.Subject{ID: "sub-hist", ClassID: "class-1", Name: "History"})
	snap.Schedule = append(snap.Schedule, models.ScheduleEntry{ID: "sch-2", ClassID: "class-1", SubjectID: "sub-hist", DayOfWeek: 1, Hours: 1})
	snap.Absences = append(snap.Absences, models.Absence{
		ID: "abs-1", StudentID: "stu-01", SubjectID: strPtr("sub-hist"), Date: mondayDate,
	})
	engine := NewEngine()

	assert.Equal(t, StatusAbsent, engine.CalculateRisk(snap, "stu-01", "sub-hist", mondayDate).Status)
	assert.Equal(t, StatusAtRisk, engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate).Status)
}

func TestCycleResetReturnsOldestStudentsToThePool(t *testing.T) {
	snap := testSnapshot()
	// 17 of 20 examined on distinct ascending dates; threshold count is
	// ceil(80% * 20) = 16, so one reset step drops the 2 oldest.
	for i := 1; i <= 17; i++ {
		snap.Interrogations = append(snap.Interrogations, models.Interrogation{
			ID:        fmt.Sprintf("int-%02d", i),
			StudentID: fmt.Sprintf("stu-%02d", i),
			SubjectID: "sub-math",
			Date:      fmt.Sprintf("2024-10-%02d", i),
		})
	}
	engine := NewEngine()

	reset := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)
	require.Equal(t, StatusAtRisk, reset.Status)
	assert.Equal(t, 20.0, reset.Risk) // 1 slot over E = 20 - 15 = 5
	assert.Contains(t, reset.Explanation, "I=15")

	kept := engine.CalculateRisk(snap, "stu-03", "sub-math", mondayDate)
	assert.Equal(t, StatusAlreadyInterrogated, kept.Status)
}

func TestVolunteerConsumesSlotCapacity(t *testing.T) {
	snap := testSnapshot()
	snap.Volunteers = append(snap.Volunteers, models.Volunteer{
		ID: "vol-1", StudentID: "stu-02", SubjectID: "sub-math", Date: mondayDate,
	})
	engine := NewEngine()

	volunteer := engine.CalculateRisk(snap, "stu-02", "sub-math", mondayDate)
	assert.Equal(t, StatusVolunteer, volunteer.Status)
	assert.Equal(t, 100.0, volunteer.Risk)

	other := engine.CalculateRisk(snap, "stu-03", "sub-math", mondayDate)
	assert.Equal(t, StatusNoSlots, other.Status)
	assert.Zero(t, other.Risk)
}

func TestExtraSlotsSurviveVolunteers(t *testing.T) {
	snap := testSnapshot()
	snap.Config.AvgPerDay["sub-math"] = 3
	snap.Volunteers = append(snap.Volunteers, models.Volunteer{
		ID: "vol-1", StudentID: "stu-02", SubjectID: "sub-math", Date: mondayDate,
	})
	engine := NewEngine()

	r := engine.CalculateRisk(snap, "stu-03", "sub-math", mondayDate)
	require.Equal(t, StatusAtRisk, r.Status)
	assert.Equal(t, 10.5, r.Risk) // 2 slots over 19 eligible
}

func TestNoEligibleWhenExcludedSetsOverlapTheRoster(t *testing.T) {
	// Two students: one both examined and absent today, so I and A each
	// count 1 and E clamps to zero for the remaining clean student.
	snap := testSnapshot()
	snap.Students = snap.Students[:2]
	snap.Interrogations = append(snap.Interrogations, models.Interrogation{
		ID: "int-1", StudentID: "stu-01", SubjectID: "sub-math", Date: "2024-10-07",
	})
	snap.Absences = append(snap.Absences, models.Absence{
		ID: "abs-1", StudentID: "stu-01", Date: mondayDate,
	})
	engine := NewEngine()

	r := engine.CalculateRisk(snap, "stu-02", "sub-math", mondayDate)
	assert.Equal(t, StatusNoEligible, r.Status)
	assert.Zero(t, r.Risk)
}

func TestRiskIsUniformAcrossAtRiskStudents(t *testing.T) {
	snap := testSnapshot()
	snap.Config.AvgPerDay["sub-math"] = 2
	for i := 1; i <= 6; i++ {
		snap.Interrogations = append(snap.Interrogations, models.Interrogation{
			ID:        fmt.Sprintf("int-%02d", i),
			StudentID: fmt.Sprintf("stu-%02d", i),
			SubjectID: "sub-math",
			Date:      fmt.Sprintf("2024-10-%02d", i),
		})
	}
	snap.Absences = append(snap.Absences, models.Absence{ID: "abs-1", StudentID: "stu-07", Date: mondayDate})
	snap.Volunteers = append(snap.Volunteers, models.Volunteer{ID: "vol-1", StudentID: "stu-08", SubjectID: "sub-math", Date: mondayDate})
	engine := NewEngine()

	var atRisk []Result
	for _, student := range snap.Students {
		r := engine.CalculateRisk(snap, student.ID, "sub-math", mondayDate)
		if r.Status == StatusAtRisk {
			atRisk = append(atRisk, r)
		}
	}
	require.NotEmpty(t, atRisk)
	for _, r := range atRisk {
		assert.Equal(t, atRisk[0], r)
	}
}

func TestCalculateRiskIsIdempotent(t *testing.T) {
	snap := testSnapshot()
	snap.Interrogations = append(snap.Interrogations, models.Interrogation{
		ID: "int-1", StudentID: "stu-05", SubjectID: "sub-math", Date: "2024-10-07",
	})
	engine := NewEngine()

	first := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)
	second := engine.CalculateRisk(snap, "stu-01", "sub-math", mondayDate)
	assert.Equal(t, first, second)

	assert.Equal(t,
		engine.AllRisks(snap, "stu-01", mondayDate),
		engine.AllRisks(snap, "stu-01", mondayDate),
	)
}

func TestDashboardListsScheduledSubjectsSortedByRisk(t *testing.T) {
	snap := testSnapshot()
	snap.Subjects = append(snap.Subjects, models.Subject{ID: "sub-hist", ClassID: "class-1", Name: "History"})
	snap.Schedule = append(snap.Schedule,
		models.ScheduleEntry{ID: "sch-2", ClassID: "class-1", SubjectID: "sub-hist", DayOfWeek: 1, Hours: 1},
		models.ScheduleEntry{ID: "sch-3", ClassID: "class-1", SubjectID: "sub-hist", DayOfWeek: 1, Hours: 1}, // duplicate entry, same day
	)
	snap.Volunteers = append(snap.Volunteers, models.Volunteer{
		ID: "vol-1", StudentID: "stu-01", SubjectID: "sub-hist", Date: mondayDate,
	})
	engine := NewEngine()

	results := engine.Dashboard(snap, "stu-01", mondayDate)

	require.Len(t, results, 2)
	assert.Equal(t, "sub-hist", results[0].SubjectID)
	assert.Equal(t, 100.0, results[0].Risk)
	assert.Equal(t, "sub-math", results[1].SubjectID)
	assert.Equal(t, "Math", results[1].SubjectName)
	assert.Equal(t, "Bianchi", results[1].TeacherName)
}

func TestAllRisksIncludesUnscheduledSubjects(t *testing.T) {
	snap := testSnapshot()
	snap.Subjects = append(snap.Subjects, models.Subject{ID: "sub-art", ClassID: "class-1", Name: "Art"})
	engine := NewEngine()

	results := engine.AllRisks(snap, "stu-01", mondayDate)

	require.Len(t, results, 2)
	assert.Equal(t, "sub-math", results[0].SubjectID)
	assert.Equal(t, StatusAtRisk, results[0].Status)
	assert.Equal(t, "sub-art", results[1].SubjectID)
	assert.Equal(t, StatusNotScheduled, results[1].Status)
	assert.Equal(t, "—", results[1].TeacherName)
}

func TestWeeklyCoversEverySchoolDay(t *testing.T) {
	snap := testSnapshot()
	snap.Vacations = append(snap.Vacations, models.Vacation{ID: "vac-1", Date: mondayDate})
	engine := NewEngine()

	weekly := engine.Weekly(snap, "stu-01", "2024-11-13")

	require.Len(t, weekly, 5)
	monday, ok := weekly[mondayDate]
	require.True(t, ok)
	require.Len(t, monday, 1)
	assert.Equal(t, StatusVacation, monday[0].Status)
	for _, d := range []string{"2024-11-12", "2024-11-13", "2024-11-14", "2024-11-15"} {
		_, ok := weekly[d]
		assert.True(t, ok, "missing week day %s", d)
	}
}

func TestClassStatsSortedBySurname(t *testing.T) {
	snap := testSnapshot()
	snap.Students = []models.Student{
		{ID: "stu-01", FirstName: "Marco", LastName: "Verdi", FullName: "Marco Verdi"},
		{ID: "stu-02", FirstName: "Sofia", LastName: "albano", FullName: "Sofia albano"},
		{ID: "stu-03", FirstName: "Luca", LastName: "Ricci", FullName: "Luca Ricci"},
	}
	engine := NewEngine()

	stats := engine.ClassStats(snap, "sub-math", mondayDate)

	require.Len(t, stats, 3)
	assert.Equal(t, "stu-02", stats[0].StudentID) // case-insensitive
	assert.Equal(t, "stu-03", stats[1].StudentID)
	assert.Equal(t, "stu-01", stats[2].StudentID)
	assert.Equal(t, "SA", stats[0].Initials)
}

func TestSubjectHistoryMostRecentFirst(t *testing.T) {
	snap := testSnapshot()
	grade := 7.5
	snap.Interrogations = append(snap.Interrogations,
		models.Interrogation{ID: "int-1", StudentID: "stu-01", SubjectID: "sub-math", Date: "2024-09-20", Grade: &grade},
		models.Interrogation{ID: "int-2", StudentID: "stu-01", SubjectID: "sub-math", Date: "2024-10-14"},
		models.Interrogation{ID: "int-3", StudentID: "stu-02", SubjectID: "sub-math", Date: "2024-10-01"},
		models.Interrogation{ID: "int-4", StudentID: "stu-01", SubjectID: "sub-hist", Date: "2024-10-02"},
	)
	engine := NewEngine()

	history := engine.SubjectHistory(snap, "stu-01", "sub-math")

	require.Len(t, history, 2)
	assert.Equal(t, "int-2", history[0].ID)
	assert.Equal(t, "int-1", history[1].ID)
}

func TestClassHistorySpansAllStudents(t *testing.T) {
	snap := testSnapshot()
	snap.Interrogations = append(snap.Interrogations,
		models.Interrogation{ID: "int-1", StudentID: "stu-01", SubjectID: "sub-math", Date: "2024-09-20"},
		models.Interrogation{ID: "int-2", StudentID: "stu-02", SubjectID: "sub-math", Date: "2024-10-14"},
		models.Interrogation{ID: "int-3", StudentID: "stu-03", SubjectID: "sub-math", Date: "2024-10-14"},
		models.Interrogation{ID: "int-4", StudentID: "stu-01", SubjectID: "sub-hist", Date: "2024-10-02"},
	)
	engine := NewEngine()

	history := engine.ClassHistory(snap, "sub-math")

	require.Len(t, history, 3)
	assert.Equal(t, "int-2", history[0].ID)
	assert.Equal(t, "int-3", history[1].ID)
	assert.Equal(t, "int-1", history[2].ID)
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{
		StatusVacation, StatusNotScheduled, StatusNoStudents, StatusVolunteer,
		StatusAlreadyInterrogated, StatusAbsent, StatusNoEligible, StatusNoSlots,
		StatusAtRisk,
	} {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, Status("examined").Valid())
}
