package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
)

type memorySeedStore struct {
	classes        []models.Class
	students       []models.Student
	teachers       []models.Teacher
	subjects       []models.Subject
	schedule       []models.ScheduleEntry
	interrogations []models.Interrogation
}

func (m *memorySeedStore) createClass(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = "cls-seed"
	}
	m.classes = append(m.classes, *class)
	return nil
}

type seedClassWriter struct{ store *memorySeedStore }

func (w seedClassWriter) Create(ctx context.Context, class *models.Class) error {
	return w.store.createClass(ctx, class)
}

type seedStudentWriter struct{ store *memorySeedStore }

func (w seedStudentWriter) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = student.FirstName + "-" + student.LastName
	}
	w.store.students = append(w.store.students, *student)
	return nil
}

type seedTeacherWriter struct{ store *memorySeedStore }

func (w seedTeacherWriter) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = teacher.FullName
	}
	w.store.teachers = append(w.store.teachers, *teacher)
	return nil
}

type seedSubjectWriter struct{ store *memorySeedStore }

func (w seedSubjectWriter) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = subject.Name
	}
	w.store.subjects = append(w.store.subjects, *subject)
	return nil
}

type seedScheduleWriter struct{ store *memorySeedStore }

func (w seedScheduleWriter) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	w.store.schedule = append(w.store.schedule, *entry)
	return nil
}

type seedInterrogationWriter struct{ store *memorySeedStore }

func (w seedInterrogationWriter) Create(ctx context.Context, interrogation *models.Interrogation) error {
	w.store.interrogations = append(w.store.interrogations, *interrogation)
	return nil
}

func newSeedFixture() (*memorySeedStore, *SimulationService) {
	store := &memorySeedStore{}
	svc := NewSimulationService(
		seedClassWriter{store},
		seedStudentWriter{store},
		seedTeacherWriter{store},
		seedSubjectWriter{store},
		seedScheduleWriter{store},
		seedInterrogationWriter{store},
		nil, nil, nil,
	)
	return store, svc
}

func TestSimulationSeedDefaults(t *testing.T) {
	store, svc := newSeedFixture()

	seed := int64(42)
	resp, err := svc.Seed(context.Background(), dto.SimulationRequest{Seed: &seed})
	require.NoError(t, err)

	assert.Equal(t, 20, resp.Students)
	assert.Equal(t, 6, resp.Subjects)
	assert.Len(t, store.students, 20)
	assert.Len(t, store.subjects, 6)
	assert.Len(t, store.teachers, 6)
	assert.NotEmpty(t, store.schedule)
	assert.Equal(t, len(store.interrogations), resp.Interrogations)

	// every subject gets 2 or 3 weekday slots inside the school week
	perSubject := make(map[string]int)
	for _, entry := range store.schedule {
		assert.GreaterOrEqual(t, entry.DayOfWeek, 1)
		assert.LessOrEqual(t, entry.DayOfWeek, models.DefaultSchoolDays)
		perSubject[entry.SubjectID]++
	}
	for _, slots := range perSubject {
		assert.GreaterOrEqual(t, slots, 2)
		assert.LessOrEqual(t, slots, 3)
	}
}

func TestSimulationSeedUniqueStudentNames(t *testing.T) {
	store, svc := newSeedFixture()

	seed := int64(7)
	_, err := svc.Seed(context.Background(), dto.SimulationRequest{Students: 30, Seed: &seed})
	require.NoError(t, err)

	names := make(map[string]struct{})
	for _, student := range store.students {
		key := student.FirstName + " " + student.LastName
		_, dup := names[key]
		assert.False(t, dup, "duplicate student name %s", key)
		names[key] = struct{}{}
	}
}

func TestSimulationSeedHistoryHasNoDuplicates(t *testing.T) {
	store, svc := newSeedFixture()

	seed := int64(99)
	_, err := svc.Seed(context.Background(), dto.SimulationRequest{HistoryDays: 60, Seed: &seed})
	require.NoError(t, err)

	type slot struct{ student, subject, date string }
	seen := make(map[slot]struct{})
	for _, interrogation := range store.interrogations {
		key := slot{interrogation.StudentID, interrogation.SubjectID, interrogation.Date}
		_, dup := seen[key]
		assert.False(t, dup, "duplicate interrogation %v", key)
		seen[key] = struct{}{}
		require.NotNil(t, interrogation.Grade)
		assert.GreaterOrEqual(t, *interrogation.Grade, 4.0)
		assert.LessOrEqual(t, *interrogation.Grade, 10.0)
	}
}
