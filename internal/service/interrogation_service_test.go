package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

type mockInterrogationRepo struct {
	created   []*models.Interrogation
	existing  bool
	byID      *models.Interrogation
	deleted   []string
	gradeSets map[string]*float64
}

func (m *mockInterrogationRepo) List(ctx context.Context, filter models.InterrogationFilter) ([]models.Interrogation, int, error) {
	return nil, 0, nil
}

func (m *mockInterrogationRepo) FindByID(ctx context.Context, id string) (*models.Interrogation, error) {
	if m.byID == nil {
		return nil, sql.ErrNoRows
	}
	return m.byID, nil
}

func (m *mockInterrogationRepo) Exists(ctx context.Context, studentID, subjectID, date string) (bool, error) {
	return m.existing, nil
}

func (m *mockInterrogationRepo) Create(ctx context.Context, interrogation *models.Interrogation) error {
	m.created = append(m.created, interrogation)
	return nil
}

func (m *mockInterrogationRepo) UpdateGrade(ctx context.Context, id string, grade *float64) error {
	if m.gradeSets == nil {
		m.gradeSets = make(map[string]*float64)
	}
	m.gradeSets[id] = grade
	return nil
}

func (m *mockInterrogationRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockAbsenceChecker struct{ covering bool }

func (m *mockAbsenceChecker) ExistsCovering(ctx context.Context, studentID, date, subjectID string) (bool, error) {
	return m.covering, nil
}

type mockVacationChecker struct{ vacation bool }

func (m *mockVacationChecker) ExistsDate(ctx context.Context, classID, date string) (bool, error) {
	return m.vacation, nil
}

type mockStudentReader struct{ student *models.Student }

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.student == nil {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

type mockSubjectReader struct{ subject *models.Subject }

func (m *mockSubjectReader) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if m.subject == nil {
		return nil, sql.ErrNoRows
	}
	return m.subject, nil
}

type mockInvalidator struct{ classes []string }

func (m *mockInvalidator) InvalidateClass(ctx context.Context, classID string) {
	m.classes = append(m.classes, classID)
}

func newInterrogationFixture() (*mockInterrogationRepo, *mockAbsenceChecker, *mockVacationChecker, *mockInvalidator, *InterrogationService) {
	repo := &mockInterrogationRepo{}
	absences := &mockAbsenceChecker{}
	vacations := &mockVacationChecker{}
	invalidator := &mockInvalidator{}
	students := &mockStudentReader{student: &models.Student{ID: "stu-1", ClassID: "cls-1", FullName: "Marco Rossi"}}
	subjects := &mockSubjectReader{subject: &models.Subject{ID: "sub-1", ClassID: "cls-1", Name: "Matematica"}}
	svc := NewInterrogationService(repo, absences, vacations, students, subjects, invalidator, nil, nil)
	return repo, absences, vacations, invalidator, svc
}

func validCreateRequest() dto.CreateInterrogationRequest {
	return dto.CreateInterrogationRequest{StudentID: "stu-1", SubjectID: "sub-1", Date: "2024-11-11"}
}

func TestInterrogationCreateSuccess(t *testing.T) {
	repo, _, _, invalidator, svc := newInterrogationFixture()

	interrogation, err := svc.Create(context.Background(), "cls-1", validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "cls-1", interrogation.ClassID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, []string{"cls-1"}, invalidator.classes)
}

func TestInterrogationCreateRejectsDuplicate(t *testing.T) {
	repo, _, _, invalidator, svc := newInterrogationFixture()
	repo.existing = true

	_, err := svc.Create(context.Background(), "cls-1", validCreateRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicateInterrogation.Code, appErr.Code)
	assert.Empty(t, repo.created)
	assert.Empty(t, invalidator.classes)
}

func TestInterrogationCreateRejectsVacationDay(t *testing.T) {
	repo, _, vacations, _, svc := newInterrogationFixture()
	vacations.vacation = true

	_, err := svc.Create(context.Background(), "cls-1", validCreateRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrVacationDay.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestInterrogationCreateRejectsAbsentStudent(t *testing.T) {
	repo, absences, _, _, svc := newInterrogationFixture()
	absences.covering = true

	_, err := svc.Create(context.Background(), "cls-1", validCreateRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrStudentAbsent.Code, appErr.Code)
	assert.Empty(t, repo.created)
}

func TestInterrogationCreateRejectsMalformedDate(t *testing.T) {
	_, _, _, _, svc := newInterrogationFixture()

	req := validCreateRequest()
	req.Date = "11/11/2024"
	_, err := svc.Create(context.Background(), "cls-1", req)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestInterrogationCreateRejectsForeignStudent(t *testing.T) {
	_, _, _, _, svc := newInterrogationFixture()

	_, err := svc.Create(context.Background(), "cls-2", validCreateRequest())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestInterrogationUpdateGrade(t *testing.T) {
	repo, _, _, invalidator, svc := newInterrogationFixture()
	repo.byID = &models.Interrogation{ID: "int-1", ClassID: "cls-1", StudentID: "stu-1", SubjectID: "sub-1", Date: "2024-11-11"}

	grade := 7.5
	updated, err := svc.UpdateGrade(context.Background(), "cls-1", "int-1", dto.UpdateGradeRequest{Grade: &grade})
	require.NoError(t, err)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, 7.5, *updated.Grade)
	assert.Equal(t, []string{"cls-1"}, invalidator.classes)
}

func TestInterrogationDeleteForeignClass(t *testing.T) {
	repo, _, _, _, svc := newInterrogationFixture()
	repo.byID = &models.Interrogation{ID: "int-1", ClassID: "cls-other"}

	err := svc.Delete(context.Background(), "cls-1", "int-1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}
