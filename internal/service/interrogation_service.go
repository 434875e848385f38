package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

type interrogationRepository interface {
	List(ctx context.Context, filter models.InterrogationFilter) ([]models.Interrogation, int, error)
	FindByID(ctx context.Context, id string) (*models.Interrogation, error)
	Exists(ctx context.Context, studentID, subjectID, date string) (bool, error)
	Create(ctx context.Context, interrogation *models.Interrogation) error
	UpdateGrade(ctx context.Context, id string, grade *float64) error
	Delete(ctx context.Context, id string) error
}

type absenceChecker interface {
	ExistsCovering(ctx context.Context, studentID, date, subjectID string) (bool, error)
}

type vacationChecker interface {
	ExistsDate(ctx context.Context, classID, date string) (bool, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type riskInvalidator interface {
	InvalidateClass(ctx context.Context, classID string)
}

// InterrogationService records oral exams and enforces the write-side rules
// around them.
type InterrogationService struct {
	repo      interrogationRepository
	absences  absenceChecker
	vacations vacationChecker
	students  studentReader
	subjects  subjectReader
	risks     riskInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInterrogationService constructs an InterrogationService.
func NewInterrogationService(repo interrogationRepository, absences absenceChecker, vacations vacationChecker, students studentReader, subjects subjectReader, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *InterrogationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterrogationService{
		repo:      repo,
		absences:  absences,
		vacations: vacations,
		students:  students,
		subjects:  subjects,
		risks:     risks,
		validator: validate,
		logger:    logger,
	}
}

// List returns interrogations of the class matching the filter.
func (s *InterrogationService) List(ctx context.Context, filter models.InterrogationFilter) ([]models.Interrogation, int, error) {
	interrogations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interrogations")
	}
	return interrogations, total, nil
}

// Create records a new oral exam. A student cannot be examined twice in the
// same subject on the same day, on a vacation day, or while marked absent.
func (s *InterrogationService) Create(ctx context.Context, classID string, req dto.CreateInterrogationRequest) (*models.Interrogation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid interrogation payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.ClassID != classID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student belongs to another class")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if subject.ClassID != classID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject belongs to another class")
	}

	vacation, err := s.vacations.ExistsDate(ctx, classID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vacations")
	}
	if vacation {
		return nil, appErrors.Clone(appErrors.ErrVacationDay, "cannot record an interrogation on a vacation day")
	}

	absent, err := s.absences.ExistsCovering(ctx, req.StudentID, req.Date, req.SubjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check absences")
	}
	if absent {
		return nil, appErrors.Clone(appErrors.ErrStudentAbsent, "student is marked absent on that date")
	}

	duplicate, err := s.repo.Exists(ctx, req.StudentID, req.SubjectID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicates")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrDuplicateInterrogation, "student already interrogated in this subject on that date")
	}

	interrogation := &models.Interrogation{
		ClassID:   classID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      req.Date,
		Grade:     req.Grade,
	}
	if err := s.repo.Create(ctx, interrogation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record interrogation")
	}

	s.invalidate(ctx, classID)
	s.logger.Info("interrogation recorded",
		zap.String("class_id", classID),
		zap.String("student_id", req.StudentID),
		zap.String("subject_id", req.SubjectID),
		zap.String("date", req.Date))
	return interrogation, nil
}

// UpdateGrade sets or clears the grade of a recorded exam.
func (s *InterrogationService) UpdateGrade(ctx context.Context, classID, id string, req dto.UpdateGradeRequest) (*models.Interrogation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	interrogation, err := s.requireInClass(ctx, classID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateGrade(ctx, id, req.Grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	interrogation.Grade = req.Grade

	s.invalidate(ctx, classID)
	return interrogation, nil
}

// Delete removes a recorded exam.
func (s *InterrogationService) Delete(ctx context.Context, classID, id string) error {
	if _, err := s.requireInClass(ctx, classID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete interrogation")
	}
	s.invalidate(ctx, classID)
	return nil
}

func (s *InterrogationService) requireInClass(ctx context.Context, classID, id string) (*models.Interrogation, error) {
	interrogation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interrogation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interrogation")
	}
	if interrogation.ClassID != classID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "interrogation belongs to another class")
	}
	return interrogation, nil
}

func (s *InterrogationService) invalidate(ctx context.Context, classID string) {
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
}
