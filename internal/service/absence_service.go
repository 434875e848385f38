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

type absenceRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Absence, error)
	FindByID(ctx context.Context, id string) (*models.Absence, error)
	Create(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) error
}

// AbsenceService records per-day and per-subject absences.
type AbsenceService struct {
	repo      absenceRepository
	students  studentReader
	risks     riskInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs an AbsenceService.
func NewAbsenceService(repo absenceRepository, students studentReader, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{repo: repo, students: students, risks: risks, validator: validate, logger: logger}
}

// List returns every absence of the class.
func (s *AbsenceService) List(ctx context.Context, classID string) ([]models.Absence, error) {
	absences, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}
	return absences, nil
}

// Create records an absence.
func (s *AbsenceService) Create(ctx context.Context, classID string, req dto.CreateAbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
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

	absence := &models.Absence{
		ClassID:   classID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      req.Date,
	}
	if err := s.repo.Create(ctx, absence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record absence")
	}

	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
	return absence, nil
}

// Delete removes an absence.
func (s *AbsenceService) Delete(ctx context.Context, classID, id string) error {
	absence, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absence")
	}
	if absence.ClassID != classID {
		return appErrors.Clone(appErrors.ErrForbidden, "absence belongs to another class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete absence")
	}
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
	return nil
}
