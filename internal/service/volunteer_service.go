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

type volunteerRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Volunteer, error)
	FindByID(ctx context.Context, id string) (*models.Volunteer, error)
	Exists(ctx context.Context, studentID, subjectID, date string) (bool, error)
	Create(ctx context.Context, volunteer *models.Volunteer) error
	Delete(ctx context.Context, id string) error
}

type interrogationChecker interface {
	Exists(ctx context.Context, studentID, subjectID, date string) (bool, error)
}

// VolunteerService records students stepping forward for an exam.
type VolunteerService struct {
	repo           volunteerRepository
	interrogations interrogationChecker
	vacations      vacationChecker
	risks          riskInvalidator
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewVolunteerService constructs a VolunteerService.
func NewVolunteerService(repo volunteerRepository, interrogations interrogationChecker, vacations vacationChecker, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *VolunteerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VolunteerService{
		repo:           repo,
		interrogations: interrogations,
		vacations:      vacations,
		risks:          risks,
		validator:      validate,
		logger:         logger,
	}
}

// List returns every volunteer entry of the class.
func (s *VolunteerService) List(ctx context.Context, classID string) ([]models.Volunteer, error) {
	volunteers, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list volunteers")
	}
	return volunteers, nil
}

// Create records a volunteer. Students cannot volunteer twice for the same
// slot, on a vacation day, or after already being examined that day.
func (s *VolunteerService) Create(ctx context.Context, classID string, req dto.CreateVolunteerRequest) (*models.Volunteer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid volunteer payload")
	}

	vacation, err := s.vacations.ExistsDate(ctx, classID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check vacations")
	}
	if vacation {
		return nil, appErrors.Clone(appErrors.ErrVacationDay, "cannot volunteer for a vacation day")
	}

	examined, err := s.interrogations.Exists(ctx, req.StudentID, req.SubjectID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check interrogations")
	}
	if examined {
		return nil, appErrors.Clone(appErrors.ErrAlreadyInterrogated, "student already interrogated in this subject on that date")
	}

	duplicate, err := s.repo.Exists(ctx, req.StudentID, req.SubjectID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicates")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrAlreadyVolunteered, "student already volunteered for this subject on that date")
	}

	volunteer := &models.Volunteer{
		ClassID:   classID,
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      req.Date,
	}
	if err := s.repo.Create(ctx, volunteer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record volunteer")
	}

	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
	s.logger.Info("volunteer recorded",
		zap.String("class_id", classID),
		zap.String("student_id", req.StudentID),
		zap.String("subject_id", req.SubjectID),
		zap.String("date", req.Date))
	return volunteer, nil
}

// Delete withdraws a volunteer entry.
func (s *VolunteerService) Delete(ctx context.Context, classID, id string) error {
	volunteer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "volunteer entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load volunteer entry")
	}
	if volunteer.ClassID != classID {
		return appErrors.Clone(appErrors.ErrForbidden, "volunteer entry belongs to another class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete volunteer entry")
	}
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
	return nil
}
