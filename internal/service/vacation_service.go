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

type vacationRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Vacation, error)
	FindByID(ctx context.Context, id string) (*models.Vacation, error)
	ExistsDate(ctx context.Context, classID, date string) (bool, error)
	Create(ctx context.Context, vacation *models.Vacation) error
	Delete(ctx context.Context, id string) error
}

// VacationService manages per-class no-school dates.
type VacationService struct {
	repo      vacationRepository
	risks     riskInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewVacationService constructs a VacationService.
func NewVacationService(repo vacationRepository, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *VacationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VacationService{repo: repo, risks: risks, validator: validate, logger: logger}
}

// List returns every vacation day of the class.
func (s *VacationService) List(ctx context.Context, classID string) ([]models.Vacation, error) {
	vacations, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list vacations")
	}
	return vacations, nil
}

// Create marks a date as vacation. A date can only be marked once per class.
func (s *VacationService) Create(ctx context.Context, classID string, req dto.CreateVacationRequest) (*models.Vacation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation payload")
	}

	duplicate, err := s.repo.ExistsDate(ctx, classID, req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check duplicates")
	}
	if duplicate {
		return nil, appErrors.Clone(appErrors.ErrDuplicateVacation, "date is already marked as vacation")
	}

	vacation := &models.Vacation{ClassID: classID, Date: req.Date, Note: req.Note}
	if err := s.repo.Create(ctx, vacation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record vacation")
	}

	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
	return vacation, nil
}

// Delete unmarks a vacation day.
func (s *VacationService) Delete(ctx context.Context, classID, id string) error {
	vacation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "vacation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load vacation")
	}
	if vacation.ClassID != classID {
		return appErrors.Clone(appErrors.ErrForbidden, "vacation belongs to another class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete vacation")
	}
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
	return nil
}
