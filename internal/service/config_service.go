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

type configRepository interface {
	GetByClass(ctx context.Context, classID string) (models.ClassConfig, error)
	Save(ctx context.Context, classID string, cfg models.ClassConfig) error
	SetSubjectAverage(ctx context.Context, classID, subjectID string, avgPerDay int) error
	DeleteSubjectAverage(ctx context.Context, classID, subjectID string) error
}

// ConfigService manages the rotation and calendar tuning of a class.
type ConfigService struct {
	repo      configRepository
	subjects  subjectReader
	risks     riskInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigService constructs a ConfigService.
func NewConfigService(repo configRepository, subjects subjectReader, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *ConfigService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigService{repo: repo, subjects: subjects, risks: risks, validator: validate, logger: logger}
}

// Get returns the effective configuration of the class.
func (s *ConfigService) Get(ctx context.Context, classID string) (models.ClassConfig, error) {
	cfg, err := s.repo.GetByClass(ctx, classID)
	if err != nil {
		return cfg, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class config")
	}
	return cfg, nil
}

// Update stores new rotation settings.
func (s *ConfigService) Update(ctx context.Context, classID string, req dto.UpdateConfigRequest) (models.ClassConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ClassConfig{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid config payload")
	}

	cfg, err := s.repo.GetByClass(ctx, classID)
	if err != nil {
		return cfg, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class config")
	}
	cfg.SchoolDays = req.SchoolDays
	cfg.CycleThreshold = req.CycleThreshold
	cfg.CycleReturn = req.CycleReturn

	if err := s.repo.Save(ctx, classID, cfg); err != nil {
		return cfg, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save class config")
	}

	s.invalidate(ctx, classID)
	s.logger.Info("class config updated",
		zap.String("class_id", classID),
		zap.Int("school_days", cfg.SchoolDays),
		zap.Int("cycle_threshold", cfg.CycleThreshold),
		zap.Int("cycle_return", cfg.CycleReturn))
	return cfg, nil
}

// SetSubjectAverage overrides the typical interrogations-per-day of one
// subject.
func (s *ConfigService) SetSubjectAverage(ctx context.Context, classID, subjectID string, req dto.SetSubjectAverageRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid average payload")
	}

	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if subject.ClassID != classID {
		return appErrors.Clone(appErrors.ErrForbidden, "subject belongs to another class")
	}

	if err := s.repo.SetSubjectAverage(ctx, classID, subjectID, req.AvgPerDay); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set subject average")
	}
	s.invalidate(ctx, classID)
	return nil
}

// ClearSubjectAverage removes a subject override.
func (s *ConfigService) ClearSubjectAverage(ctx context.Context, classID, subjectID string) error {
	if err := s.repo.DeleteSubjectAverage(ctx, classID, subjectID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear subject average")
	}
	s.invalidate(ctx, classID)
	return nil
}

func (s *ConfigService) invalidate(ctx context.Context, classID string) {
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
}
