package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

type scheduleRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
	ReplaceDay(ctx context.Context, classID string, dayOfWeek int, entries []models.ScheduleEntry) error
}

type scheduleConfigReader interface {
	GetByClass(ctx context.Context, classID string) (models.ClassConfig, error)
}

// ScheduleService manages the weekly timetable of a class.
type ScheduleService struct {
	repo      scheduleRepository
	subjects  subjectReader
	config    scheduleConfigReader
	risks     riskInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, subjects subjectReader, config scheduleConfigReader, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, subjects: subjects, config: config, risks: risks, validator: validate, logger: logger}
}

// List returns the full timetable of the class.
func (s *ScheduleService) List(ctx context.Context, classID string) ([]models.ScheduleEntry, error) {
	entries, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return entries, nil
}

// Create adds a timetable slot. The weekday must fall inside the configured
// school week.
func (s *ScheduleService) Create(ctx context.Context, classID string, req dto.CreateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := s.checkDay(ctx, classID, req.DayOfWeek); err != nil {
		return nil, err
	}
	if err := s.checkSubject(ctx, classID, req.SubjectID); err != nil {
		return nil, err
	}

	hours := req.Hours
	if hours < 1 {
		hours = 1
	}
	entry := &models.ScheduleEntry{
		ClassID:   classID,
		SubjectID: req.SubjectID,
		DayOfWeek: req.DayOfWeek,
		Hours:     hours,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	s.invalidate(ctx, classID)
	return entry, nil
}

// ReplaceDay swaps out the entire timetable of one weekday.
func (s *ScheduleService) ReplaceDay(ctx context.Context, classID string, req dto.ReplaceScheduleDayRequest) ([]models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := s.checkDay(ctx, classID, req.DayOfWeek); err != nil {
		return nil, err
	}

	entries := make([]models.ScheduleEntry, 0, len(req.Entries))
	for _, item := range req.Entries {
		if err := s.checkSubject(ctx, classID, item.SubjectID); err != nil {
			return nil, err
		}
		hours := item.Hours
		if hours < 1 {
			hours = 1
		}
		entries = append(entries, models.ScheduleEntry{SubjectID: item.SubjectID, Hours: hours})
	}

	if err := s.repo.ReplaceDay(ctx, classID, req.DayOfWeek, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace schedule day")
	}
	s.invalidate(ctx, classID)
	return entries, nil
}

// Delete removes a timetable slot.
func (s *ScheduleService) Delete(ctx context.Context, classID, id string) error {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if entry.ClassID != classID {
		return appErrors.Clone(appErrors.ErrForbidden, "schedule entry belongs to another class")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.invalidate(ctx, classID)
	return nil
}

func (s *ScheduleService) checkDay(ctx context.Context, classID string, dayOfWeek int) error {
	cfg, err := s.config.GetByClass(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class config")
	}
	if dayOfWeek < 1 || dayOfWeek > cfg.SchoolDays {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day_of_week must be between 1 and %d", cfg.SchoolDays))
	}
	return nil
}

func (s *ScheduleService) checkSubject(ctx context.Context, classID, subjectID string) error {
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
	return nil
}

func (s *ScheduleService) invalidate(ctx context.Context, classID string) {
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
}
