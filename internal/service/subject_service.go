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

type subjectRepository interface {
	ListByClass(ctx context.Context, classID string) ([]models.Subject, error)
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// SubjectService manages the subjects of a class.
type SubjectService struct {
	repo      subjectRepository
	teachers  teacherReader
	risks     riskInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService.
func NewSubjectService(repo subjectRepository, teachers teacherReader, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, teachers: teachers, risks: risks, validator: validate, logger: logger}
}

// List returns every subject of the class.
func (s *SubjectService) List(ctx context.Context, classID string) ([]models.Subject, error) {
	subjects, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return subjects, nil
}

// Create adds a subject.
func (s *SubjectService) Create(ctx context.Context, classID string, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	if err := s.checkTeacher(ctx, classID, req.TeacherID); err != nil {
		return nil, err
	}
	subject := &models.Subject{ClassID: classID, Name: req.Name, TeacherID: req.TeacherID}
	if err := s.repo.Create(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}
	s.invalidate(ctx, classID)
	return subject, nil
}

// Update edits an existing subject.
func (s *SubjectService) Update(ctx context.Context, classID, id string, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject, err := s.requireInClass(ctx, classID, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeacher(ctx, classID, req.TeacherID); err != nil {
		return nil, err
	}
	subject.Name = req.Name
	subject.TeacherID = req.TeacherID
	if err := s.repo.Update(ctx, subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}
	s.invalidate(ctx, classID)
	return subject, nil
}

// Delete removes a subject and its dependent records.
func (s *SubjectService) Delete(ctx context.Context, classID, id string) error {
	if _, err := s.requireInClass(ctx, classID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}
	s.invalidate(ctx, classID)
	return nil
}

func (s *SubjectService) checkTeacher(ctx context.Context, classID string, teacherID *string) error {
	if teacherID == nil || *teacherID == "" {
		return nil
	}
	teacher, err := s.teachers.FindByID(ctx, *teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if teacher.ClassID != classID {
		return appErrors.Clone(appErrors.ErrForbidden, "teacher belongs to another class")
	}
	return nil
}

func (s *SubjectService) requireInClass(ctx context.Context, classID, id string) (*models.Subject, error) {
	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if subject.ClassID != classID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject belongs to another class")
	}
	return subject, nil
}

func (s *SubjectService) invalidate(ctx context.Context, classID string) {
	if s.risks != nil {
		s.risks.InvalidateClass(ctx, classID)
	}
}
