package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// VolunteerRepository manages volunteer declarations.
type VolunteerRepository struct {
	db *sqlx.DB
}

// NewVolunteerRepository constructs a VolunteerRepository.
func NewVolunteerRepository(db *sqlx.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// ListByClass returns every volunteer entry of the class, newest first.
func (r *VolunteerRepository) ListByClass(ctx context.Context, classID string) ([]models.Volunteer, error) {
	const query = `SELECT id, class_id, student_id, subject_id, to_char(date, 'YYYY-MM-DD') AS date, created_at
        FROM volunteers WHERE class_id = $1 ORDER BY date DESC, id ASC`
	var volunteers []models.Volunteer
	if err := r.db.SelectContext(ctx, &volunteers, query, classID); err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}
	return volunteers, nil
}

// FindByID fetches a volunteer entry by ID.
func (r *VolunteerRepository) FindByID(ctx context.Context, id string) (*models.Volunteer, error) {
	const query = `SELECT id, class_id, student_id, subject_id, to_char(date, 'YYYY-MM-DD') AS date, created_at
        FROM volunteers WHERE id = $1`
	var volunteer models.Volunteer
	if err := r.db.GetContext(ctx, &volunteer, query, id); err != nil {
		return nil, err
	}
	return &volunteer, nil
}

// Exists reports whether the student already volunteered for the subject on
// the date.
func (r *VolunteerRepository) Exists(ctx context.Context, studentID, subjectID, date string) (bool, error) {
	const query = `SELECT 1 FROM volunteers WHERE student_id = $1 AND subject_id = $2 AND date = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, subjectID, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check volunteer: %w", err)
	}
	return true, nil
}

// Create inserts a new volunteer entry.
func (r *VolunteerRepository) Create(ctx context.Context, volunteer *models.Volunteer) error {
	if volunteer.ID == "" {
		volunteer.ID = uuid.NewString()
	}
	if volunteer.CreatedAt.IsZero() {
		volunteer.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO volunteers (id, class_id, student_id, subject_id, date, created_at)
        VALUES (:id, :class_id, :student_id, :subject_id, :date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, volunteer); err != nil {
		return fmt.Errorf("create volunteer: %w", err)
	}
	return nil
}

// Delete removes a volunteer entry.
func (r *VolunteerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM volunteers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}
	return nil
}
