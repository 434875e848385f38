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

// AbsenceRepository manages recorded absences.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

// ListByClass returns every absence of the class, newest first.
func (r *AbsenceRepository) ListByClass(ctx context.Context, classID string) ([]models.Absence, error) {
	const query = `SELECT id, class_id, student_id, subject_id, to_char(date, 'YYYY-MM-DD') AS date, created_at
        FROM absences WHERE class_id = $1 ORDER BY date DESC, id ASC`
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query, classID); err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absences, nil
}

// FindByID fetches an absence by ID.
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*models.Absence, error) {
	const query = `SELECT id, class_id, student_id, subject_id, to_char(date, 'YYYY-MM-DD') AS date, created_at
        FROM absences WHERE id = $1`
	var absence models.Absence
	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// ExistsCovering reports whether the student has an absence on the date that
// covers the subject. A full-day absence (NULL subject_id) covers everything.
func (r *AbsenceRepository) ExistsCovering(ctx context.Context, studentID, date, subjectID string) (bool, error) {
	const query = `SELECT 1 FROM absences WHERE student_id = $1 AND date = $2 AND (subject_id IS NULL OR subject_id = $3) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, date, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check absence: %w", err)
	}
	return true, nil
}

// Create inserts a new absence record.
func (r *AbsenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO absences (id, class_id, student_id, subject_id, date, created_at)
        VALUES (:id, :class_id, :student_id, :subject_id, :date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, absence); err != nil {
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// Delete removes an absence record.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM absences WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete absence: %w", err)
	}
	return nil
}
