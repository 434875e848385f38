package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// InterrogationRepository manages recorded oral exams.
type InterrogationRepository struct {
	db *sqlx.DB
}

// NewInterrogationRepository constructs an InterrogationRepository.
func NewInterrogationRepository(db *sqlx.DB) *InterrogationRepository {
	return &InterrogationRepository{db: db}
}

// List returns interrogations matching the provided filters, newest first.
func (r *InterrogationRepository) List(ctx context.Context, filter models.InterrogationFilter) ([]models.Interrogation, int, error) {
	base := "FROM interrogations i"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("i.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("i.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.SubjectID != "" {
		conditions = append(conditions, fmt.Sprintf("i.subject_id = $%d", len(args)+1))
		args = append(args, filter.SubjectID)
	}
	if filter.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("i.date >= $%d", len(args)+1))
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("i.date <= $%d", len(args)+1))
		args = append(args, filter.DateTo)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT i.id, i.class_id, i.student_id, i.subject_id, to_char(i.date, 'YYYY-MM-DD') AS date, i.grade, i.created_at
        %s ORDER BY i.date DESC, i.id ASC LIMIT %d OFFSET %d`, base, size, offset)

	var interrogations []models.Interrogation
	if err := r.db.SelectContext(ctx, &interrogations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list interrogations: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count interrogations: %w", err)
	}
	return interrogations, total, nil
}

// FindByID fetches an interrogation by ID.
func (r *InterrogationRepository) FindByID(ctx context.Context, id string) (*models.Interrogation, error) {
	const query = `SELECT id, class_id, student_id, subject_id, to_char(date, 'YYYY-MM-DD') AS date, grade, created_at
        FROM interrogations WHERE id = $1`
	var interrogation models.Interrogation
	if err := r.db.GetContext(ctx, &interrogation, query, id); err != nil {
		return nil, err
	}
	return &interrogation, nil
}

// Exists reports whether the student was already examined in the subject on
// the date.
func (r *InterrogationRepository) Exists(ctx context.Context, studentID, subjectID, date string) (bool, error) {
	const query = `SELECT 1 FROM interrogations WHERE student_id = $1 AND subject_id = $2 AND date = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, subjectID, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check interrogation: %w", err)
	}
	return true, nil
}

// Create inserts a new interrogation record.
func (r *InterrogationRepository) Create(ctx context.Context, interrogation *models.Interrogation) error {
	if interrogation.ID == "" {
		interrogation.ID = uuid.NewString()
	}
	if interrogation.CreatedAt.IsZero() {
		interrogation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO interrogations (id, class_id, student_id, subject_id, date, grade, created_at)
        VALUES (:id, :class_id, :student_id, :subject_id, :date, :grade, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, interrogation); err != nil {
		return fmt.Errorf("create interrogation: %w", err)
	}
	return nil
}

// UpdateGrade sets or clears the grade of a recorded interrogation.
func (r *InterrogationRepository) UpdateGrade(ctx context.Context, id string, grade *float64) error {
	const query = `UPDATE interrogations SET grade = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, grade); err != nil {
		return fmt.Errorf("update interrogation grade: %w", err)
	}
	return nil
}

// Delete removes an interrogation record.
func (r *InterrogationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM interrogations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete interrogation: %w", err)
	}
	return nil
}
