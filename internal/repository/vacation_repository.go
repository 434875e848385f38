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

// VacationRepository manages vacation days.
type VacationRepository struct {
	db *sqlx.DB
}

// NewVacationRepository constructs a VacationRepository.
func NewVacationRepository(db *sqlx.DB) *VacationRepository {
	return &VacationRepository{db: db}
}

// ListByClass returns every vacation day of the class in ascending date order.
func (r *VacationRepository) ListByClass(ctx context.Context, classID string) ([]models.Vacation, error) {
	const query = `SELECT id, class_id, to_char(date, 'YYYY-MM-DD') AS date, note, created_at
        FROM vacations WHERE class_id = $1 ORDER BY date ASC, id ASC`
	var vacations []models.Vacation
	if err := r.db.SelectContext(ctx, &vacations, query, classID); err != nil {
		return nil, fmt.Errorf("list vacations: %w", err)
	}
	return vacations, nil
}

// FindByID fetches a vacation day by ID.
func (r *VacationRepository) FindByID(ctx context.Context, id string) (*models.Vacation, error) {
	const query = `SELECT id, class_id, to_char(date, 'YYYY-MM-DD') AS date, note, created_at FROM vacations WHERE id = $1`
	var vacation models.Vacation
	if err := r.db.GetContext(ctx, &vacation, query, id); err != nil {
		return nil, err
	}
	return &vacation, nil
}

// ExistsDate reports whether the class already has the date marked.
func (r *VacationRepository) ExistsDate(ctx context.Context, classID, date string) (bool, error) {
	const query = `SELECT 1 FROM vacations WHERE class_id = $1 AND date = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classID, date); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check vacation: %w", err)
	}
	return true, nil
}

// Create inserts a new vacation day.
func (r *VacationRepository) Create(ctx context.Context, vacation *models.Vacation) error {
	if vacation.ID == "" {
		vacation.ID = uuid.NewString()
	}
	if vacation.CreatedAt.IsZero() {
		vacation.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO vacations (id, class_id, date, note, created_at)
        VALUES (:id, :class_id, :date, :note, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, vacation); err != nil {
		return fmt.Errorf("create vacation: %w", err)
	}
	return nil
}

// Delete removes a vacation day.
func (r *VacationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM vacations WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete vacation: %w", err)
	}
	return nil
}
