package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// ScheduleRepository manages the weekly timetable entries of a class.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByClass returns the full timetable of the class ordered by weekday.
func (r *ScheduleRepository) ListByClass(ctx context.Context, classID string) ([]models.ScheduleEntry, error) {
	const query = `SELECT id, class_id, subject_id, day_of_week, hours, created_at
        FROM schedule_entries WHERE class_id = $1 ORDER BY day_of_week ASC, created_at ASC, id ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, classID); err != nil {
		return nil, fmt.Errorf("list schedule: %w", err)
	}
	return entries, nil
}

// FindByID fetches a timetable entry by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	const query = `SELECT id, class_id, subject_id, day_of_week, hours, created_at FROM schedule_entries WHERE id = $1`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new timetable entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO schedule_entries (id, class_id, subject_id, day_of_week, hours, created_at)
        VALUES (:id, :class_id, :subject_id, :day_of_week, :hours, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// Delete removes a timetable entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_entries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// ReplaceDay swaps out all entries of one weekday in a single transaction.
func (r *ScheduleRepository) ReplaceDay(ctx context.Context, classID string, dayOfWeek int, entries []models.ScheduleEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace day: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE class_id = $1 AND day_of_week = $2`, classID, dayOfWeek); err != nil {
		return fmt.Errorf("clear day: %w", err)
	}

	const insert = `INSERT INTO schedule_entries (id, class_id, subject_id, day_of_week, hours, created_at)
        VALUES (:id, :class_id, :subject_id, :day_of_week, :hours, :created_at)`
	now := time.Now().UTC()
	for i := range entries {
		entries[i].ClassID = classID
		entries[i].DayOfWeek = dayOfWeek
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, insert, entries[i]); err != nil {
			return fmt.Errorf("insert day entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace day: %w", err)
	}
	return nil
}
