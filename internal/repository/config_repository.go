package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// ConfigRepository manages per-class rotation and calendar configuration.
// A class without a stored row runs on defaults.
type ConfigRepository struct {
	db *sqlx.DB
}

// NewConfigRepository constructs a ConfigRepository.
func NewConfigRepository(db *sqlx.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

type classConfigRow struct {
	ClassID        string    `db:"class_id"`
	SchoolDays     int       `db:"school_days"`
	CycleThreshold int       `db:"cycle_threshold"`
	CycleReturn    int       `db:"cycle_return"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type subjectAvgRow struct {
	SubjectID string `db:"subject_id"`
	AvgPerDay int    `db:"avg_per_day"`
}

// GetByClass loads the class configuration, falling back to defaults for a
// class that was never tuned.
func (r *ConfigRepository) GetByClass(ctx context.Context, classID string) (models.ClassConfig, error) {
	cfg := models.DefaultClassConfig()

	var row classConfigRow
	err := r.db.GetContext(ctx, &row, `SELECT class_id, school_days, cycle_threshold, cycle_return, updated_at FROM class_configs WHERE class_id = $1`, classID)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return cfg, fmt.Errorf("get class config: %w", err)
	default:
		cfg.SchoolDays = row.SchoolDays
		cfg.CycleThreshold = row.CycleThreshold
		cfg.CycleReturn = row.CycleReturn
	}

	var avgs []subjectAvgRow
	if err := r.db.SelectContext(ctx, &avgs, `SELECT subject_id, avg_per_day FROM subject_averages WHERE class_id = $1`, classID); err != nil {
		return cfg, fmt.Errorf("get subject averages: %w", err)
	}
	for _, a := range avgs {
		cfg.AvgPerDay[a.SubjectID] = a.AvgPerDay
	}
	return cfg, nil
}

// Save upserts the class configuration row.
func (r *ConfigRepository) Save(ctx context.Context, classID string, cfg models.ClassConfig) error {
	const query = `INSERT INTO class_configs (class_id, school_days, cycle_threshold, cycle_return, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (class_id) DO UPDATE SET school_days = EXCLUDED.school_days, cycle_threshold = EXCLUDED.cycle_threshold, cycle_return = EXCLUDED.cycle_return, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, classID, cfg.SchoolDays, cfg.CycleThreshold, cfg.CycleReturn, time.Now().UTC()); err != nil {
		return fmt.Errorf("save class config: %w", err)
	}
	return nil
}

// SetSubjectAverage upserts the typical interrogations-per-day of a subject.
func (r *ConfigRepository) SetSubjectAverage(ctx context.Context, classID, subjectID string, avgPerDay int) error {
	const query = `INSERT INTO subject_averages (class_id, subject_id, avg_per_day)
        VALUES ($1, $2, $3)
        ON CONFLICT (class_id, subject_id) DO UPDATE SET avg_per_day = EXCLUDED.avg_per_day`
	if _, err := r.db.ExecContext(ctx, query, classID, subjectID, avgPerDay); err != nil {
		return fmt.Errorf("set subject average: %w", err)
	}
	return nil
}

// DeleteSubjectAverage drops a subject override so the default applies again.
func (r *ConfigRepository) DeleteSubjectAverage(ctx context.Context, classID, subjectID string) error {
	const query = `DELETE FROM subject_averages WHERE class_id = $1 AND subject_id = $2`
	if _, err := r.db.ExecContext(ctx, query, classID, subjectID); err != nil {
		return fmt.Errorf("delete subject average: %w", err)
	}
	return nil
}
