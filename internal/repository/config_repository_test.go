package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideferri/interro-risk-api/internal/models"
)

func TestConfigRepositoryDefaultsWhenMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigRepository(db)

	mock.ExpectQuery("SELECT class_id, school_days, cycle_threshold, cycle_return, updated_at FROM class_configs").
		WithArgs("cls-1").
		WillReturnRows(sqlmock.NewRows([]string{"class_id", "school_days", "cycle_threshold", "cycle_return", "updated_at"}))
	mock.ExpectQuery("SELECT subject_id, avg_per_day FROM subject_averages").
		WithArgs("cls-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "avg_per_day"}))

	cfg, err := repo.GetByClass(context.Background(), "cls-1")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSchoolDays, cfg.SchoolDays)
	assert.Equal(t, models.DefaultCycleThreshold, cfg.CycleThreshold)
	assert.Equal(t, models.DefaultCycleReturn, cfg.CycleReturn)
	assert.Empty(t, cfg.AvgPerDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepositoryStoredRowWithAverages(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigRepository(db)

	mock.ExpectQuery("SELECT class_id, school_days, cycle_threshold, cycle_return, updated_at FROM class_configs").
		WithArgs("cls-1").
		WillReturnRows(sqlmock.NewRows([]string{"class_id", "school_days", "cycle_threshold", "cycle_return", "updated_at"}).
			AddRow("cls-1", 6, 50, 3, time.Now()))
	mock.ExpectQuery("SELECT subject_id, avg_per_day FROM subject_averages").
		WithArgs("cls-1").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "avg_per_day"}).
			AddRow("sub-math", 2).
			AddRow("sub-lat", 3))

	cfg, err := repo.GetByClass(context.Background(), "cls-1")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.SchoolDays)
	assert.Equal(t, 50, cfg.CycleThreshold)
	assert.Equal(t, 3, cfg.CycleReturn)
	assert.Equal(t, 2, cfg.AvgFor("sub-math"))
	assert.Equal(t, 3, cfg.AvgFor("sub-lat"))
	assert.Equal(t, 1, cfg.AvgFor("sub-other"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepositorySaveUpserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO class_configs")).
		WithArgs("cls-1", 5, 80, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	cfg := models.DefaultClassConfig()
	require.NoError(t, repo.Save(context.Background(), "cls-1", cfg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfigRepositorySetSubjectAverage(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewConfigRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subject_averages")).
		WithArgs("cls-1", "sub-math", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetSubjectAverage(context.Background(), "cls-1", "sub-math", 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}
