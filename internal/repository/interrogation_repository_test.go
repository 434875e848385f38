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

func TestInterrogationRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterrogationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM interrogations WHERE student_id = $1 AND subject_id = $2 AND date = $3 LIMIT 1")).
		WithArgs("stu-1", "sub-1", "2024-11-11").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "stu-1", "sub-1", "2024-11-11")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterrogationRepositoryExistsNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterrogationRepository(db)

	mock.ExpectQuery("SELECT 1 FROM interrogations").
		WithArgs("stu-1", "sub-1", "2024-11-11").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	exists, err := repo.Exists(context.Background(), "stu-1", "sub-1", "2024-11-11")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterrogationRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterrogationRepository(db)

	grade := 7.5
	rows := sqlmock.NewRows([]string{"id", "class_id", "student_id", "subject_id", "date", "grade", "created_at"}).
		AddRow("int-1", "cls-1", "stu-1", "sub-1", "2024-11-11", grade, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT i.id, i.class_id, i.student_id, i.subject_id, to_char(i.date, 'YYYY-MM-DD') AS date, i.grade, i.created_at\n        FROM interrogations i WHERE 1=1 AND i.class_id = $1 AND i.subject_id = $2 ORDER BY i.date DESC, i.id ASC LIMIT 50 OFFSET 0")).
		WithArgs("cls-1", "sub-1").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM interrogations i WHERE 1=1 AND i.class_id = $1 AND i.subject_id = $2")).
		WithArgs("cls-1", "sub-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	interrogations, total, err := repo.List(context.Background(), models.InterrogationFilter{ClassID: "cls-1", SubjectID: "sub-1"})
	require.NoError(t, err)
	require.Len(t, interrogations, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "2024-11-11", interrogations[0].Date)
	require.NotNil(t, interrogations[0].Grade)
	assert.Equal(t, 7.5, *interrogations[0].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterrogationRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterrogationRepository(db)

	mock.ExpectExec("INSERT INTO interrogations").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	interrogation := &models.Interrogation{ClassID: "cls-1", StudentID: "stu-1", SubjectID: "sub-1", Date: "2024-11-11"}
	err := repo.Create(context.Background(), interrogation)
	require.NoError(t, err)
	assert.NotEmpty(t, interrogation.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterrogationRepositoryUpdateGrade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterrogationRepository(db)

	grade := 8.0
	mock.ExpectExec(regexp.QuoteMeta("UPDATE interrogations SET grade = $2 WHERE id = $1")).
		WithArgs("int-1", grade).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateGrade(context.Background(), "int-1", &grade))
	assert.NoError(t, mock.ExpectationsWereMet())
}
