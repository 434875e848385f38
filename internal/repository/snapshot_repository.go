package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/davideferri/interro-risk-api/internal/models"
)

// SnapshotRepository materializes the full per-class view the risk engine
// computes over. One Load gives the engine everything it needs so it never
// touches the database itself.
type SnapshotRepository struct {
	students       *StudentRepository
	subjects       *SubjectRepository
	teachers       *TeacherRepository
	schedule       *ScheduleRepository
	interrogations *InterrogationRepository
	absences       *AbsenceRepository
	volunteers     *VolunteerRepository
	vacations      *VacationRepository
	config         *ConfigRepository
	db             *sqlx.DB
}

// NewSnapshotRepository constructs a SnapshotRepository over the per-entity
// repositories.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{
		students:       NewStudentRepository(db),
		subjects:       NewSubjectRepository(db),
		teachers:       NewTeacherRepository(db),
		schedule:       NewScheduleRepository(db),
		interrogations: NewInterrogationRepository(db),
		absences:       NewAbsenceRepository(db),
		volunteers:     NewVolunteerRepository(db),
		vacations:      NewVacationRepository(db),
		config:         NewConfigRepository(db),
		db:             db,
	}
}

// Load builds the snapshot of one class.
func (r *SnapshotRepository) Load(ctx context.Context, classID string) (*models.Snapshot, error) {
	snap := &models.Snapshot{ClassID: classID}

	var err error
	if snap.Students, err = r.students.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot students: %w", err)
	}
	if snap.Subjects, err = r.subjects.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot subjects: %w", err)
	}
	if snap.Teachers, err = r.teachers.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot teachers: %w", err)
	}
	if snap.Schedule, err = r.schedule.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot schedule: %w", err)
	}
	const allInterrogations = `SELECT id, class_id, student_id, subject_id, to_char(date, 'YYYY-MM-DD') AS date, grade, created_at
        FROM interrogations WHERE class_id = $1 ORDER BY date ASC, id ASC`
	if err = r.db.SelectContext(ctx, &snap.Interrogations, allInterrogations, classID); err != nil {
		return nil, fmt.Errorf("snapshot interrogations: %w", err)
	}
	if snap.Absences, err = r.absences.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot absences: %w", err)
	}
	if snap.Volunteers, err = r.volunteers.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot volunteers: %w", err)
	}
	if snap.Vacations, err = r.vacations.ListByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot vacations: %w", err)
	}
	if snap.Config, err = r.config.GetByClass(ctx, classID); err != nil {
		return nil, fmt.Errorf("snapshot config: %w", err)
	}
	return snap, nil
}
