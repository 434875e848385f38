package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	"github.com/davideferri/interro-risk-api/internal/risk"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

var simFirstNames = []string{
	"Marco", "Lucia", "Giulia", "Alessandro", "Francesca", "Matteo", "Sara",
	"Davide", "Elena", "Lorenzo", "Chiara", "Simone", "Martina", "Andrea",
	"Valentina", "Federico", "Alice", "Riccardo", "Giorgia", "Tommaso",
	"Beatrice", "Gabriele", "Sofia", "Nicola", "Aurora", "Pietro", "Emma",
	"Filippo", "Greta", "Leonardo",
}

var simLastNames = []string{
	"Rossi", "Bianchi", "Ferrari", "Esposito", "Romano", "Colombo", "Ricci",
	"Marino", "Greco", "Bruno", "Gallo", "Conti", "De Luca", "Costa",
	"Giordano", "Mancini", "Rizzo", "Lombardi", "Moretti", "Barbieri",
	"Fontana", "Santoro", "Mariani", "Rinaldi", "Caruso", "Ferrara",
	"Galli", "Martini", "Leone", "Longo",
}

var simSubjects = []string{
	"Matematica", "Italiano", "Storia", "Inglese", "Scienze", "Latino",
	"Filosofia", "Fisica", "Arte", "Educazione Fisica", "Informatica",
	"Geografia",
}

type simClassWriter interface {
	Create(ctx context.Context, class *models.Class) error
}

type simStudentWriter interface {
	Create(ctx context.Context, student *models.Student) error
}

type simTeacherWriter interface {
	Create(ctx context.Context, teacher *models.Teacher) error
}

type simSubjectWriter interface {
	Create(ctx context.Context, subject *models.Subject) error
}

type simScheduleWriter interface {
	Create(ctx context.Context, entry *models.ScheduleEntry) error
}

type simInterrogationWriter interface {
	Create(ctx context.Context, interrogation *models.Interrogation) error
}

// SimulationService seeds a demo class with a plausible roster, timetable and
// interrogation history. It is only wired when explicitly enabled in config.
type SimulationService struct {
	classes        simClassWriter
	students       simStudentWriter
	teachers       simTeacherWriter
	subjects       simSubjectWriter
	schedule       simScheduleWriter
	interrogations simInterrogationWriter
	risks          riskInvalidator
	validator      *validator.Validate
	logger         *zap.Logger
	now            func() time.Time
}

// NewSimulationService constructs a SimulationService.
func NewSimulationService(classes simClassWriter, students simStudentWriter, teachers simTeacherWriter, subjects simSubjectWriter, schedule simScheduleWriter, interrogations simInterrogationWriter, risks riskInvalidator, validate *validator.Validate, logger *zap.Logger) *SimulationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationService{
		classes:        classes,
		students:       students,
		teachers:       teachers,
		subjects:       subjects,
		schedule:       schedule,
		interrogations: interrogations,
		risks:          risks,
		validator:      validate,
		logger:         logger,
		now:            time.Now,
	}
}

// Seed generates a demo class. The same seed reproduces the same class.
func (s *SimulationService) Seed(ctx context.Context, req dto.SimulationRequest) (*dto.SimulationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid simulation payload")
	}

	if req.Students == 0 {
		req.Students = 20
	}
	if req.Subjects == 0 {
		req.Subjects = 6
	}
	if req.HistoryDays == 0 {
		req.HistoryDays = 30
	}
	if req.ClassName == "" {
		req.ClassName = fmt.Sprintf("Demo %s", s.now().Format("2006-01-02 15:04"))
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewSource(*req.Seed))
	} else {
		rng = rand.New(rand.NewSource(s.now().UnixNano()))
	}

	class := &models.Class{Name: req.ClassName}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create demo class")
	}

	students, err := s.seedStudents(ctx, class.ID, req.Students, rng)
	if err != nil {
		return nil, err
	}

	subjects, teachers, err := s.seedSubjects(ctx, class.ID, req.Subjects, rng)
	if err != nil {
		return nil, err
	}

	slots, err := s.seedSchedule(ctx, class.ID, subjects, rng)
	if err != nil {
		return nil, err
	}

	history, err := s.seedHistory(ctx, class.ID, students, slots, req.HistoryDays, rng)
	if err != nil {
		return nil, err
	}

	if s.risks != nil {
		s.risks.InvalidateClass(ctx, class.ID)
	}
	s.logger.Info("demo class seeded",
		zap.String("class_id", class.ID),
		zap.Int("students", len(students)),
		zap.Int("subjects", len(subjects)),
		zap.Int("interrogations", history))

	return &dto.SimulationResponse{
		ClassID:        class.ID,
		ClassName:      class.Name,
		Students:       len(students),
		Subjects:       len(subjects),
		Teachers:       teachers,
		ScheduleSlots:  len(slots),
		Interrogations: history,
	}, nil
}

func (s *SimulationService) seedStudents(ctx context.Context, classID string, count int, rng *rand.Rand) ([]models.Student, error) {
	students := make([]models.Student, 0, count)
	used := make(map[string]struct{}, count)
	for len(students) < count {
		first := simFirstNames[rng.Intn(len(simFirstNames))]
		last := simLastNames[rng.Intn(len(simLastNames))]
		key := first + " " + last
		if _, dup := used[key]; dup {
			continue
		}
		used[key] = struct{}{}
		student := models.Student{ClassID: classID, FirstName: first, LastName: last}
		if err := s.students.Create(ctx, &student); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed student")
		}
		students = append(students, student)
	}
	return students, nil
}

func (s *SimulationService) seedSubjects(ctx context.Context, classID string, count int, rng *rand.Rand) ([]models.Subject, int, error) {
	names := append([]string(nil), simSubjects...)
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	if count > len(names) {
		count = len(names)
	}

	subjects := make([]models.Subject, 0, count)
	teachers := 0
	for _, name := range names[:count] {
		teacher := models.Teacher{
			ClassID:  classID,
			FullName: fmt.Sprintf("Prof. %s %s", simFirstNames[rng.Intn(len(simFirstNames))], simLastNames[rng.Intn(len(simLastNames))]),
		}
		if err := s.teachers.Create(ctx, &teacher); err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed teacher")
		}
		teachers++

		subject := models.Subject{ClassID: classID, Name: name, TeacherID: &teacher.ID}
		if err := s.subjects.Create(ctx, &subject); err != nil {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed subject")
		}
		subjects = append(subjects, subject)
	}
	return subjects, teachers, nil
}

// seedSchedule assigns every subject 2 or 3 weekday slots.
func (s *SimulationService) seedSchedule(ctx context.Context, classID string, subjects []models.Subject, rng *rand.Rand) ([]models.ScheduleEntry, error) {
	entries := make([]models.ScheduleEntry, 0, len(subjects)*3)
	for _, subject := range subjects {
		days := rng.Perm(models.DefaultSchoolDays)[:2+rng.Intn(2)]
		for _, day := range days {
			entry := models.ScheduleEntry{
				ClassID:   classID,
				SubjectID: subject.ID,
				DayOfWeek: day + 1,
				Hours:     1 + rng.Intn(2),
			}
			if err := s.schedule.Create(ctx, &entry); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed schedule")
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// seedHistory walks backwards over past school days and records exams,
// preferring students interrogated least often so the history looks like a
// teacher rotating through the class.
func (s *SimulationService) seedHistory(ctx context.Context, classID string, students []models.Student, slots []models.ScheduleEntry, days int, rng *rand.Rand) (int, error) {
	byDay := make(map[int][]string)
	for _, slot := range slots {
		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], slot.SubjectID)
	}

	counts := make(map[string]map[string]int)
	seen := make(map[int]map[string]struct{})

	total := 0
	date := s.now()
	for day := 0; day < days; day++ {
		date = date.AddDate(0, 0, -1)
		weekday := int(date.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		subjects, ok := byDay[weekday]
		if !ok {
			continue
		}
		iso := date.Format(risk.DateLayout)
		for _, subjectID := range subjects {
			if seen[day] == nil {
				seen[day] = make(map[string]struct{})
			}
			if _, dup := seen[day][subjectID]; dup {
				continue
			}
			seen[day][subjectID] = struct{}{}

			if counts[subjectID] == nil {
				counts[subjectID] = make(map[string]int)
			}
			picks := 1 + rng.Intn(2)
			chosen := pickLeastExamined(students, counts[subjectID], picks, rng)
			for _, studentID := range chosen {
				grade := 4.0 + rng.Float64()*6.0
				interrogation := models.Interrogation{
					ClassID:   classID,
					StudentID: studentID,
					SubjectID: subjectID,
					Date:      iso,
					Grade:     &grade,
				}
				if err := s.interrogations.Create(ctx, &interrogation); err != nil {
					return total, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed interrogation")
				}
				counts[subjectID][studentID]++
				total++
			}
		}
	}
	return total, nil
}

func pickLeastExamined(students []models.Student, counts map[string]int, n int, rng *rand.Rand) []string {
	ids := make([]string, len(students))
	for i, student := range students {
		ids[i] = student.ID
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	sort.SliceStable(ids, func(i, j int) bool { return counts[ids[i]] < counts[ids[j]] })
	if n > len(ids) {
		n = len(ids)
	}
	return ids[:n]
}
