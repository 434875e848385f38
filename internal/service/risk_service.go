package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	"github.com/davideferri/interro-risk-api/internal/risk"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
)

type snapshotLoader interface {
	Load(ctx context.Context, classID string) (*models.Snapshot, error)
}

// RiskService computes risk views over a freshly loaded class snapshot and
// caches the rendered payloads between writes.
type RiskService struct {
	snapshots snapshotLoader
	engine    *risk.Engine
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

// NewRiskService constructs a RiskService.
func NewRiskService(snapshots snapshotLoader, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *RiskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskService{
		snapshots: snapshots,
		engine:    risk.NewEngine(),
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func (s *RiskService) resolveDate(date string) (string, error) {
	if date == "" {
		return s.now().Format(risk.DateLayout), nil
	}
	if _, err := risk.ParseDate(date); err != nil {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}
	return date, nil
}

func (s *RiskService) loadSnapshot(ctx context.Context, classID string) (*models.Snapshot, error) {
	snap, err := s.snapshots.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class snapshot")
	}
	return snap, nil
}

// Dashboard returns the risk of every subject scheduled on the date for the
// student, highest risk first.
func (s *RiskService) Dashboard(ctx context.Context, classID, studentID, date string) (*dto.DashboardResponse, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("risk:%s:dashboard:%s:%s", classID, studentID, date)
	var cached dto.DashboardResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	snap, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	subjects := s.engine.Dashboard(snap, studentID, date)
	s.metrics.RecordRiskComputation("dashboard", time.Since(start))

	resp := &dto.DashboardResponse{
		Date:     date,
		Display:  risk.FormatDisplay(date),
		Vacation: snap.IsVacation(date),
		Subjects: subjects,
	}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Debug("dashboard cache write failed", zap.Error(err))
	}
	return resp, nil
}

// AllRisks returns the risk of every subject of the class on the date,
// scheduled or not, highest risk first.
func (s *RiskService) AllRisks(ctx context.Context, classID, studentID, date string) ([]risk.SubjectRisk, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("risk:%s:all:%s:%s", classID, studentID, date)
	var cached []risk.SubjectRisk
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	snap, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	risks := s.engine.AllRisks(snap, studentID, date)
	s.metrics.RecordRiskComputation("all", time.Since(start))

	if err := s.cache.Set(ctx, key, risks, s.cacheTTL); err != nil {
		s.logger.Debug("all risks cache write failed", zap.Error(err))
	}
	return risks, nil
}

// Weekly returns the dashboard of every school day in the week containing the
// date.
func (s *RiskService) Weekly(ctx context.Context, classID, studentID, date string) (*dto.WeeklyResponse, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("risk:%s:weekly:%s:%s", classID, studentID, date)
	var cached dto.WeeklyResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	snap, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	risks := s.engine.Weekly(snap, studentID, date)
	s.metrics.RecordRiskComputation("weekly", time.Since(start))

	dates := s.engine.WeekDates(snap, date)
	days := make([]dto.WeeklyDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, dto.WeeklyDay{Date: d, Display: risk.FormatDisplay(d)})
	}

	resp := &dto.WeeklyResponse{Anchor: date, Days: days, Risks: risks}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Debug("weekly cache write failed", zap.Error(err))
	}
	return resp, nil
}

// ClassStats returns the per-student risk of one subject on the date, sorted
// by surname.
func (s *RiskService) ClassStats(ctx context.Context, classID, subjectID, date string) (*dto.ClassStatsResponse, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("risk:%s:stats:%s:%s", classID, subjectID, date)
	var cached dto.ClassStatsResponse
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	snap, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}
	if snap.SubjectByID(subjectID) == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	start := time.Now()
	students := s.engine.ClassStats(snap, subjectID, date)
	s.metrics.RecordRiskComputation("stats", time.Since(start))

	resp := &dto.ClassStatsResponse{SubjectID: subjectID, Date: date, Students: students}
	if err := s.cache.Set(ctx, key, resp, s.cacheTTL); err != nil {
		s.logger.Debug("stats cache write failed", zap.Error(err))
	}
	return resp, nil
}

// History returns the recorded exams of one subject, newest first, with
// student names resolved.
func (s *RiskService) History(ctx context.Context, classID, studentID, subjectID string) (*dto.HistoryResponse, error) {
	snap, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}
	if snap.SubjectByID(subjectID) == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	var entries []models.Interrogation
	if studentID == "" {
		entries = s.engine.ClassHistory(snap, subjectID)
	} else {
		entries = s.engine.SubjectHistory(snap, studentID, subjectID)
	}
	resp := &dto.HistoryResponse{SubjectID: subjectID, Entries: make([]dto.HistoryEntry, 0, len(entries))}
	for _, entry := range entries {
		name := "—"
		if student := snap.StudentByID(entry.StudentID); student != nil {
			name = student.FullName
		}
		resp.Entries = append(resp.Entries, dto.HistoryEntry{
			ID:          entry.ID,
			StudentID:   entry.StudentID,
			StudentName: name,
			Date:        entry.Date,
			Display:     risk.FormatDisplay(entry.Date),
			Grade:       entry.Grade,
		})
	}
	return resp, nil
}

// NextSchoolDay resolves the next school day after the date, skipping
// weekends and vacations.
func (s *RiskService) NextSchoolDay(ctx context.Context, classID, date string) (*dto.NextSchoolDayResponse, error) {
	date, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, classID)
	if err != nil {
		return nil, err
	}

	next := s.engine.NextSchoolDay(snap, date)
	return &dto.NextSchoolDayResponse{From: date, Next: next, Display: risk.FormatDisplay(next)}, nil
}

// InvalidateClass drops every cached risk payload of the class. Write-side
// services call it after any mutation that feeds the snapshot.
func (s *RiskService) InvalidateClass(ctx context.Context, classID string) {
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("risk:%s:*", classID)); err != nil {
		s.logger.Warn("risk cache invalidation failed", zap.String("class_id", classID), zap.Error(err))
	}
}
