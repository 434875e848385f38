package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/davideferri/interro-risk-api/internal/risk"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
	"github.com/davideferri/interro-risk-api/pkg/export"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFormat selects the rendered file type.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered file and its metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders class risk views and exam history as CSV or PDF.
type ExportService struct {
	snapshots snapshotLoader
	engine    *risk.Engine
	csv       csvRenderer
	pdf       pdfRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(snapshots snapshotLoader, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		snapshots: snapshots,
		engine:    risk.NewEngine(),
		csv:       csv,
		pdf:       pdf,
		logger:    logger,
		now:       time.Now,
	}
}

// ClassStats renders the per-student risk table of one subject.
func (s *ExportService) ClassStats(ctx context.Context, classID, subjectID, date string, format ExportFormat) (*ExportResult, error) {
	if date == "" {
		date = s.now().Format(risk.DateLayout)
	} else if _, err := risk.ParseDate(date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", date))
	}

	snap, err := s.snapshots.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class snapshot")
	}
	subject := snap.SubjectByID(subjectID)
	if subject == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	stats := s.engine.ClassStats(snap, subjectID, date)
	dataset := export.Dataset{Headers: []string{"Student", "Risk %", "Status", "Explanation"}}
	for _, stat := range stats {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":     stat.StudentName,
			"Risk %":      fmt.Sprintf("%.1f", stat.Risk),
			"Status":      string(stat.Status),
			"Explanation": stat.Explanation,
		})
	}

	title := fmt.Sprintf("%s risk on %s", subject.Name, risk.FormatDisplay(date))
	return s.render(dataset, title, fmt.Sprintf("stats-%s-%s", slug(subject.Name), date), format)
}

// History renders the exam history of one subject, newest first.
func (s *ExportService) History(ctx context.Context, classID, subjectID string, format ExportFormat) (*ExportResult, error) {
	snap, err := s.snapshots.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class snapshot")
	}
	subject := snap.SubjectByID(subjectID)
	if subject == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	entries := s.engine.SubjectHistory(snap, "", subjectID)
	dataset := export.Dataset{Headers: []string{"Date", "Student", "Grade"}}
	for _, entry := range entries {
		name := "—"
		if student := snap.StudentByID(entry.StudentID); student != nil {
			name = student.FullName
		}
		grade := ""
		if entry.Grade != nil {
			grade = fmt.Sprintf("%.1f", *entry.Grade)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Date":    entry.Date,
			"Student": name,
			"Grade":   grade,
		})
	}

	title := fmt.Sprintf("%s interrogation history", subject.Name)
	return s.render(dataset, title, fmt.Sprintf("history-%s", slug(subject.Name)), format)
}

func (s *ExportService) render(dataset export.Dataset, title, basename string, format ExportFormat) (*ExportResult, error) {
	switch format {
	case ExportFormatCSV, "":
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Filename: basename + ".csv", ContentType: "text/csv", Data: data}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Filename: basename + ".pdf", ContentType: "application/pdf", Data: data}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "-")
}
