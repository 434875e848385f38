package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davideferri/interro-risk-api/internal/service"
	"github.com/davideferri/interro-risk-api/pkg/response"
)

type exportService interface {
	ClassStats(ctx context.Context, classID, subjectID, date string, format service.ExportFormat) (*service.ExportResult, error)
	History(ctx context.Context, classID, subjectID string, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler serves rendered CSV and PDF downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler builds a new handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// ClassStats godoc
// @Summary Export the per-student risk table of one subject
// @Tags Export
// @Produce text/csv
// @Param classId path string true "Class ID"
// @Param subjectId path string true "Subject ID"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /classes/{classId}/export/stats/{subjectId} [get]
func (h *ExportHandler) ClassStats(c *gin.Context) {
	result, err := h.service.ClassStats(
		c.Request.Context(),
		c.Param("classId"),
		c.Param("subjectId"),
		c.Query("date"),
		service.ExportFormat(c.DefaultQuery("format", "csv")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, result)
}

// History godoc
// @Summary Export the interrogation history of one subject
// @Tags Export
// @Produce text/csv
// @Param classId path string true "Class ID"
// @Param subjectId path string true "Subject ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /classes/{classId}/export/history/{subjectId} [get]
func (h *ExportHandler) History(c *gin.Context) {
	result, err := h.service.History(
		c.Request.Context(),
		c.Param("classId"),
		c.Param("subjectId"),
		service.ExportFormat(c.DefaultQuery("format", "csv")),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, result)
}

func serveFile(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
