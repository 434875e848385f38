package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/risk"
	"github.com/davideferri/interro-risk-api/pkg/response"
)

type riskService interface {
	Dashboard(ctx context.Context, classID, studentID, date string) (*dto.DashboardResponse, error)
	AllRisks(ctx context.Context, classID, studentID, date string) ([]risk.SubjectRisk, error)
	Weekly(ctx context.Context, classID, studentID, date string) (*dto.WeeklyResponse, error)
	ClassStats(ctx context.Context, classID, subjectID, date string) (*dto.ClassStatsResponse, error)
	History(ctx context.Context, classID, studentID, subjectID string) (*dto.HistoryResponse, error)
	NextSchoolDay(ctx context.Context, classID, date string) (*dto.NextSchoolDayResponse, error)
}

// RiskHandler exposes the computed risk views.
type RiskHandler struct {
	service riskService
}

// NewRiskHandler builds a new handler.
func NewRiskHandler(service riskService) *RiskHandler {
	return &RiskHandler{service: service}
}

// Dashboard godoc
// @Summary Risk of subjects scheduled on a date
// @Tags Risk
// @Produce json
// @Param classId path string true "Class ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param student_id query string false "Student perspective"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/risk/dashboard [get]
func (h *RiskHandler) Dashboard(c *gin.Context) {
	resp, err := h.service.Dashboard(c.Request.Context(), c.Param("classId"), studentScope(c), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// All godoc
// @Summary Risk of every subject on a date
// @Tags Risk
// @Produce json
// @Param classId path string true "Class ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Param student_id query string false "Student perspective"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/risk/all [get]
func (h *RiskHandler) All(c *gin.Context) {
	risks, err := h.service.AllRisks(c.Request.Context(), c.Param("classId"), studentScope(c), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, risks, nil)
}

// Weekly godoc
// @Summary Risk over the whole school week
// @Tags Risk
// @Produce json
// @Param classId path string true "Class ID"
// @Param date query string false "Anchor date (YYYY-MM-DD), defaults to today"
// @Param student_id query string false "Student perspective"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/risk/weekly [get]
func (h *RiskHandler) Weekly(c *gin.Context) {
	resp, err := h.service.Weekly(c.Request.Context(), c.Param("classId"), studentScope(c), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ClassStats godoc
// @Summary Per-student risk of one subject
// @Tags Risk
// @Produce json
// @Param classId path string true "Class ID"
// @Param subjectId path string true "Subject ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/risk/subjects/{subjectId}/stats [get]
func (h *RiskHandler) ClassStats(c *gin.Context) {
	resp, err := h.service.ClassStats(c.Request.Context(), c.Param("classId"), c.Param("subjectId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// History godoc
// @Summary Interrogation history of one subject
// @Tags Risk
// @Produce json
// @Param classId path string true "Class ID"
// @Param subjectId path string true "Subject ID"
// @Param student_id query string false "Limit to one student"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/risk/subjects/{subjectId}/history [get]
func (h *RiskHandler) History(c *gin.Context) {
	resp, err := h.service.History(c.Request.Context(), c.Param("classId"), c.Query("student_id"), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// NextSchoolDay godoc
// @Summary Next school day after a date
// @Tags Risk
// @Produce json
// @Param classId path string true "Class ID"
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/risk/next-school-day [get]
func (h *RiskHandler) NextSchoolDay(c *gin.Context) {
	resp, err := h.service.NextSchoolDay(c.Request.Context(), c.Param("classId"), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
