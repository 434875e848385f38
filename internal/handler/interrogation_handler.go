package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
	"github.com/davideferri/interro-risk-api/pkg/response"
)

type interrogationService interface {
	List(ctx context.Context, filter models.InterrogationFilter) ([]models.Interrogation, int, error)
	Create(ctx context.Context, classID string, req dto.CreateInterrogationRequest) (*models.Interrogation, error)
	UpdateGrade(ctx context.Context, classID, id string, req dto.UpdateGradeRequest) (*models.Interrogation, error)
	Delete(ctx context.Context, classID, id string) error
}

// InterrogationHandler exposes recorded oral exams.
type InterrogationHandler struct {
	service interrogationService
}

// NewInterrogationHandler builds a new handler.
func NewInterrogationHandler(service interrogationService) *InterrogationHandler {
	return &InterrogationHandler{service: service}
}

// List godoc
// @Summary List interrogations
// @Tags Interrogations
// @Produce json
// @Param classId path string true "Class ID"
// @Param student_id query string false "Filter by student"
// @Param subject_id query string false "Filter by subject"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/interrogations [get]
func (h *InterrogationHandler) List(c *gin.Context) {
	filter := models.InterrogationFilter{
		ClassID:   c.Param("classId"),
		StudentID: c.Query("student_id"),
		SubjectID: c.Query("subject_id"),
		DateFrom:  c.Query("from"),
		DateTo:    c.Query("to"),
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "50"))

	interrogations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, interrogations, pagination)
}

// Create godoc
// @Summary Record an interrogation
// @Tags Interrogations
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.CreateInterrogationRequest true "Interrogation payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/interrogations [post]
func (h *InterrogationHandler) Create(c *gin.Context) {
	var req dto.CreateInterrogationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid interrogation payload"))
		return
	}
	interrogation, err := h.service.Create(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, interrogation)
}

// UpdateGrade godoc
// @Summary Set or clear the grade of an interrogation
// @Tags Interrogations
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param id path string true "Interrogation ID"
// @Param payload body dto.UpdateGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/interrogations/{id}/grade [put]
func (h *InterrogationHandler) UpdateGrade(c *gin.Context) {
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grade payload"))
		return
	}
	interrogation, err := h.service.UpdateGrade(c.Request.Context(), c.Param("classId"), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interrogation, nil)
}

// Delete godoc
// @Summary Delete an interrogation
// @Tags Interrogations
// @Param classId path string true "Class ID"
// @Param id path string true "Interrogation ID"
// @Success 204
// @Router /classes/{classId}/interrogations/{id} [delete]
func (h *InterrogationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("classId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
