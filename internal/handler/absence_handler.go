package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davideferri/interro-risk-api/internal/dto"
	"github.com/davideferri/interro-risk-api/internal/models"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
	"github.com/davideferri/interro-risk-api/pkg/response"
)

type absenceService interface {
	List(ctx context.Context, classID string) ([]models.Absence, error)
	Create(ctx context.Context, classID string, req dto.CreateAbsenceRequest) (*models.Absence, error)
	Delete(ctx context.Context, classID, id string) error
}

// AbsenceHandler exposes absence tracking.
type AbsenceHandler struct {
	service absenceService
}

// NewAbsenceHandler builds a new handler.
func NewAbsenceHandler(service absenceService) *AbsenceHandler {
	return &AbsenceHandler{service: service}
}

// List godoc
// @Summary List absences
// @Tags Absences
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/absences [get]
func (h *AbsenceHandler) List(c *gin.Context) {
	absences, err := h.service.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absences, nil)
}

// Create godoc
// @Summary Record an absence
// @Tags Absences
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.CreateAbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/absences [post]
func (h *AbsenceHandler) Create(c *gin.Context) {
	var req dto.CreateAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}
	absence, err := h.service.Create(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, absence)
}

// Delete godoc
// @Summary Delete an absence
// @Tags Absences
// @Param classId path string true "Class ID"
// @Param id path string true "Absence ID"
// @Success 204
// @Router /classes/{classId}/absences/{id} [delete]
func (h *AbsenceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("classId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
