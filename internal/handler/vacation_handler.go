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

type vacationService interface {
	List(ctx context.Context, classID string) ([]models.Vacation, error)
	Create(ctx context.Context, classID string, req dto.CreateVacationRequest) (*models.Vacation, error)
	Delete(ctx context.Context, classID, id string) error
}

// VacationHandler exposes no-school dates.
type VacationHandler struct {
	service vacationService
}

// NewVacationHandler builds a new handler.
func NewVacationHandler(service vacationService) *VacationHandler {
	return &VacationHandler{service: service}
}

// List godoc
// @Summary List vacation days
// @Tags Vacations
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/vacations [get]
func (h *VacationHandler) List(c *gin.Context) {
	vacations, err := h.service.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vacations, nil)
}

// Create godoc
// @Summary Mark a vacation day
// @Tags Vacations
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.CreateVacationRequest true "Vacation payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/vacations [post]
func (h *VacationHandler) Create(c *gin.Context) {
	var req dto.CreateVacationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vacation payload"))
		return
	}
	vacation, err := h.service.Create(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, vacation)
}

// Delete godoc
// @Summary Unmark a vacation day
// @Tags Vacations
// @Param classId path string true "Class ID"
// @Param id path string true "Vacation ID"
// @Success 204
// @Router /classes/{classId}/vacations/{id} [delete]
func (h *VacationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("classId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
