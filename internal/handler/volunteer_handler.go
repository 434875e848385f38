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

type volunteerService interface {
	List(ctx context.Context, classID string) ([]models.Volunteer, error)
	Create(ctx context.Context, classID string, req dto.CreateVolunteerRequest) (*models.Volunteer, error)
	Delete(ctx context.Context, classID, id string) error
}

// VolunteerHandler exposes volunteer declarations.
type VolunteerHandler struct {
	service volunteerService
}

// NewVolunteerHandler builds a new handler.
func NewVolunteerHandler(service volunteerService) *VolunteerHandler {
	return &VolunteerHandler{service: service}
}

// List godoc
// @Summary List volunteers
// @Tags Volunteers
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/volunteers [get]
func (h *VolunteerHandler) List(c *gin.Context) {
	volunteers, err := h.service.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, volunteers, nil)
}

// Create godoc
// @Summary Volunteer for an interrogation
// @Tags Volunteers
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.CreateVolunteerRequest true "Volunteer payload"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/volunteers [post]
func (h *VolunteerHandler) Create(c *gin.Context) {
	var req dto.CreateVolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid volunteer payload"))
		return
	}
	volunteer, err := h.service.Create(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, volunteer)
}

// Delete godoc
// @Summary Withdraw a volunteer entry
// @Tags Volunteers
// @Param classId path string true "Class ID"
// @Param id path string true "Volunteer ID"
// @Success 204
// @Router /classes/{classId}/volunteers/{id} [delete]
func (h *VolunteerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("classId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
