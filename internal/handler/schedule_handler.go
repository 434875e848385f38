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

type scheduleService interface {
	List(ctx context.Context, classID string) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, classID string, req dto.CreateScheduleEntryRequest) (*models.ScheduleEntry, error)
	ReplaceDay(ctx context.Context, classID string, req dto.ReplaceScheduleDayRequest) ([]models.ScheduleEntry, error)
	Delete(ctx context.Context, classID, id string) error
}

// ScheduleHandler exposes the weekly timetable.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// List godoc
// @Summary List schedule entries
// @Tags Schedule
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Add a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.CreateScheduleEntryRequest true "Schedule entry"
// @Success 201 {object} response.Envelope
// @Router /classes/{classId}/schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// ReplaceDay godoc
// @Summary Replace all entries for one weekday
// @Tags Schedule
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.ReplaceScheduleDayRequest true "Day entries"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/schedule/day [put]
func (h *ScheduleHandler) ReplaceDay(c *gin.Context) {
	var req dto.ReplaceScheduleDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	entries, err := h.service.ReplaceDay(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Delete godoc
// @Summary Remove a schedule entry
// @Tags Schedule
// @Param classId path string true "Class ID"
// @Param id path string true "Entry ID"
// @Success 204
// @Router /classes/{classId}/schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("classId"), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
