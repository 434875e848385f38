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

type configService interface {
	Get(ctx context.Context, classID string) (models.ClassConfig, error)
	Update(ctx context.Context, classID string, req dto.UpdateConfigRequest) (models.ClassConfig, error)
	SetSubjectAverage(ctx context.Context, classID, subjectID string, req dto.SetSubjectAverageRequest) error
	ClearSubjectAverage(ctx context.Context, classID, subjectID string) error
}

// ConfigHandler exposes per-class risk tuning.
type ConfigHandler struct {
	service configService
}

// NewConfigHandler builds a new handler.
func NewConfigHandler(service configService) *ConfigHandler {
	return &ConfigHandler{service: service}
}

// Get godoc
// @Summary Get class risk configuration
// @Tags Config
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/config [get]
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.service.Get(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// Update godoc
// @Summary Update class risk configuration
// @Tags Config
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body dto.UpdateConfigRequest true "Config payload"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/config [put]
func (h *ConfigHandler) Update(c *gin.Context) {
	var req dto.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid config payload"))
		return
	}
	cfg, err := h.service.Update(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// SetSubjectAverage godoc
// @Summary Override per-subject interrogations per day
// @Tags Config
// @Accept json
// @Param classId path string true "Class ID"
// @Param subjectId path string true "Subject ID"
// @Param payload body dto.SetSubjectAverageRequest true "Average payload"
// @Success 204
// @Router /classes/{classId}/config/subjects/{subjectId} [put]
func (h *ConfigHandler) SetSubjectAverage(c *gin.Context) {
	var req dto.SetSubjectAverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid average payload"))
		return
	}
	if err := h.service.SetSubjectAverage(c.Request.Context(), c.Param("classId"), c.Param("subjectId"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearSubjectAverage godoc
// @Summary Remove a per-subject override
// @Tags Config
// @Param classId path string true "Class ID"
// @Param subjectId path string true "Subject ID"
// @Success 204
// @Router /classes/{classId}/config/subjects/{subjectId} [delete]
func (h *ConfigHandler) ClearSubjectAverage(c *gin.Context) {
	if err := h.service.ClearSubjectAverage(c.Request.Context(), c.Param("classId"), c.Param("subjectId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
