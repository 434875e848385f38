package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davideferri/interro-risk-api/internal/dto"
	appErrors "github.com/davideferri/interro-risk-api/pkg/errors"
	"github.com/davideferri/interro-risk-api/pkg/response"
)

type simulationService interface {
	Seed(ctx context.Context, req dto.SimulationRequest) (*dto.SimulationResponse, error)
}

// SimulationHandler seeds demo classes with synthetic data.
type SimulationHandler struct {
	service simulationService
}

// NewSimulationHandler builds a new handler.
func NewSimulationHandler(service simulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// Seed godoc
// @Summary Seed a demo class with synthetic roster and history
// @Tags Simulation
// @Accept json
// @Produce json
// @Param payload body dto.SimulationRequest true "Simulation parameters"
// @Success 201 {object} response.Envelope
// @Router /simulation/seed [post]
func (h *SimulationHandler) Seed(c *gin.Context) {
	var req dto.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid simulation payload"))
		return
	}
	result, err := h.service.Seed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
