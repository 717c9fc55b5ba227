package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// TrainerHandler holds the trainer service dependency.
type TrainerHandler struct {
	trainerService service.TrainerService
}

// NewTrainerHandler creates a new TrainerHandler.
func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- Request/Response Structs ---

type AddClientRequest struct {
	ClientEmail string `json:"clientEmail" binding:"required,email"`
}

type RecordPerformanceRequest struct {
	Exercise string    `json:"exercise" binding:"required"`
	Date     time.Time `json:"date"` // Optional; defaults to now
	Weight   float64   `json:"weight" binding:"min=0"`
	Reps     int       `json:"reps" binding:"required,min=1"`
	Sets     int       `json:"sets" binding:"required,min=1"`
	RPE      float64   `json:"rpe" binding:"min=0,max=10"`
}

type PerformanceResponse struct {
	ID       string    `json:"id"`
	ClientID string    `json:"clientId"`
	Exercise string    `json:"exercise"`
	Date     time.Time `json:"date"`
	Weight   float64   `json:"weight"`
	Reps     int       `json:"reps"`
	Sets     int       `json:"sets"`
	RPE      float64   `json:"rpe"`
}

// --- Handler Methods ---

// AddClientByEmail godoc
// @Summary Add a client to the trainer's roster
// @Description Finds an existing client user by email and assigns them to the authenticated trainer.
// @Tags Trainer
// @Accept json
// @Produce json
// @Param client body AddClientRequest true "Client email"
// @Success 200 {object} UserResponse "Client assigned"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Client not found"
// @Failure 409 {object} gin.H "Client already assigned to another trainer"
// @Router /trainer/clients [post]
func (h *TrainerHandler) AddClientByEmail(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	client, err := h.trainerService.AddClientByEmail(c.Request.Context(), trainerID, req.ClientEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrClientAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients godoc
// @Summary List the trainer's clients
// @Tags Trainer
// @Produce json
// @Success 200 {array} UserResponse
// @Router /trainer/clients [get]
func (h *TrainerHandler) GetManagedClients(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	clients, err := h.trainerService.GetManagedClients(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}

	responses := make([]UserResponse, len(clients))
	for i := range clients {
		responses[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, responses)
}

// RecordPerformance godoc
// @Summary Record an exercise performance entry for a client
// @Description Appends one history entry used by the progression calculator.
// @Tags Trainer
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param entry body RecordPerformanceRequest true "Performance details"
// @Success 201 {object} PerformanceResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/clients/{clientId}/performance [post]
func (h *TrainerHandler) RecordPerformance(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var req RecordPerformanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	entry, err := h.trainerService.RecordPerformance(c.Request.Context(), trainerID, clientID,
		req.Exercise, req.Date, req.Weight, req.Reps, req.Sets, req.RPE)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusCreated, MapPerformanceToResponse(entry))
}

// GetClientPerformance godoc
// @Summary List a managed client's exercise history
// @Tags Trainer
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} PerformanceResponse
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/clients/{clientId}/performance [get]
func (h *TrainerHandler) GetClientPerformance(c *gin.Context) {
	clientID, err := parseObjectIDParam(c, "clientId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	entries, err := h.trainerService.GetClientPerformance(c.Request.Context(), trainerID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch performance history")
		}
		return
	}

	responses := make([]PerformanceResponse, len(entries))
	for i := range entries {
		responses[i] = MapPerformanceToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}

// MapPerformanceToResponse converts a domain ExercisePerformance to its DTO.
func MapPerformanceToResponse(e *domain.ExercisePerformance) PerformanceResponse {
	if e == nil {
		return PerformanceResponse{}
	}
	return PerformanceResponse{
		ID:       e.ID.Hex(),
		ClientID: e.ClientID.Hex(),
		Exercise: e.Exercise,
		Date:     e.Date,
		Weight:   e.Weight,
		Reps:     e.Reps,
		Sets:     e.Sets,
		RPE:      e.RPE,
	}
}
