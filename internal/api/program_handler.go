package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramHandler holds the program service dependency.
type ProgramHandler struct {
	programService service.ProgramService
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// --- Request/Response Structs ---

type PrescriptionRequest struct {
	Exercise string  `json:"exercise" binding:"required"`
	Sets     int     `json:"sets" binding:"required,min=1"`
	Reps     int     `json:"reps" binding:"required,min=1"`
	Weight   float64 `json:"weight" binding:"min=0"`
	Notes    string  `json:"notes,omitempty"`
}

type CreateProgramRequest struct {
	ClientID      string                `json:"clientId" binding:"required"`
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description,omitempty"`
	Phase         domain.Phase          `json:"phase" binding:"required"`
	Prescriptions []PrescriptionRequest `json:"prescriptions" binding:"dive"`
	StartDate     *time.Time            `json:"startDate,omitempty"`
	EndDate       *time.Time            `json:"endDate,omitempty"`
}

type UpdateProgramRequest struct {
	Name          string                `json:"name" binding:"required"`
	Description   string                `json:"description,omitempty"`
	Phase         domain.Phase          `json:"phase" binding:"required"`
	Prescriptions []PrescriptionRequest `json:"prescriptions" binding:"dive"`
	StartDate     *time.Time            `json:"startDate,omitempty"`
	EndDate       *time.Time            `json:"endDate,omitempty"`
	IsActive      bool                  `json:"isActive"`
}

// --- Handler Methods ---

// CreateProgram godoc
// @Summary Create a training program for a managed client
// @Tags Programs
// @Accept json
// @Produce json
// @Param program body CreateProgramRequest true "Program details"
// @Success 201 {object} domain.Program
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/programs [post]
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	program := &domain.Program{
		ClientID:      clientID,
		Name:          req.Name,
		Description:   req.Description,
		Phase:         req.Phase,
		Prescriptions: mapPrescriptions(req.Prescriptions),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	created, err := h.programService.CreateProgram(c.Request.Context(), trainerID, program)
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

	c.JSON(http.StatusCreated, created)
}

// GetProgram godoc
// @Summary Get one program
// @Description Visible only to the program's trainer or client.
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} domain.Program
// @Failure 403 {object} gin.H "Not a participant"
// @Failure 404 {object} gin.H "Program not found"
// @Router /programs/{id} [get]
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	programID, err := parseObjectIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	requesterID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	program, err := h.programService.GetProgram(c.Request.Context(), requesterID, programID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch program")
		}
		return
	}

	c.JSON(http.StatusOK, program)
}

// GetClientPrograms godoc
// @Summary List the programs built for one managed client
// @Tags Programs
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.Program
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/clients/{clientId}/programs [get]
func (h *ProgramHandler) GetClientPrograms(c *gin.Context) {
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

	programs, err := h.programService.GetClientPrograms(c.Request.Context(), trainerID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch programs")
		}
		return
	}

	c.JSON(http.StatusOK, programs)
}

// UpdateProgram godoc
// @Summary Update a program the trainer owns
// @Tags Programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param program body UpdateProgramRequest true "Updated program"
// @Success 200 {object} domain.Program
// @Failure 403 {object} gin.H "Not the owning trainer"
// @Failure 404 {object} gin.H "Program not found"
// @Router /trainer/programs/{id} [put]
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	programID, err := parseObjectIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	var req UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	program := &domain.Program{
		ID:            programID,
		Name:          req.Name,
		Description:   req.Description,
		Phase:         req.Phase,
		Prescriptions: mapPrescriptions(req.Prescriptions),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IsActive:      req.IsActive,
	}

	updated, err := h.programService.UpdateProgram(c.Request.Context(), trainerID, program)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// GetProgressionReport godoc
// @Summary Get the progression report for one exercise of a program
// @Description Returns the next-session recommendation, phase guidelines, and the four-week plan, computed from the client's recorded history.
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Param exercise query string true "Exercise name"
// @Success 200 {object} service.ProgressionReport
// @Failure 404 {object} gin.H "Program not found or no history for the exercise"
// @Router /trainer/programs/{id}/progression [get]
func (h *ProgramHandler) GetProgressionReport(c *gin.Context) {
	programID, err := parseObjectIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	exercise := c.Query("exercise")
	if exercise == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'exercise' is required")
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	report, err := h.programService.GetProgressionReport(c.Request.Context(), trainerID, programID, exercise)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrNoPerformanceData):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgramAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to compute progression report")
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

func mapPrescriptions(reqs []PrescriptionRequest) []domain.Prescription {
	prescriptions := make([]domain.Prescription, len(reqs))
	for i, p := range reqs {
		prescriptions[i] = domain.Prescription{
			Exercise: p.Exercise,
			Sets:     p.Sets,
			Reps:     p.Reps,
			Weight:   p.Weight,
			Notes:    p.Notes,
		}
	}
	return prescriptions
}
