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

// SessionHandler holds the booking service dependency.
type SessionHandler struct {
	bookingService service.BookingService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(bookingService service.BookingService) *SessionHandler {
	return &SessionHandler{bookingService: bookingService}
}

// --- Request/Response Structs ---

type ScheduleSessionRequest struct {
	ClientID  string             `json:"clientId" binding:"required"`
	StartTime time.Time          `json:"startTime" binding:"required"`
	EndTime   *time.Time         `json:"endTime,omitempty"` // Omitted means default length
	Type      domain.SessionType `json:"type" binding:"omitempty,oneof=training assessment check_in"`
	Location  string             `json:"location,omitempty"`
	Notes     string             `json:"notes,omitempty"`
}

type UpdateSessionStatusRequest struct {
	Status domain.SessionStatus `json:"status" binding:"required,oneof=scheduled completed cancelled no_show"`
}

type SessionResponse struct {
	ID        string               `json:"id"`
	TrainerID string               `json:"trainerId"`
	ClientID  string               `json:"clientId"`
	StartTime time.Time            `json:"startTime"`
	EndTime   time.Time            `json:"endTime"`
	Status    domain.SessionStatus `json:"status"`
	Type      domain.SessionType   `json:"type"`
	Location  string               `json:"location,omitempty"`
	Notes     string               `json:"notes,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// ConflictResponse is the 409 payload: the message plus the sessions the
// proposed booking overlaps.
type ConflictResponse struct {
	Error     string            `json:"error"`
	Conflicts []SessionResponse `json:"conflicts"`
}

// --- Handler Methods ---

// ScheduleSession godoc
// @Summary Book a session with a managed client
// @Description Creates a session after a commit-time overlap check against the trainer's calendar.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session body ScheduleSessionRequest true "Session details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Failure 409 {object} ConflictResponse "Overlaps an existing session"
// @Router /trainer/sessions [post]
func (h *SessionHandler) ScheduleSession(c *gin.Context) {
	var req ScheduleSessionRequest
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

	scheduleReq := service.ScheduleRequest{
		ClientID:  clientID,
		StartTime: req.StartTime,
		Type:      req.Type,
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if req.EndTime != nil {
		scheduleReq.EndTime = *req.EndTime
	}

	session, err := h.bookingService.ScheduleSession(c.Request.Context(), trainerID, scheduleReq)
	if err != nil {
		var conflictErr *service.ConflictError
		switch {
		case errors.As(err, &conflictErr):
			c.AbortWithStatusJSON(http.StatusConflict, ConflictResponse{
				Error:     service.ErrSessionConflict.Error(),
				Conflicts: mapSessionsToResponses(conflictErr.Conflicts),
			})
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidSessionTime):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to schedule session")
		}
		return
	}

	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// GetSession godoc
// @Summary Get one session
// @Description Visible only to the session's trainer or client.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SessionResponse
// @Failure 403 {object} gin.H "Not a participant"
// @Failure 404 {object} gin.H "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	requesterID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}

	session, err := h.bookingService.GetSession(c.Request.Context(), requesterID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch session")
		}
		return
	}

	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// GetMySessions godoc
// @Summary List the authenticated user's sessions
// @Description Trainers see sessions they booked; clients see sessions booked for them.
// @Tags Sessions
// @Produce json
// @Success 200 {array} SessionResponse
// @Router /sessions [get]
func (h *SessionHandler) GetMySessions(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify role from token")
		return
	}

	var sessions []domain.Session
	if role == domain.RoleTrainer {
		sessions, err = h.bookingService.GetTrainerSessions(c.Request.Context(), userID)
	} else {
		sessions, err = h.bookingService.GetClientSessions(c.Request.Context(), userID)
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch sessions")
		return
	}

	c.JSON(http.StatusOK, mapSessionsToResponses(sessions))
}

// UpdateSessionStatus godoc
// @Summary Update a session's status
// @Description Cancelling a session frees its slot for rebooking.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param status body UpdateSessionStatusRequest true "New status"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} gin.H "Invalid transition"
// @Failure 403 {object} gin.H "Not the booking trainer"
// @Failure 404 {object} gin.H "Session not found"
// @Router /trainer/sessions/{id}/status [patch]
func (h *SessionHandler) UpdateSessionStatus(c *gin.Context) {
	sessionID, err := parseObjectIDParam(c, "id")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	var req UpdateSessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	session, err := h.bookingService.UpdateSessionStatus(c.Request.Context(), trainerID, sessionID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update session status")
		}
		return
	}

	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// MapSessionToResponse converts a domain Session to its DTO, materializing
// the default end time for open-ended bookings.
func MapSessionToResponse(s *domain.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		ID:        s.ID.Hex(),
		TrainerID: s.TrainerID.Hex(),
		ClientID:  s.ClientID.Hex(),
		StartTime: s.StartTime,
		EndTime:   s.EffectiveEnd(),
		Status:    s.Status,
		Type:      s.Type,
		Location:  s.Location,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
	}
}

func mapSessionsToResponses(sessions []domain.Session) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = MapSessionToResponse(&sessions[i])
	}
	return responses
}
