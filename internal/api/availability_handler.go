package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/domain"
	"github.com/flackattacker/trainertracker-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// dateLayout is the wire format for calendar dates in query and path params.
const dateLayout = "2006-01-02"

// AvailabilityHandler holds the availability service dependency.
type AvailabilityHandler struct {
	availabilityService service.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(availabilityService service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// --- Request/Response Structs ---

type WeeklyRuleRequest struct {
	DayOfWeek         int    `json:"dayOfWeek" binding:"min=0,max=6"`
	StartTime         string `json:"startTime" binding:"required"`
	EndTime           string `json:"endTime" binding:"required"`
	IsAvailable       *bool  `json:"isAvailable"` // Defaults to true when omitted
	MaxSessionsPerDay int    `json:"maxSessionsPerDay" binding:"min=0"`
}

type SetWeeklyTemplateRequest struct {
	Rules []WeeklyRuleRequest `json:"rules" binding:"required,dive"`
}

type ExceptionRequest struct {
	Date        string  `json:"date" binding:"required"` // "2006-01-02"
	IsAvailable bool    `json:"isAvailable"`
	StartTime   *string `json:"startTime,omitempty"`
	EndTime     *string `json:"endTime,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

// --- Handler Methods ---

// SetWeeklyTemplate godoc
// @Summary Replace the trainer's weekly availability template
// @Description Swaps the whole template atomically; omitted weekdays become unavailable.
// @Tags Availability
// @Accept json
// @Produce json
// @Param template body SetWeeklyTemplateRequest true "Weekly rules"
// @Success 200 {array} domain.WeeklyAvailability
// @Failure 400 {object} gin.H "Invalid rule"
// @Router /trainer/availability [put]
func (h *AvailabilityHandler) SetWeeklyTemplate(c *gin.Context) {
	var req SetWeeklyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	rules := make([]domain.WeeklyAvailability, len(req.Rules))
	for i, r := range req.Rules {
		available := true
		if r.IsAvailable != nil {
			available = *r.IsAvailable
		}
		rules[i] = domain.WeeklyAvailability{
			DayOfWeek:         r.DayOfWeek,
			StartTime:         r.StartTime,
			EndTime:           r.EndTime,
			IsAvailable:       available,
			MaxSessionsPerDay: r.MaxSessionsPerDay,
		}
	}

	saved, err := h.availabilityService.SetWeeklyTemplate(c.Request.Context(), trainerID, rules)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAvailability) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save availability template")
		}
		return
	}

	c.JSON(http.StatusOK, saved)
}

// GetWeeklyTemplate godoc
// @Summary Get the trainer's weekly availability template
// @Tags Availability
// @Produce json
// @Success 200 {array} domain.WeeklyAvailability
// @Router /trainer/availability [get]
func (h *AvailabilityHandler) GetWeeklyTemplate(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	rules, err := h.availabilityService.GetWeeklyTemplate(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch availability template")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// SetException godoc
// @Summary Set a per-date availability override
// @Description Upserts the exception for one date; a second write replaces the first.
// @Tags Availability
// @Accept json
// @Produce json
// @Param exception body ExceptionRequest true "Exception details"
// @Success 200 {object} domain.AvailabilityException
// @Failure 400 {object} gin.H "Invalid exception"
// @Router /trainer/availability/exceptions [put]
func (h *AvailabilityHandler) SetException(c *gin.Context) {
	var req ExceptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	exc := &domain.AvailabilityException{
		TrainerID:   trainerID,
		Date:        date,
		IsAvailable: req.IsAvailable,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Reason:      req.Reason,
	}

	saved, err := h.availabilityService.SetException(c.Request.Context(), exc)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAvailability) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to save exception")
		}
		return
	}

	c.JSON(http.StatusOK, saved)
}

// GetExceptions godoc
// @Summary List availability exceptions in a date range
// @Tags Availability
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD), inclusive"
// @Param to query string true "Range end (YYYY-MM-DD), exclusive"
// @Success 200 {array} domain.AvailabilityException
// @Router /trainer/availability/exceptions [get]
func (h *AvailabilityHandler) GetExceptions(c *gin.Context) {
	from, err := time.Parse(dateLayout, c.Query("from"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, c.Query("to"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	exceptions, err := h.availabilityService.GetExceptions(c.Request.Context(), trainerID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch exceptions")
		return
	}
	c.JSON(http.StatusOK, exceptions)
}

// DeleteException godoc
// @Summary Remove the override for one date
// @Description Deleting an exception restores the weekly rule for that date.
// @Tags Availability
// @Produce json
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "No exception for that date"
// @Router /trainer/availability/exceptions/{date} [delete]
func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify trainer from token")
		return
	}

	err = h.availabilityService.DeleteException(c.Request.Context(), trainerID, date)
	if err != nil {
		if errors.Is(err, service.ErrExceptionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exception")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAvailableSlots godoc
// @Summary List a trainer's open slots for one date
// @Description Resolves the weekly rule and any exception, then removes slots overlapping committed sessions.
// @Tags Availability
// @Produce json
// @Param trainerId path string true "Trainer ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int false "Desired session length in minutes (default 60)"
// @Success 200 {array} scheduling.TimeSlot
// @Failure 400 {object} gin.H "Invalid parameters"
// @Router /trainers/{trainerId}/slots [get]
func (h *AvailabilityHandler) GetAvailableSlots(c *gin.Context) {
	trainerID, err := parseObjectIDParam(c, "trainerId")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format")
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	duration := time.Duration(0)
	if raw := c.Query("duration"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			abortWithError(c, http.StatusBadRequest, "Invalid duration, expected positive minutes")
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}

	slots, err := h.availabilityService.GetAvailableSlots(c.Request.Context(), trainerID, date, duration)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve available slots")
		return
	}
	c.JSON(http.StatusOK, slots)
}
