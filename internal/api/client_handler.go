package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/flackattacker/trainertracker-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request/Response Structs ---

type RequestUploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string     `json:"objectKey" binding:"required"`
	FileName    string     `json:"fileName" binding:"required"`
	FileSize    int64      `json:"fileSize" binding:"required,min=1"`
	ContentType string     `json:"contentType" binding:"required"`
	TakenAt     *time.Time `json:"takenAt,omitempty"`
}

// --- Handler Methods ---

// RequestPhotoUploadURL godoc
// @Summary Request a pre-signed URL for a progress photo upload
// @Description The client PUTs the file to the returned URL, then confirms with the object key.
// @Tags Client
// @Accept json
// @Produce json
// @Param request body RequestUploadURLRequest true "Content type of the image"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Invalid content type"
// @Router /client/photos/upload-url [post]
func (h *ClientHandler) RequestPhotoUploadURL(c *gin.Context) {
	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	resp, err := h.clientService.RequestPhotoUploadURL(c.Request.Context(), clientID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidContentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ConfirmPhotoUpload godoc
// @Summary Confirm a completed progress photo upload
// @Description Records the photo metadata after the file has been PUT to S3.
// @Tags Client
// @Accept json
// @Produce json
// @Param confirmation body ConfirmUploadRequest true "Upload confirmation"
// @Success 201 {object} domain.ProgressPhoto
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Object key belongs to another client"
// @Router /client/photos [post]
func (h *ClientHandler) ConfirmPhotoUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	photo, err := h.clientService.ConfirmPhotoUpload(c.Request.Context(), clientID,
		req.ObjectKey, req.FileName, req.FileSize, req.ContentType, req.TakenAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhotoAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrNoTrainerAssigned):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload")
		}
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// GetMyPhotos godoc
// @Summary List the client's own progress photos
// @Description Each entry carries a temporary download URL.
// @Tags Client
// @Produce json
// @Success 200 {array} service.PhotoDetails
// @Router /client/photos [get]
func (h *ClientHandler) GetMyPhotos(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	photos, err := h.clientService.GetMyPhotos(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch photos")
		return
	}
	c.JSON(http.StatusOK, photos)
}

// GetClientPhotos godoc
// @Summary List a managed client's progress photos (trainer view)
// @Tags Trainer
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {array} service.PhotoDetails
// @Failure 403 {object} gin.H "Client not managed by this trainer"
// @Router /trainer/clients/{clientId}/photos [get]
func (h *ClientHandler) GetClientPhotos(c *gin.Context) {
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

	photos, err := h.clientService.GetClientPhotos(c.Request.Context(), trainerID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to fetch photos")
		}
		return
	}
	c.JSON(http.StatusOK, photos)
}

// GetMyPerformance godoc
// @Summary List the client's own exercise history
// @Tags Client
// @Produce json
// @Success 200 {array} PerformanceResponse
// @Router /client/performance [get]
func (h *ClientHandler) GetMyPerformance(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client from token")
		return
	}

	entries, err := h.clientService.GetMyPerformance(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch performance history")
		return
	}

	responses := make([]PerformanceResponse, len(entries))
	for i := range entries {
		responses[i] = MapPerformanceToResponse(&entries[i])
	}
	c.JSON(http.StatusOK, responses)
}
