package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/vsop87/internal/adapter/store"
	"go.ngs.io/vsop87/internal/domain"
	"go.ngs.io/vsop87/internal/usecase"
)

// Handler handles HTTP requests for body positions.
type Handler struct {
	positionUC *usecase.PositionUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(positionUC *usecase.PositionUseCase) *Handler {
	return &Handler{
		positionUC: positionUC,
	}
}

// GetPositions handles GET /v1/positions.
func (h *Handler) GetPositions(c *gin.Context) {
	// Parse query parameters.
	bodyStr := c.Query("body")
	versionStr := c.DefaultQuery("version", "B")
	startStr := c.Query("start")
	endStr := c.Query("end")
	intervalStr := c.DefaultQuery("interval", "24h")
	velocityStr := c.DefaultQuery("velocity", "false")

	if bodyStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body parameter is required"})
		return
	}
	body, err := domain.ParseBody(bodyStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	version, err := domain.ParseVersion(versionStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Parse time range.
	if startStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start parameter is required"})
		return
	}
	if endStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end parameter is required"})
		return
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start time (expected RFC3339): %v", err)})
		return
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end time (expected RFC3339): %v", err)})
		return
	}

	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid interval: %v", err)})
		return
	}

	velocity, err := strconv.ParseBool(velocityStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid velocity flag: %v", err)})
		return
	}

	req := usecase.PositionRequest{
		Body:     body,
		Version:  version,
		Start:    start.UTC(),
		End:      end.UTC(),
		Interval: interval,
		Velocity: velocity,
	}

	// Execute use case.
	response, err := h.positionUC.Execute(req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// statusFor maps use case errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrModelNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidRequest), errors.Is(err, domain.ErrUnsupported):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetModels handles GET /v1/models.
func (h *Handler) GetModels(c *gin.Context) {
	models, err := h.positionUC.ListModels()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if models == nil {
		models = []store.ModelInfo{}
	}

	c.JSON(http.StatusOK, gin.H{
		"models": models,
		"count":  len(models),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
