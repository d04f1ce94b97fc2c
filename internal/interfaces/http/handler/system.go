package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/foodstory/analytics/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether the durable store is reachable
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	store     Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store Pinger) *SystemHandler {
	return &SystemHandler{
		store:     store,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health reports service and store health. The store being down is a
// 503, not a 500: the process itself is fine.
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeStoreAccess, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(HealthResponse{
		Status:    "ok",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
