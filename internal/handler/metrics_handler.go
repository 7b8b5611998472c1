package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notioncoach/notioncoach-api/internal/service"
)

// MetricsHandler exposes Prometheus metrics and liveness probes.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus serves the metrics endpoint.
func (h *MetricsHandler) Prometheus() gin.HandlerFunc {
	handler := h.metrics.Handler()
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// Health godoc
// @Summary Health check
// @Tags Monitoring
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
