package handler

import (
	"io"
	"net/http"

	"lab-quality-monitor/internal/ingestion"
	"lab-quality-monitor/internal/middleware"
	"lab-quality-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DeviceTokenHeader carries the per-device shared secret.
const DeviceTokenHeader = "X-Device-Token"

// MetricsSource exposes the in-process ingestion counters.
type MetricsSource interface {
	GetMetrics() ingestion.IngestMetrics
}

type SensorHandler struct {
	ingester ingestion.Ingester
	metrics  MetricsSource
	maxBody  int64
}

// NewSensorHandler caps transmission bodies at maxBody bytes; longer bodies
// are cut there and still handed to the pipeline.
func NewSensorHandler(ingester ingestion.Ingester, metrics MetricsSource, maxBody int64) *SensorHandler {
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxRequestSize
	}
	return &SensorHandler{ingester: ingester, metrics: metrics, maxBody: maxBody}
}

// RegisterRoutes mounts the firmware-facing endpoint.
func (h *SensorHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sensor", h.Receive)
}

func (h *SensorHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/ingestion/metrics", h.GetMetrics)
}

// Receive runs one transmission through the pipeline. The body is handed over
// verbatim so malformed or oversized payloads still reach the raw log.
func (h *SensorHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, h.maxBody+1))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	truncated := int64(len(body)) > h.maxBody
	if truncated {
		body = body[:h.maxBody]
	}

	result := h.ingester.Ingest(c.Request.Context(), ingestion.Transmission{
		Raw:        body,
		RemoteAddr: c.ClientIP(),
		Token:      c.GetHeader(DeviceTokenHeader),
		Transport:  ingestion.TransportHTTP,
		RequestID:  middleware.GetRequestID(c),
		Truncated:  truncated,
	})

	c.JSON(result.HTTPStatus(), result)
}

func (h *SensorHandler) GetMetrics(c *gin.Context) {
	if h.metrics == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Ingestion metrics unavailable")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Ingestion metrics retrieved successfully", h.metrics.GetMetrics())
}
