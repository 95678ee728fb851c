// Package handler provides HTTP handlers for the TransitFlow API.
package handler

import (
	"net/http"
	"time"

	"github.com/transitflow/transitflow/internal/api/models"
	"github.com/transitflow/transitflow/internal/api/response"
	"github.com/transitflow/transitflow/internal/render"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	render    *render.Service
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, renderService *render.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		render:    renderService,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service is
// ready once the dataset is loaded and the render stack is built.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.render == nil {
		problem := models.NewServiceUnavailable("", "render service not initialized")
		response.Error(w, r, problem)
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"routes":  len(h.render.Routes()),
			"buckets": len(h.render.Buckets()),
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}
