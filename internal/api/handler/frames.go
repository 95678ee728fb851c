package handler

import (
	"errors"
	"net/http"

	"github.com/transitflow/transitflow/internal/api/response"
	"github.com/transitflow/transitflow/internal/prefs"
	"github.com/transitflow/transitflow/internal/render"
)

// FramesHandler serves rendered map frames.
type FramesHandler struct {
	render *render.Service
	prefs  *prefs.Service
}

// NewFramesHandler creates a new FramesHandler.
func NewFramesHandler(renderService *render.Service, prefService *prefs.Service) *FramesHandler {
	return &FramesHandler{render: renderService, prefs: prefService}
}

// RoutesFrame handles GET /v1/frames/routes.png?bucket=08:00 - the styled
// route layer for a time bucket. An omitted bucket falls back to the default
// bucket preference.
func (h *FramesHandler) RoutesFrame(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" && h.prefs != nil {
		bucket = h.prefs.DefaultBucket(r.Context())
	}

	frame, err := h.render.RenderRoutes(r.Context(), bucket)
	if err != nil {
		if errors.Is(err, render.ErrUnknownBucket) {
			response.NotFound(w, r, err.Error())
			return
		}
		response.InternalError(w, r, "failed to render routes frame")
		return
	}
	response.PNG(w, r, frame)
}

// HeatmapFrame handles GET /v1/frames/heatmap.png - the weighted-point
// heatmap layer. Without a bucket it renders the population density
// baseline; with one, that bucket's station-level flow intensity.
func (h *FramesHandler) HeatmapFrame(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")

	frame, err := h.render.RenderHeatmap(r.Context(), bucket)
	if err != nil {
		if errors.Is(err, render.ErrUnknownBucket) {
			response.NotFound(w, r, err.Error())
			return
		}
		response.InternalError(w, r, "failed to render heatmap frame")
		return
	}
	response.PNG(w, r, frame)
}

// Legend handles GET /v1/legend - the color coding of the rendered layers.
func (h *FramesHandler) Legend(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.render.Legend())
}
