package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/transitflow/transitflow/internal/api/models"
	"github.com/transitflow/transitflow/internal/api/response"
	"github.com/transitflow/transitflow/internal/colorscale"
	"github.com/transitflow/transitflow/internal/flowmap"
	"github.com/transitflow/transitflow/internal/prefs"
	"github.com/transitflow/transitflow/internal/render"
	"github.com/transitflow/transitflow/pkg/polyline"
)

// FlowMapHandler handles route listing and interaction endpoints.
type FlowMapHandler struct {
	render *render.Service
	prefs  *prefs.Service
}

// NewFlowMapHandler creates a new FlowMapHandler.
func NewFlowMapHandler(renderService *render.Service, prefService *prefs.Service) *FlowMapHandler {
	return &FlowMapHandler{render: renderService, prefs: prefService}
}

// ListRoutes handles GET /v1/routes - all routes with their current state.
func (h *FlowMapHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	states := h.render.Routes()
	items := make([]models.RouteView, 0, len(states))
	for _, rs := range states {
		items = append(items, h.routeView(rs))
	}
	response.JSON(w, r, http.StatusOK, models.RouteList{Items: items})
}

// ListBuckets handles GET /v1/buckets - the dataset's time buckets.
func (h *FlowMapHandler) ListBuckets(w http.ResponseWriter, r *http.Request) {
	list := models.BucketList{Items: h.render.Buckets()}
	if h.prefs != nil {
		list.Default = h.prefs.DefaultBucket(r.Context())
	}
	response.JSON(w, r, http.StatusOK, list)
}

// SelectRoute handles POST /v1/routes/{routeId}/select - select one route.
func (h *FlowMapHandler) SelectRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "routeId")
	if _, ok := h.findRoute(id); !ok {
		response.NotFound(w, r, "route not found: "+id)
		return
	}
	h.render.Select(id)
	response.NoContent(w, r)
}

// ClearSelection handles DELETE /v1/selection - restore default visibility.
func (h *FlowMapHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.render.ClearSelection()
	response.NoContent(w, r)
}

// HoverRoute handles POST /v1/routes/{routeId}/hover - mark a route hovered.
func (h *FlowMapHandler) HoverRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "routeId")
	if _, ok := h.findRoute(id); !ok {
		response.NotFound(w, r, "route not found: "+id)
		return
	}
	h.render.Hover(id)
	response.NoContent(w, r)
}

// UnhoverRoute handles DELETE /v1/routes/{routeId}/hover.
func (h *FlowMapHandler) UnhoverRoute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "routeId")
	if _, ok := h.findRoute(id); !ok {
		response.NotFound(w, r, "route not found: "+id)
		return
	}
	h.render.Unhover(id)
	response.NoContent(w, r)
}

func (h *FlowMapHandler) findRoute(id string) (*flowmap.RouteState, bool) {
	for _, rs := range h.render.Routes() {
		if rs.ID == id {
			return rs, true
		}
	}
	return nil, false
}

func (h *FlowMapHandler) routeView(rs *flowmap.RouteState) models.RouteView {
	style := h.render.StyleOf(rs)
	view := models.RouteView{
		ID:       rs.ID,
		Name:     rs.Static.Name,
		Type:     string(rs.Static.Type),
		Geometry: polyline.Encode(rs.Static.Geometry),
		Color:    style.Color,
		Weight:   style.Weight,
		Opacity:  style.Opacity,
		Selected: rs.UI.Selected,
		Hovered:  rs.UI.Hovered,
		Dimmed:   rs.UI.Dimmed,
	}
	if rs.Flow != nil {
		view.Flow = &models.FlowView{
			Flow:        rs.Flow.Flow,
			Capacity:    rs.Flow.Capacity,
			Utilization: rs.Flow.Utilization,
			Tier:        string(colorscale.UtilizationTier(rs.Flow.Utilization)),
		}
	}
	return view
}
