package handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/transitflow/transitflow/internal/api/models"
	"github.com/transitflow/transitflow/internal/api/response"
	"github.com/transitflow/transitflow/internal/prefs"
)

// PrefsHandler handles display preference endpoints.
type PrefsHandler struct {
	service *prefs.Service
}

// NewPrefsHandler creates a new PrefsHandler.
func NewPrefsHandler(service *prefs.Service) *PrefsHandler {
	return &PrefsHandler{service: service}
}

// ListPrefs handles GET /v1/prefs - all preferences with defaults applied.
func (h *PrefsHandler) ListPrefs(w http.ResponseWriter, r *http.Request) {
	all := h.service.GetAllPrefs(r.Context())

	items := make([]prefs.Pref, 0, len(all))
	for _, p := range all {
		items = append(items, *p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })

	response.JSON(w, r, http.StatusOK, prefs.PrefList{Items: items})
}

// UpdatePrefs handles PUT /v1/prefs - apply a batch of preference updates.
func (h *PrefsHandler) UpdatePrefs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Updates []prefs.PrefUpdate `json:"updates"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if len(req.Updates) == 0 {
		response.BadRequest(w, r, "no updates provided", []models.FieldError{
			{Field: "updates", Message: "must not be empty"},
		})
		return
	}

	for _, u := range req.Updates {
		if u.Key == "" {
			response.BadRequest(w, r, "preference key must not be empty", []models.FieldError{
				{Field: "key", Message: "must not be empty"},
			})
			return
		}
	}

	for _, u := range req.Updates {
		if err := h.service.SetPref(r.Context(), &prefs.Pref{Key: u.Key, Value: u.Value}); err != nil {
			response.InternalError(w, r, "failed to store preference")
			return
		}
	}
	response.NoContent(w, r)
}

// InvalidateCache handles POST /v1/prefs/invalidate - drop the preference cache.
func (h *PrefsHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache()
	response.NoContent(w, r)
}
