// Package prefs manages display preferences for the flow map: which layers
// are visible, the color theme and the default time bucket.
package prefs

import (
	"time"
)

// Well-known preference keys.
const (
	// PrefShowHeatmap toggles the population density heatmap layer.
	PrefShowHeatmap = "show_heatmap"

	// PrefShowFlowMask toggles flow-mask sampling for route colors.
	PrefShowFlowMask = "show_flow_mask"

	// PrefTheme selects the map color theme.
	PrefTheme = "theme"

	// PrefDefaultBucket is the time bucket shown on first render.
	PrefDefaultBucket = "default_bucket"

	// PrefHeatmapOpacity is the heatmap layer's maximum opacity.
	PrefHeatmapOpacity = "heatmap_opacity"
)

// Pref is one display preference with its current value.
type Pref struct {
	Key       string      `json:"key"`
	Value     interface{} `json:"value"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PrefList is the wire shape for listing all preferences.
type PrefList struct {
	Items []Pref `json:"items"`
}

// PrefUpdate is a single preference update request.
type PrefUpdate struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// BoolValue returns the preference value as a boolean, or the default if the
// preference is nil or not boolean shaped.
func (p *Pref) BoolValue(defaultValue bool) bool {
	if p == nil {
		return defaultValue
	}
	switch v := p.Value.(type) {
	case bool:
		return v
	case float64:
		// JSON unmarshals numbers as float64
		return v != 0
	default:
		return defaultValue
	}
}

// StringValue returns the preference value as a string, or the default.
func (p *Pref) StringValue(defaultValue string) string {
	if p == nil {
		return defaultValue
	}
	if v, ok := p.Value.(string); ok {
		return v
	}
	return defaultValue
}

// Float64Value returns the preference value as a float64, or the default.
func (p *Pref) Float64Value(defaultValue float64) float64 {
	if p == nil {
		return defaultValue
	}
	switch v := p.Value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return defaultValue
	}
}

// DefaultPrefs returns the out-of-the-box preference set.
func DefaultPrefs() map[string]*Pref {
	now := time.Now()
	return map[string]*Pref{
		PrefShowHeatmap: {
			Key:       PrefShowHeatmap,
			Value:     true,
			UpdatedAt: now,
		},
		PrefShowFlowMask: {
			Key:       PrefShowFlowMask,
			Value:     true,
			UpdatedAt: now,
		},
		PrefTheme: {
			Key:       PrefTheme,
			Value:     "light",
			UpdatedAt: now,
		},
		PrefDefaultBucket: {
			Key:       PrefDefaultBucket,
			Value:     "08:00",
			UpdatedAt: now,
		},
		PrefHeatmapOpacity: {
			Key:       PrefHeatmapOpacity,
			Value:     0.6,
			UpdatedAt: now,
		},
	}
}
