package models

// FlowView is a route's latest flow observation as served to clients.
type FlowView struct {
	Flow        float64 `json:"flow"`
	Capacity    float64 `json:"capacity"`
	Utilization float64 `json:"utilization"`
	Tier        string  `json:"tier"`
}

// RouteView is one route's static info, interaction state and projected style.
// Geometry is polyline-encoded to keep list payloads small.
type RouteView struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Geometry string    `json:"geometry,omitempty"`
	Color    string    `json:"color"`
	Weight   float64   `json:"weight"`
	Opacity  float64   `json:"opacity"`
	Selected bool      `json:"selected"`
	Hovered  bool      `json:"hovered"`
	Dimmed   bool      `json:"dimmed"`
	Flow     *FlowView `json:"flow,omitempty"`
}

// RouteList is the wire shape for listing routes.
type RouteList struct {
	Items []RouteView `json:"items"`
}

// BucketList is the wire shape for listing time buckets.
type BucketList struct {
	Items   []string `json:"items"`
	Default string   `json:"default,omitempty"`
}
