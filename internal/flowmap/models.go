// Package flowmap holds per-route rendering state and projects it to visual
// styles: colored transit lines whose color and weight encode passenger load.
package flowmap

import (
	"errors"

	"github.com/transitflow/transitflow/pkg/geo"
)

// Flowmap errors.
var (
	ErrDuplicateRoute = errors.New("route already registered")
)

// TransportType identifies a transit mode.
type TransportType string

const (
	TypeMRT TransportType = "mrt"
	TypeLRT TransportType = "lrt"
	TypeBus TransportType = "bus"
)

// Station is one stop on a route.
type Station struct {
	ID       string
	Name     string
	Position geo.Point
}

// RouteInfo is the immutable descriptive record for a transit line.
type RouteInfo struct {
	// Name is the display name (e.g. "North South Line").
	Name string

	// Type is the transit mode.
	Type TransportType

	// Color is the declared base color; may be empty.
	Color string

	// Stations is the ordered station list.
	Stations []Station

	// Geometry is the ordered vertex sequence of the line.
	Geometry []geo.Point
}

// FlowObservation is the latest observed passenger flow for one route.
// Overwritten wholesale on each snapshot ingestion, never partially merged.
type FlowObservation struct {
	Flow     float64
	Capacity float64

	// Utilization is flow divided by nominal capacity, domain [0, ~1+].
	Utilization float64

	// Type is the transport type carried by the observation itself; when
	// empty, color lookup falls back to the route's static type.
	Type TransportType
}

// UIState holds the interaction flags for a route. Selected and Dimmed are
// mutually exclusive; exclusivity is enforced by the orchestrator, not here.
type UIState struct {
	Selected bool
	Hovered  bool
	Dimmed   bool
}

// Style is the visual style consumed by the rendering surface.
type Style struct {
	// Color is a CSS color string.
	Color string

	// Weight is the stroke width in pixels.
	Weight float64

	// Opacity is in [0, 1].
	Opacity float64
}

// RouteState is the persistent per-route state. Created at data-load time,
// mutated on every flow-snapshot update, destroyed on full reset.
type RouteState struct {
	// ID is the stable unique key.
	ID string

	// Static is the immutable descriptive record.
	Static RouteInfo

	// Flow is the latest observation; nil until the first ingestion.
	// Routes absent from a snapshot retain their last-known flow.
	Flow *FlowObservation

	// UI holds the interaction flags.
	UI UIState

	// lastStyle memoizes the most recently applied style. It is compared
	// against freshly computed styles to skip redundant redraws and must
	// never feed style computation itself.
	lastStyle *Style
}

// FlowEntry is one route's observation within a flow snapshot, as supplied
// by the dataset.
type FlowEntry struct {
	RouteID     string        `json:"route_id"`
	Type        TransportType `json:"type"`
	Flow        float64       `json:"flow"`
	Capacity    float64       `json:"capacity"`
	Utilization float64       `json:"utilization"`
}
