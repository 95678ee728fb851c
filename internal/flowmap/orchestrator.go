package flowmap

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/transitflow/transitflow/internal/colorscale"
	"github.com/transitflow/transitflow/pkg/geo"
)

// RouteRenderer is the drawing surface the orchestrator manages. The
// orchestrator never talks to a map widget directly; any surface that can
// draw styled multi-segment lines qualifies, including test recorders.
type RouteRenderer interface {
	// AddRoute renders a route's segments with an initial style.
	AddRoute(id string, segments [][]geo.Point, style Style)

	// SetStyle restyles an already-added route. Must be idempotent for
	// identical styles.
	SetStyle(id string, style Style)
}

// placeholderStyle is applied between geometry registration and the first
// projection so a route is never visible unstyled.
var placeholderStyle = Style{
	Color:   colorscale.NeutralColor,
	Weight:  weightDefault,
	Opacity: opacityDefault,
}

// OrchestratorConfig holds the orchestrator's injected dependencies.
type OrchestratorConfig struct {
	Renderer  RouteRenderer
	Projector *StyleProjector
	Segmenter Segmenter
	Logger    zerolog.Logger
}

// Orchestrator owns the route collection, wires interaction transitions to
// the style projector and batches flow-snapshot ingestion. It is constructed
// with explicit dependencies, never ambient globals, so multiple independent
// instances can coexist.
//
// Single-threaded by design: all methods must be called from the owning
// event loop.
type Orchestrator struct {
	renderer  RouteRenderer
	projector *StyleProjector
	segmenter Segmenter
	logger    zerolog.Logger

	routes  map[string]*RouteState
	order   []string
	aliases map[string]string

	selected string
}

// NewOrchestrator creates an orchestrator from its dependencies.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	projector := cfg.Projector
	if projector == nil {
		projector = NewStyleProjector(nil, nil)
	}
	return &Orchestrator{
		renderer:  cfg.Renderer,
		projector: projector,
		segmenter: cfg.Segmenter,
		logger:    cfg.Logger,
		routes:    make(map[string]*RouteState),
		aliases:   make(map[string]string),
	}
}

// AddRoute registers a route, renders its segmented geometry with a
// placeholder style and immediately projects the real style so the route
// never visibly flashes an unstyled default.
func (o *Orchestrator) AddRoute(id string, info RouteInfo) error {
	if _, exists := o.routes[id]; exists {
		return ErrDuplicateRoute
	}

	rs := &RouteState{ID: id, Static: info}
	o.routes[id] = rs
	o.order = append(o.order, id)
	if info.Name != "" {
		o.aliases[NormalizeAlias(info.Name)] = id
	}

	segments := o.segmenter.Segment(info.Geometry)
	o.renderer.AddRoute(id, segments, placeholderStyle)
	o.applyStyle(rs)

	o.logger.Debug().
		Str("route_id", id).
		Str("type", string(info.Type)).
		Int("segments", len(segments)).
		Msg("route added")
	return nil
}

// Route returns the state for a route id.
func (o *Orchestrator) Route(id string) (*RouteState, bool) {
	rs, ok := o.routes[id]
	return rs, ok
}

// Routes returns all route states in registration order.
func (o *Orchestrator) Routes() []*RouteState {
	out := make([]*RouteState, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.routes[id])
	}
	return out
}

// IngestFlowSnapshot merges one time bucket's observations into route state
// and re-projects styles. Entries that resolve to no registered route are
// skipped silently; sparse datasets are normal operation. Each matched
// route's flow field is replaced wholesale; routes absent from the snapshot
// retain their last-known flow. Returns the number of matched entries.
func (o *Orchestrator) IngestFlowSnapshot(entries []FlowEntry) int {
	matched := 0
	for _, e := range entries {
		rs, ok := o.resolve(e.RouteID)
		if !ok {
			o.logger.Debug().Str("route_id", e.RouteID).Msg("flow entry for unknown route skipped")
			continue
		}
		rs.Flow = &FlowObservation{
			Flow:        e.Flow,
			Capacity:    e.Capacity,
			Utilization: e.Utilization,
			Type:        e.Type,
		}
		matched++
	}

	// Correctness-first: re-project every route. Styles that did not
	// change are diffed away before reaching the renderer.
	o.reprojectAll()
	return matched
}

// Select marks exactly one route selected and dims all others. A previous
// selection is cleared first. Unknown ids are ignored.
func (o *Orchestrator) Select(id string) {
	if _, ok := o.routes[id]; !ok {
		o.logger.Debug().Str("route_id", id).Msg("select for unknown route ignored")
		return
	}

	for _, rs := range o.routes {
		if rs.ID == id {
			rs.UI = UIState{Selected: true}
		} else {
			rs.UI = UIState{Dimmed: true}
		}
	}
	o.selected = id
	o.reprojectAll()
}

// ClearSelection restores all routes to default visibility.
func (o *Orchestrator) ClearSelection() {
	for _, rs := range o.routes {
		rs.UI = UIState{}
	}
	o.selected = ""
	o.reprojectAll()
}

// Selected returns the currently selected route id, if any.
func (o *Orchestrator) Selected() (string, bool) {
	return o.selected, o.selected != ""
}

// Hover marks a route hovered. Selection takes precedence: hovering a
// selected route is a no-op, so a stale hover can never override it.
func (o *Orchestrator) Hover(id string) {
	rs, ok := o.routes[id]
	if !ok || rs.UI.Selected {
		return
	}
	rs.UI.Hovered = true
	o.applyStyle(rs)
}

// Unhover clears a route's hovered flag. No-op while the route is selected.
func (o *Orchestrator) Unhover(id string) {
	rs, ok := o.routes[id]
	if !ok || rs.UI.Selected {
		return
	}
	rs.UI.Hovered = false
	o.applyStyle(rs)
}

func (o *Orchestrator) reprojectAll() {
	for _, id := range o.order {
		o.applyStyle(o.routes[id])
	}
}

func (o *Orchestrator) applyStyle(rs *RouteState) {
	o.projector.ApplyDiffed(rs, func(style Style) {
		o.renderer.SetStyle(rs.ID, style)
	})
}

// resolve maps a snapshot key to a registered route: primary key match
// first, then the name-alias table.
func (o *Orchestrator) resolve(key string) (*RouteState, bool) {
	if rs, ok := o.routes[key]; ok {
		return rs, true
	}
	if id, ok := o.aliases[NormalizeAlias(key)]; ok {
		return o.routes[id], true
	}
	return nil, false
}

// NormalizeAlias folds a display name to a lookup key: lowercase with
// spacing and punctuation stripped, so "NS Line" matches "ns-line". Shared
// with the dataset layer so both resolve flow-entry keys the same way.
func NormalizeAlias(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
