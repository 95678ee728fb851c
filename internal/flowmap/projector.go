package flowmap

import (
	"github.com/transitflow/transitflow/internal/colorscale"
	"github.com/transitflow/transitflow/pkg/geo"
)

// FlowSurface is the optional spatial-interpolation overlay sampled when a
// route has no direct flow observation.
type FlowSurface interface {
	Ready() bool
	Sample(lat, lon float64) (float64, bool)
}

// Style constants. Selection and hover emphasize; dimming fades.
const (
	weightEmphasis = 6.0
	weightDefault  = 4.0

	opacityFull    = 1.0
	opacityDefault = 0.8
	opacityDimmed  = 0.3
)

// StyleProjector computes a route's visual style as a pure function of
// (static info, latest flow, UI flags). It never reads the memoized
// lastStyle as an input.
type StyleProjector struct {
	scale   *colorscale.Scale
	surface FlowSurface
}

// NewStyleProjector creates a projector. surface may be nil when no flow
// mask is configured.
func NewStyleProjector(scale *colorscale.Scale, surface FlowSurface) *StyleProjector {
	if scale == nil {
		scale = colorscale.New(colorscale.DefaultConfig())
	}
	return &StyleProjector{scale: scale, surface: surface}
}

// Project computes the style for a route. Priority order, first match wins:
// selected, hovered, dimmed, default.
func (p *StyleProjector) Project(rs *RouteState) Style {
	color := p.decideColor(rs)

	switch {
	case rs.UI.Selected:
		return Style{Color: color, Weight: weightEmphasis, Opacity: opacityFull}
	case rs.UI.Hovered:
		return Style{Color: color, Weight: weightEmphasis, Opacity: opacityFull}
	case rs.UI.Dimmed:
		return Style{Color: color, Weight: weightDefault, Opacity: opacityDimmed}
	default:
		return Style{Color: color, Weight: weightDefault, Opacity: opacityDefault}
	}
}

// decideColor resolves the line color. Precedence: observed flow value,
// flow-mask sample at the geometry's bounding-box center, declared static
// color, transport-type default, neutral gray.
func (p *StyleProjector) decideColor(rs *RouteState) string {
	if rs.Flow != nil {
		domain := string(rs.Flow.Type)
		if domain == "" {
			domain = string(rs.Static.Type)
		}
		return p.scale.ColorFor(rs.Flow.Flow, domain)
	}

	if p.surface != nil && p.surface.Ready() {
		if b, ok := geo.BoundsOf(rs.Static.Geometry); ok {
			center := b.Center()
			if v, ok := p.surface.Sample(center.Lat, center.Lon); ok {
				return p.scale.ColorFor(v, string(rs.Static.Type))
			}
		}
	}

	if rs.Static.Color != "" {
		return rs.Static.Color
	}

	return colorscale.TypeDefaultColor(string(rs.Static.Type))
}

// ApplyDiffed computes the route's style and invokes apply only when it
// differs field-by-field from the last applied style. The diff is an
// optimization: repeated identical application must stay idempotent on the
// rendering surface.
func (p *StyleProjector) ApplyDiffed(rs *RouteState, apply func(Style)) {
	style := p.Project(rs)
	if rs.lastStyle != nil && *rs.lastStyle == style {
		return
	}
	rs.lastStyle = &style
	apply(style)
}
