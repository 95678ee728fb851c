// Package render turns route state and heatmap points into raster frames.
// It composes the flow map orchestrator, the heatmap rasterizer and a
// bounding-box map projection over a fixed viewport.
package render

import (
	"github.com/transitflow/transitflow/pkg/geo"
)

// BBoxProjector is an equirectangular projection of a geographic bounding
// box onto a fixed CSS-pixel viewport. It satisfies the rasterizer's
// projector contract and is shared by the line renderer so both layers land
// on the same pixels.
type BBoxProjector struct {
	bounds geo.Bounds
	width  int
	height int
	ratio  float64
}

// NewBBoxProjector creates a projector for a bounding box and viewport. A
// non-positive pixel ratio falls back to 1.
func NewBBoxProjector(bounds geo.Bounds, width, height int, ratio float64) *BBoxProjector {
	if ratio <= 0 {
		ratio = 1
	}
	return &BBoxProjector{bounds: bounds, width: width, height: height, ratio: ratio}
}

// Project maps a coordinate to CSS-pixel viewport coordinates. North is up:
// higher latitudes project to smaller y. A degenerate bounds axis collapses
// to the viewport center on that axis.
func (p *BBoxProjector) Project(lat, lon float64) (x, y float64) {
	spanLon := p.bounds.MaxLon - p.bounds.MinLon
	spanLat := p.bounds.MaxLat - p.bounds.MinLat

	if spanLon > 0 {
		x = (lon - p.bounds.MinLon) / spanLon * float64(p.width)
	} else {
		x = float64(p.width) / 2
	}
	if spanLat > 0 {
		y = (p.bounds.MaxLat - lat) / spanLat * float64(p.height)
	} else {
		y = float64(p.height) / 2
	}
	return x, y
}

// Size returns the viewport size in CSS pixels.
func (p *BBoxProjector) Size() (width, height int) {
	return p.width, p.height
}

// PixelRatio returns the device-to-CSS pixel ratio.
func (p *BBoxProjector) PixelRatio() float64 {
	return p.ratio
}

// Bounds returns the projected bounding box.
func (p *BBoxProjector) Bounds() geo.Bounds {
	return p.bounds
}

// FitBounds computes a padded bounding box covering every coordinate list.
// Returns false when no list has any points.
func FitBounds(coordLists [][]geo.Point, padFraction float64) (geo.Bounds, bool) {
	var bounds geo.Bounds
	found := false
	for _, coords := range coordLists {
		b, ok := geo.BoundsOf(coords)
		if !ok {
			continue
		}
		if !found {
			bounds = b
			found = true
			continue
		}
		bounds = bounds.Extend(b)
	}
	if !found {
		return geo.Bounds{}, false
	}
	return bounds.Pad(padFraction), true
}
