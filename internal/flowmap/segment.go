package flowmap

import (
	"github.com/transitflow/transitflow/pkg/geo"
)

// Segmenter splits a route's vertex sequence on implausible jumps. Source
// data sometimes concatenates physically disjoint branch geometries into one
// coordinate list; drawing that naively produces a long spurious straight
// line across the map.
type Segmenter struct {
	maxJumpMeters float64
}

// NewSegmenter creates a segmenter. A non-positive threshold falls back to
// geo.DefaultMaxJumpMeters.
func NewSegmenter(maxJumpMeters float64) Segmenter {
	if maxJumpMeters <= 0 {
		maxJumpMeters = geo.DefaultMaxJumpMeters
	}
	return Segmenter{maxJumpMeters: maxJumpMeters}
}

// Segment returns the renderable geometry as one or more disjoint segments,
// each drawn independently so no connector is implied between them.
// Segmentation depends only on static vertex positions; it is recomputed
// whenever geometry is loaded.
func (s Segmenter) Segment(geometry []geo.Point) [][]geo.Point {
	return geo.SplitOnJump(geometry, s.maxJumpMeters)
}
