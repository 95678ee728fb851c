package flowmap

import (
	"github.com/transitflow/transitflow/internal/interp"
)

// Surface adapts an IDW interpolator and the current bucket's station
// samples to the FlowSurface interface consumed by the style projector.
type Surface struct {
	est     *interp.Interpolator
	samples []interp.Sample
}

// NewSurface creates a surface backed by the given interpolator.
func NewSurface(est *interp.Interpolator) *Surface {
	if est == nil {
		est = interp.New(interp.DefaultConfig())
	}
	return &Surface{est: est}
}

// SetSamples replaces the sample set wholesale for a new time bucket.
func (s *Surface) SetSamples(samples []interp.Sample) {
	s.samples = samples
}

// Ready reports whether the surface has samples to estimate from.
func (s *Surface) Ready() bool {
	return len(s.samples) > 0
}

// Sample estimates the flow intensity at a coordinate. The second return
// value is false when no estimate is possible there.
func (s *Surface) Sample(lat, lon float64) (float64, bool) {
	if !s.Ready() {
		return 0, false
	}
	return s.est.Estimate(lat, lon, s.samples)
}
