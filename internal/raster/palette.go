// Package raster renders station-level point intensity into heatmap frames
// using a two-pass pipeline: alpha accumulation of radial stamps, then
// colorization through a precomputed 256-entry palette.
package raster

import (
	"image/color"
	"sort"
)

// GradientStop is one keypoint of a heatmap gradient. Pos lives in [0, 1].
type GradientStop struct {
	Pos   float64
	Color color.NRGBA
}

// Palette is a 256-entry lookup table mapping an accumulated alpha byte to a
// final RGBA color. Immutable once built; safe to share across frames.
type Palette [256]color.NRGBA

// DefaultGradient returns the default heatmap gradient: cold transparent blue
// through cyan and lime into opaque red.
func DefaultGradient() []GradientStop {
	return []GradientStop{
		{Pos: 0.0, Color: color.NRGBA{R: 0, G: 0, B: 255, A: 0}},
		{Pos: 0.25, Color: color.NRGBA{R: 0, G: 255, B: 255, A: 102}},
		{Pos: 0.5, Color: color.NRGBA{R: 0, G: 255, B: 0, A: 153}},
		{Pos: 0.75, Color: color.NRGBA{R: 255, G: 255, B: 0, A: 204}},
		{Pos: 1.0, Color: color.NRGBA{R: 255, G: 0, B: 0, A: 255}},
	}
}

// BuildPalette produces the 256-entry palette by piecewise-linear
// interpolation between the bracketing stops for each normalized position.
// Building is pure and idempotent. Degenerate inputs are handled without
// division by zero: no stops yields a fully transparent palette, a single
// stop yields a flat color.
func BuildPalette(stops []GradientStop) *Palette {
	var p Palette
	if len(stops) == 0 {
		return &p
	}

	sorted := make([]GradientStop, len(stops))
	copy(sorted, stops)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Pos < sorted[b].Pos
	})

	for i := 0; i < 256; i++ {
		p[i] = colorAtPos(sorted, float64(i)/255)
	}
	return &p
}

// colorAtPos linearly blends the two stops bracketing t.
func colorAtPos(stops []GradientStop, t float64) color.NRGBA {
	if t <= stops[0].Pos {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Pos {
		return last.Color
	}

	for i := 0; i < len(stops)-1; i++ {
		lo, hi := stops[i], stops[i+1]
		if t < lo.Pos || t > hi.Pos {
			continue
		}
		span := hi.Pos - lo.Pos
		if span == 0 {
			// Coinciding stops: the later one wins.
			return hi.Color
		}
		frac := (t - lo.Pos) / span
		return lerpNRGBA(lo.Color, hi.Color, frac)
	}

	return last.Color
}

func lerpNRGBA(a, b color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerpByte(a.R, b.R, t),
		G: lerpByte(a.G, b.G, t),
		B: lerpByte(a.B, b.B, t),
		A: lerpByte(a.A, b.A, t),
	}
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)) + 0.5)
}
