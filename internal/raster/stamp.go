package raster

import (
	"image"
)

// Stamp is a pre-rendered radial alpha-falloff disk. Stamps are rendered
// once per device-pixel radius and reused across frames; the pixel data is
// immutable after construction.
type Stamp struct {
	radius int
	img    *image.Alpha
}

// NewStamp renders a stamp with the given device-pixel radius. Radii below
// one pixel are clamped to one.
func NewStamp(radiusPx int) *Stamp {
	if radiusPx < 1 {
		radiusPx = 1
	}

	size := radiusPx*2 + 1
	img := image.NewAlpha(image.Rect(0, 0, size, size))

	r := float64(radiusPx)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x - radiusPx)
			dy := float64(y - radiusPx)
			t := (dx*dx + dy*dy) / (r * r)
			if t >= 1 {
				continue
			}
			// Quadratic falloff approximates the Gaussian-like profile of
			// a canvas radial gradient.
			falloff := 1 - t
			img.Pix[y*img.Stride+x] = uint8(falloff*falloff*255 + 0.5)
		}
	}

	return &Stamp{radius: radiusPx, img: img}
}

// Radius returns the stamp's device-pixel radius.
func (s *Stamp) Radius() int {
	return s.radius
}

// AlphaAt returns the stamp's alpha byte at the given offset from its center.
func (s *Stamp) AlphaAt(dx, dy int) uint8 {
	x := dx + s.radius
	y := dy + s.radius
	if x < 0 || y < 0 || x >= s.img.Rect.Dx() || y >= s.img.Rect.Dy() {
		return 0
	}
	return s.img.Pix[y*s.img.Stride+x]
}

// CompositeOnto source-over composites the stamp onto the alpha buffer at
// center (cx, cy), scaled by the global alpha factor in [0, 1]. Overlapping
// stamps brighten the buffer; the result saturates at full alpha.
func (s *Stamp) CompositeOnto(buf *image.Alpha, cx, cy int, globalAlpha float64) {
	if globalAlpha <= 0 {
		return
	}
	if globalAlpha > 1 {
		globalAlpha = 1
	}

	bounds := buf.Rect
	for sy := 0; sy < s.img.Rect.Dy(); sy++ {
		by := cy - s.radius + sy
		if by < bounds.Min.Y || by >= bounds.Max.Y {
			continue
		}
		for sx := 0; sx < s.img.Rect.Dx(); sx++ {
			bx := cx - s.radius + sx
			if bx < bounds.Min.X || bx >= bounds.Max.X {
				continue
			}
			sa := s.img.Pix[sy*s.img.Stride+sx]
			if sa == 0 {
				continue
			}

			src := float64(sa) / 255 * globalAlpha
			idx := (by-bounds.Min.Y)*buf.Stride + (bx - bounds.Min.X)
			dst := float64(buf.Pix[idx]) / 255
			buf.Pix[idx] = uint8((src+dst*(1-src))*255 + 0.5)
		}
	}
}
