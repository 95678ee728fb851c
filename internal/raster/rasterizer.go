package raster

import (
	"image"
	"math"
)

// Projector is the map-projection collaborator. Project returns CSS-pixel
// coordinates within the viewport; Size is the viewport's CSS-pixel size.
type Projector interface {
	Project(lat, lon float64) (x, y float64)
	Size() (width, height int)
	PixelRatio() float64
}

// Point is one weighted heatmap input point.
type Point struct {
	Lat   float64
	Lon   float64
	Value float64
}

// Config holds rasterizer tuning.
type Config struct {
	// RadiusPx is the stamp radius in CSS pixels; the device-pixel radius
	// scales with the projector's pixel ratio so the visual radius stays
	// constant. Default: 25.
	RadiusPx float64

	// MaxOpacity is the stamp alpha at full intensity. Default: 0.6.
	MaxOpacity float64

	// Gamma shapes the intensity curve (intensity = t^gamma). Values below
	// one boost weak signals. Default: 0.6.
	Gamma float64

	// Stops define the colorization gradient. Default: DefaultGradient().
	Stops []GradientStop
}

// DefaultConfig returns the default rasterizer configuration.
func DefaultConfig() Config {
	return Config{
		RadiusPx:   25,
		MaxOpacity: 0.6,
		Gamma:      0.6,
		Stops:      DefaultGradient(),
	}
}

// Rasterizer renders weighted points into heatmap frames. It owns no pixel
// state between frames: every draw starts from fresh buffers, so repeated
// resizes cannot accumulate transform drift. Single-threaded by design.
type Rasterizer struct {
	proj  Projector
	sched FrameScheduler
	cfg   Config

	palette *Palette
	stamps  map[int]*Stamp

	points   []Point
	maxValue float64

	frame *image.NRGBA
}

// NewRasterizer creates a rasterizer bound to a projector and a frame
// scheduler. Zero-value config fields fall back to the defaults.
func NewRasterizer(proj Projector, sched FrameScheduler, cfg Config) *Rasterizer {
	def := DefaultConfig()
	if cfg.RadiusPx <= 0 {
		cfg.RadiusPx = def.RadiusPx
	}
	if cfg.MaxOpacity <= 0 {
		cfg.MaxOpacity = def.MaxOpacity
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = def.Gamma
	}
	if len(cfg.Stops) == 0 {
		cfg.Stops = def.Stops
	}
	if sched == nil {
		sched = Immediate{}
	}

	return &Rasterizer{
		proj:    proj,
		sched:   sched,
		cfg:     cfg,
		palette: BuildPalette(cfg.Stops),
		stamps:  make(map[int]*Stamp),
	}
}

// SetPoints replaces the point set wholesale (one time bucket's samples) and
// schedules a redraw.
func (r *Rasterizer) SetPoints(points []Point) {
	r.points = points
	r.maxValue = 0
	for _, p := range points {
		if p.Value > r.maxValue {
			r.maxValue = p.Value
		}
	}
	r.Invalidate()
}

// SetMaxOpacity changes the stamp alpha ceiling and schedules a redraw.
// Values outside (0, 1] are ignored; identical values are a no-op.
func (r *Rasterizer) SetMaxOpacity(v float64) {
	if v <= 0 || v > 1 || v == r.cfg.MaxOpacity {
		return
	}
	r.cfg.MaxOpacity = v
	r.Invalidate()
}

// Invalidate schedules a full redraw. Bursts of invalidations coalesce into
// a single draw under a coalescing scheduler.
func (r *Rasterizer) Invalidate() {
	r.sched.Request(r.redraw)
}

// Frame returns the most recently rendered frame, or nil if none has been
// drawn yet.
func (r *Rasterizer) Frame() *image.NRGBA {
	return r.frame
}

func (r *Rasterizer) redraw() {
	r.frame = r.Render()
}

// Render draws the current point set and returns the frame. It returns nil
// when the projection is unavailable (nil projector or empty viewport); that
// is a no-op, not an error, and the next invalidation will redraw once ready.
func (r *Rasterizer) Render() *image.NRGBA {
	if r.proj == nil {
		return nil
	}
	cssW, cssH := r.proj.Size()
	if cssW <= 0 || cssH <= 0 {
		return nil
	}

	ratio := r.proj.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	devW := int(float64(cssW)*ratio + 0.5)
	devH := int(float64(cssH)*ratio + 0.5)

	// Fresh buffers every draw.
	buf := image.NewAlpha(image.Rect(0, 0, devW, devH))
	out := image.NewNRGBA(image.Rect(0, 0, devW, devH))

	// Accumulation pass.
	if r.maxValue > 0 {
		stamp := r.stamp(int(r.cfg.RadiusPx*ratio + 0.5))
		for _, p := range r.points {
			x, y := r.proj.Project(p.Lat, p.Lon)
			cx := int(x*ratio + 0.5)
			cy := int(y*ratio + 0.5)

			t := p.Value / r.maxValue
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
			intensity := math.Pow(t, r.cfg.Gamma)
			stamp.CompositeOnto(buf, cx, cy, intensity*r.cfg.MaxOpacity)
		}
	}

	// Colorization pass: palette lookup keyed by accumulated alpha byte.
	for i, a := range buf.Pix {
		if a == 0 {
			continue
		}
		c := r.palette[a]
		o := i * 4
		out.Pix[o] = c.R
		out.Pix[o+1] = c.G
		out.Pix[o+2] = c.B
		out.Pix[o+3] = uint8(uint16(c.A) * uint16(a) / 255)
	}

	return out
}

// stamp returns the cached stamp for a device-pixel radius, rendering it on
// first use.
func (r *Rasterizer) stamp(radius int) *Stamp {
	if radius < 1 {
		radius = 1
	}
	if s, ok := r.stamps[radius]; ok {
		return s
	}
	s := NewStamp(radius)
	r.stamps[radius] = s
	return s
}
