package render

import (
	"image"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/transitflow/transitflow/internal/colorscale"
	"github.com/transitflow/transitflow/internal/flowmap"
	"github.com/transitflow/transitflow/internal/raster"
	"github.com/transitflow/transitflow/pkg/geo"
)

// LineRenderer draws styled multi-segment route lines into raster frames.
// It implements the orchestrator's drawing-surface contract: AddRoute
// registers geometry once, SetStyle restyles it, and every frame is redrawn
// from scratch so there is no incremental pixel state to corrupt.
type LineRenderer struct {
	proj  raster.Projector
	sched raster.FrameScheduler

	routes map[string]*renderedRoute
	order  []string

	frame *image.NRGBA
}

type renderedRoute struct {
	segments [][]geo.Point
	style    flowmap.Style
}

// NewLineRenderer creates a line renderer bound to a projector and a frame
// scheduler.
func NewLineRenderer(proj raster.Projector, sched raster.FrameScheduler) *LineRenderer {
	if sched == nil {
		sched = raster.Immediate{}
	}
	return &LineRenderer{
		proj:   proj,
		sched:  sched,
		routes: make(map[string]*renderedRoute),
	}
}

// AddRoute registers a route's segments with an initial style.
func (l *LineRenderer) AddRoute(id string, segments [][]geo.Point, style flowmap.Style) {
	if _, exists := l.routes[id]; !exists {
		l.order = append(l.order, id)
	}
	l.routes[id] = &renderedRoute{segments: segments, style: style}
	l.Invalidate()
}

// SetStyle restyles an already-added route. Unknown ids are ignored.
func (l *LineRenderer) SetStyle(id string, style flowmap.Style) {
	route, ok := l.routes[id]
	if !ok {
		return
	}
	route.style = style
	l.Invalidate()
}

// Invalidate schedules a full redraw.
func (l *LineRenderer) Invalidate() {
	l.sched.Request(l.redraw)
}

// Frame returns the most recently rendered frame, or nil if none has been
// drawn yet.
func (l *LineRenderer) Frame() *image.NRGBA {
	return l.frame
}

func (l *LineRenderer) redraw() {
	l.frame = l.Render()
}

// Render draws every registered route in registration order and returns the
// frame, or nil when the projection is unavailable.
func (l *LineRenderer) Render() *image.NRGBA {
	if l.proj == nil {
		return nil
	}
	cssW, cssH := l.proj.Size()
	if cssW <= 0 || cssH <= 0 {
		return nil
	}

	ratio := l.proj.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	devW := int(float64(cssW)*ratio + 0.5)
	devH := int(float64(cssH)*ratio + 0.5)

	out := image.NewNRGBA(image.Rect(0, 0, devW, devH))

	for _, id := range l.order {
		route := l.routes[id]
		r, g, b := parseHex(route.style.Color)
		halfWidth := route.style.Weight * ratio / 2
		if halfWidth < 0.5 {
			halfWidth = 0.5
		}
		opacity := route.style.Opacity
		if opacity <= 0 {
			continue
		}
		if opacity > 1 {
			opacity = 1
		}

		for _, segment := range route.segments {
			for i := 1; i < len(segment); i++ {
				x0, y0 := l.proj.Project(segment[i-1].Lat, segment[i-1].Lon)
				x1, y1 := l.proj.Project(segment[i].Lat, segment[i].Lon)
				strokeLine(out, x0*ratio, y0*ratio, x1*ratio, y1*ratio, halfWidth, r, g, b, opacity)
			}
		}
	}

	return out
}

// parseHex decodes a #rrggbb color, falling back to the neutral color on
// malformed input.
func parseHex(hex string) (r, g, b uint8) {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(colorscale.NeutralColor)
	}
	cr, cg, cb := c.RGB255()
	return cr, cg, cb
}

// strokeLine draws one anti-aliased thick line segment in device pixels,
// compositing source-over onto the frame.
func strokeLine(img *image.NRGBA, x0, y0, x1, y1, halfWidth float64, r, g, b uint8, opacity float64) {
	bounds := img.Bounds()
	pad := halfWidth + 1

	minX := clampInt(int(math.Floor(math.Min(x0, x1)-pad)), bounds.Min.X, bounds.Max.X)
	maxX := clampInt(int(math.Ceil(math.Max(x0, x1)+pad)), bounds.Min.X, bounds.Max.X)
	minY := clampInt(int(math.Floor(math.Min(y0, y1)-pad)), bounds.Min.Y, bounds.Max.Y)
	maxY := clampInt(int(math.Ceil(math.Max(y0, y1)+pad)), bounds.Min.Y, bounds.Max.Y)

	for py := minY; py < maxY; py++ {
		for px := minX; px < maxX; px++ {
			d := distToSegment(float64(px)+0.5, float64(py)+0.5, x0, y0, x1, y1)
			coverage := halfWidth + 0.5 - d
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			blendPixel(img, px, py, r, g, b, opacity*coverage)
		}
	}
}

// distToSegment returns the distance from a point to a line segment.
func distToSegment(px, py, x0, y0, x1, y1 float64) float64 {
	dx := x1 - x0
	dy := y1 - y0
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-x0, py-y0)
	}
	t := ((px-x0)*dx + (py-y0)*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(px-(x0+t*dx), py-(y0+t*dy))
}

// blendPixel composites one color sample source-over onto the frame.
func blendPixel(img *image.NRGBA, x, y int, r, g, b uint8, alpha float64) {
	o := img.PixOffset(x, y)
	pix := img.Pix[o : o+4 : o+4]

	srcA := alpha
	dstA := float64(pix[3]) / 255
	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		return
	}

	blend := func(src uint8, dst uint8) uint8 {
		c := (float64(src)*srcA + float64(dst)*dstA*(1-srcA)) / outA
		return uint8(c + 0.5)
	}
	pix[0] = blend(r, pix[0])
	pix[1] = blend(g, pix[1])
	pix[2] = blend(b, pix[2])
	pix[3] = uint8(outA*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Ensure LineRenderer implements the orchestrator's surface contract.
var _ flowmap.RouteRenderer = (*LineRenderer)(nil)
