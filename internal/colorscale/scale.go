// Package colorscale maps scalar passenger-flow values to colors through
// perceptual gradient families, and derives utilization-tier colors.
package colorscale

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// NeutralColor is the sentinel color returned for missing values and
// unknown domains. Rendering a gray line is the "no data" presentation,
// never an error.
const NeutralColor = "#9e9e9e"

// Family names a perceptual gradient family.
type Family string

const (
	FamilyViridis Family = "viridis"
	FamilyPlasma  Family = "plasma"
	FamilyInferno Family = "inferno"
)

// Domain describes how one transport type's flow values map to a gradient.
type Domain struct {
	// Family is the gradient family used for this domain.
	Family Family

	// Min and Max bound the expected flow values. Values outside the
	// range are clamped before normalization.
	Min float64
	Max float64
}

// Config holds the per-transport-type domain table.
type Config struct {
	Domains map[string]Domain
}

// DefaultConfig returns the default domain table. Ranges reflect typical
// peak-hour passenger counts per line for each mode.
func DefaultConfig() Config {
	return Config{
		Domains: map[string]Domain{
			"mrt": {Family: FamilyViridis, Min: 0, Max: 100000},
			"lrt": {Family: FamilyPlasma, Min: 0, Max: 20000},
			"bus": {Family: FamilyInferno, Min: 0, Max: 10000},
		},
	}
}

// Scale maps flow values to colors. It is pure and deterministic: identical
// (value, domainKey) inputs always produce identical output.
type Scale struct {
	domains map[string]Domain
}

// New creates a Scale from the given configuration. An empty domain table
// falls back to the defaults.
func New(cfg Config) *Scale {
	if len(cfg.Domains) == 0 {
		cfg.Domains = DefaultConfig().Domains
	}
	return &Scale{domains: cfg.Domains}
}

// ColorFor maps a flow value to a CSS hex color using the domain registered
// for domainKey. NaN values (the "no observation" sentinel) and unknown
// domain keys return NeutralColor.
func (s *Scale) ColorFor(value float64, domainKey string) string {
	if math.IsNaN(value) {
		return NeutralColor
	}

	domain, ok := s.domains[domainKey]
	if !ok {
		return NeutralColor
	}

	return colorAt(domain.Family, normalize(value, domain))
}

// PaletteSteps returns n evenly spaced colors through the domain's gradient
// family, for legend rendering. n <= 0 returns nil.
func (s *Scale) PaletteSteps(domainKey string, n int) []string {
	if n <= 0 {
		return nil
	}

	domain, ok := s.domains[domainKey]
	if !ok {
		return nil
	}

	steps := make([]string, n)
	if n == 1 {
		steps[0] = colorAt(domain.Family, 0)
		return steps
	}
	for i := 0; i < n; i++ {
		steps[i] = colorAt(domain.Family, float64(i)/float64(n-1))
	}
	return steps
}

// Domain returns the domain registered for the given key.
func (s *Scale) Domain(domainKey string) (Domain, bool) {
	d, ok := s.domains[domainKey]
	return d, ok
}

// normalize clamps value into the domain range and scales it to [0, 1].
// A degenerate range (Max <= Min) maps everything to 0, yielding a flat color.
func normalize(value float64, d Domain) float64 {
	if d.Max <= d.Min {
		return 0
	}
	t := (value - d.Min) / (d.Max - d.Min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// colorAt blends the family's gradient stops at position t in [0, 1] using
// HCL interpolation, which keeps perceived lightness monotonic.
func colorAt(family Family, t float64) string {
	stops, ok := familyStops[family]
	if !ok {
		return NeutralColor
	}
	if len(stops) == 1 {
		return stops[0].Hex()
	}

	if t <= 0 {
		return stops[0].Hex()
	}
	if t >= 1 {
		return stops[len(stops)-1].Hex()
	}

	idx := t * float64(len(stops)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(stops) {
		upper = len(stops) - 1
	}
	frac := idx - float64(lower)

	return stops[lower].BlendHcl(stops[upper], frac).Clamped().Hex()
}

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Gradient stop tables (matplotlib keypoints).
var familyStops = map[Family][]colorful.Color{
	FamilyViridis: {
		rgb(68, 1, 84),
		rgb(72, 35, 116),
		rgb(64, 67, 135),
		rgb(52, 94, 141),
		rgb(41, 120, 142),
		rgb(32, 144, 140),
		rgb(34, 167, 132),
		rgb(68, 190, 112),
		rgb(121, 209, 81),
		rgb(189, 222, 38),
		rgb(253, 231, 37),
	},
	FamilyPlasma: {
		rgb(13, 8, 135),
		rgb(75, 3, 161),
		rgb(125, 3, 168),
		rgb(168, 34, 150),
		rgb(203, 70, 121),
		rgb(229, 107, 93),
		rgb(248, 148, 65),
		rgb(253, 195, 40),
		rgb(240, 249, 33),
	},
	FamilyInferno: {
		rgb(0, 0, 4),
		rgb(40, 11, 84),
		rgb(101, 21, 110),
		rgb(159, 42, 99),
		rgb(212, 72, 66),
		rgb(245, 125, 21),
		rgb(250, 193, 39),
		rgb(252, 255, 164),
	},
}
