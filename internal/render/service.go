package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/transitflow/transitflow/internal/colorscale"
	"github.com/transitflow/transitflow/internal/dataset"
	"github.com/transitflow/transitflow/internal/flowmap"
	"github.com/transitflow/transitflow/internal/interp"
	"github.com/transitflow/transitflow/internal/prefs"
	"github.com/transitflow/transitflow/internal/raster"
	"github.com/transitflow/transitflow/internal/telemetry"
	"github.com/transitflow/transitflow/pkg/geo"
)

// Rendering errors.
var (
	ErrUnknownBucket = errors.New("unknown time bucket")
	ErrEmptyDataset  = errors.New("dataset has no route geometry")
)

// Config holds the render service's viewport and layer tuning.
type Config struct {
	Width       int
	Height      int
	PixelRatio  float64
	PadFraction float64
	Heatmap     raster.Config
	Interp      interp.Config
	Logger      zerolog.Logger
}

// DefaultConfig returns the default render configuration.
func DefaultConfig() Config {
	return Config{
		Width:       1024,
		Height:      768,
		PixelRatio:  1,
		PadFraction: 0.05,
		Heatmap:     raster.DefaultConfig(),
		Interp:      interp.DefaultConfig(),
	}
}

// Service renders the flow map's layers for a loaded dataset: styled route
// lines per time bucket and weighted-point heatmaps, both projected onto the
// same viewport. The orchestrator and rasterizer are single-threaded;
// concurrent callers are serialized at this boundary.
type Service struct {
	mu sync.Mutex

	ds     *dataset.Dataset
	prefs  *prefs.Service
	logger zerolog.Logger
	tracer trace.Tracer

	proj      *BBoxProjector
	lines     *LineRenderer
	orch      *flowmap.Orchestrator
	surface   *flowmap.Surface
	scale     *colorscale.Scale
	styleProj *flowmap.StyleProjector
	heat      *raster.Rasterizer

	// One coalescer per layer: interaction bursts (select, hover, snapshot
	// ingestion) collapse into a single redraw on the next frame request.
	lineFrames *raster.Coalescer
	heatFrames *raster.Coalescer

	metrics *renderMetrics
}

// NewService builds the full layer stack for a dataset. Zero-value config
// fields fall back to the defaults.
func NewService(ds *dataset.Dataset, prefService *prefs.Service, cfg Config) (*Service, error) {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.PixelRatio <= 0 {
		cfg.PixelRatio = def.PixelRatio
	}
	if cfg.PadFraction <= 0 {
		cfg.PadFraction = def.PadFraction
	}

	coordLists := make([][]geo.Point, 0, len(ds.Routes))
	for _, r := range ds.Routes {
		coordLists = append(coordLists, r.Info().Geometry)
	}
	bounds, ok := FitBounds(coordLists, cfg.PadFraction)
	if !ok {
		return nil, ErrEmptyDataset
	}

	proj := NewBBoxProjector(bounds, cfg.Width, cfg.Height, cfg.PixelRatio)
	lineFrames := &raster.Coalescer{}
	heatFrames := &raster.Coalescer{}
	lines := NewLineRenderer(proj, lineFrames)
	surface := flowmap.NewSurface(interp.New(cfg.Interp))
	scale := colorscale.New(colorscale.DefaultConfig())

	styleProj := flowmap.NewStyleProjector(scale, surface)
	orch := flowmap.NewOrchestrator(flowmap.OrchestratorConfig{
		Renderer:  lines,
		Projector: styleProj,
		Segmenter: flowmap.NewSegmenter(0),
		Logger:    cfg.Logger,
	})
	for _, r := range ds.Routes {
		if err := orch.AddRoute(r.ID, r.Info()); err != nil {
			return nil, fmt.Errorf("register route %s: %w", r.ID, err)
		}
	}

	metrics, err := newRenderMetrics()
	if err != nil {
		return nil, fmt.Errorf("create render metrics: %w", err)
	}

	return &Service{
		ds:         ds,
		prefs:      prefService,
		logger:     cfg.Logger,
		tracer:     telemetry.Tracer("render"),
		proj:       proj,
		lines:      lines,
		orch:       orch,
		surface:    surface,
		scale:      scale,
		styleProj:  styleProj,
		heat:       raster.NewRasterizer(proj, heatFrames, cfg.Heatmap),
		lineFrames: lineFrames,
		heatFrames: heatFrames,
		metrics:    metrics,
	}, nil
}

// StyleOf projects the current display style for a route state.
func (s *Service) StyleOf(rs *flowmap.RouteState) flowmap.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.styleProj.Project(rs)
}

// Buckets returns the dataset's time bucket labels in order.
func (s *Service) Buckets() []string {
	return s.ds.Flows.Labels()
}

// Routes returns the current route states in registration order.
func (s *Service) Routes() []*flowmap.RouteState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Routes()
}

// Select marks one route selected, dimming all others.
func (s *Service) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orch.Select(id)
}

// ClearSelection restores default visibility.
func (s *Service) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orch.ClearSelection()
}

// Hover marks a route hovered.
func (s *Service) Hover(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orch.Hover(id)
}

// Unhover clears a route's hovered flag.
func (s *Service) Unhover(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orch.Unhover(id)
}

// RenderRoutes ingests a time bucket's flow snapshot and renders the styled
// route layer. Redraws coalesce: a snapshot that changes no styles reuses the
// previous frame.
func (s *Service) RenderRoutes(ctx context.Context, bucket string) (frame *image.NRGBA, err error) {
	ctx, span := s.tracer.Start(ctx, "render.routes",
		trace.WithAttributes(attribute.String("bucket", bucket)))
	defer span.End()
	done := s.metrics.observe(ctx, "routes", time.Now())
	defer func() { done(err) }()

	entries, ok := s.ds.Flows.Bucket(bucket)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs == nil || s.prefs.ShowFlowMask(ctx) {
		s.surface.SetSamples(toInterpSamples(s.ds.StationSamples(bucket)))
	} else {
		s.surface.SetSamples(nil)
	}

	matched := s.orch.IngestFlowSnapshot(entries)
	span.SetAttributes(attribute.Int("entries.matched", matched))
	s.logger.Debug().
		Str("bucket", bucket).
		Int("entries", len(entries)).
		Int("matched", matched).
		Msg("flow snapshot ingested")

	s.lineFrames.Flush()
	return s.lines.Frame(), nil
}

// RenderHeatmap renders the weighted-point heatmap layer. An empty bucket
// renders the population density baseline; a bucket label renders that
// bucket's station-level flow intensity.
func (s *Service) RenderHeatmap(ctx context.Context, bucket string) (frame *image.NRGBA, err error) {
	ctx, span := s.tracer.Start(ctx, "render.heatmap",
		trace.WithAttributes(attribute.String("bucket", bucket)))
	defer span.End()
	done := s.metrics.observe(ctx, "heatmap", time.Now())
	defer func() { done(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prefs != nil {
		s.heat.SetMaxOpacity(s.prefs.HeatmapOpacity(ctx))
		if !s.prefs.ShowHeatmap(ctx) {
			s.heat.SetPoints(nil)
			s.heatFrames.Flush()
			return s.heat.Frame(), nil
		}
	}

	var points []raster.Point
	if bucket == "" {
		points = toRasterPoints(s.ds.Population)
	} else {
		if _, ok := s.ds.Flows.Bucket(bucket); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
		}
		points = toRasterPoints(s.ds.StationSamples(bucket))
	}

	span.SetAttributes(attribute.Int("points", len(points)))
	s.heat.SetPoints(points)
	s.heatFrames.Flush()
	return s.heat.Frame(), nil
}

// LegendEntry is one labeled legend color.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend describes the color coding of the rendered layers.
type Legend struct {
	Domains      map[string][]string `json:"domains"`
	Tiers        []LegendEntry       `json:"tiers"`
	TypeDefaults map[string]string   `json:"typeDefaults"`
}

// Legend builds the legend for the current color configuration.
func (s *Service) Legend() Legend {
	const steps = 7

	domains := make(map[string][]string)
	for _, key := range []string{"mrt", "lrt", "bus"} {
		domains[key] = s.scale.PaletteSteps(key, steps)
	}

	tiers := []LegendEntry{
		{Label: string(colorscale.TierCritical), Color: colorscale.TierCritical.Color()},
		{Label: string(colorscale.TierHigh), Color: colorscale.TierHigh.Color()},
		{Label: string(colorscale.TierModerate), Color: colorscale.TierModerate.Color()},
		{Label: string(colorscale.TierNormal), Color: colorscale.TierNormal.Color()},
	}

	typeDefaults := map[string]string{
		"mrt": colorscale.TypeDefaultColor("mrt"),
		"lrt": colorscale.TypeDefaultColor("lrt"),
		"bus": colorscale.TypeDefaultColor("bus"),
	}

	return Legend{Domains: domains, Tiers: tiers, TypeDefaults: typeDefaults}
}

func toInterpSamples(points []dataset.SamplePoint) []interp.Sample {
	samples := make([]interp.Sample, len(points))
	for i, p := range points {
		samples[i] = interp.Sample{Lat: p.Lat, Lon: p.Lon, Value: p.Value, Name: p.Name}
	}
	return samples
}

func toRasterPoints(points []dataset.SamplePoint) []raster.Point {
	out := make([]raster.Point, len(points))
	for i, p := range points {
		out[i] = raster.Point{Lat: p.Lat, Lon: p.Lon, Value: p.Value}
	}
	return out
}
