package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/transitflow/transitflow/internal/flowmap"
	"github.com/transitflow/transitflow/pkg/polyline"
)

// Conventional file names inside a dataset directory.
const (
	routesFile     = "routes.json"
	flowsFile      = "passenger_flow.json"
	populationFile = "population.json"
)

// Dataset is a fully loaded data directory.
type Dataset struct {
	Routes     []RouteDef
	Flows      FlowTable
	Population []SamplePoint
}

// RouteByID returns the route definition for an id.
func (d *Dataset) RouteByID(id string) (RouteDef, bool) {
	for _, r := range d.Routes {
		if r.ID == id {
			return r, true
		}
	}
	return RouteDef{}, false
}

// flowSampleSpacingMeters is the interval between geometry-derived flow
// samples on routes without station data.
const flowSampleSpacingMeters = 500

// StationSamples builds station-level flow samples for a time bucket: every
// station on a route carries that route's flow value. Routes without station
// data (most bus services) contribute points sampled along their geometry
// instead. Entries without a matching route contribute nothing.
func (d *Dataset) StationSamples(bucket string) []SamplePoint {
	entries, ok := d.Flows.Bucket(bucket)
	if !ok {
		return nil
	}

	var samples []SamplePoint
	for _, e := range entries {
		route, ok := d.resolveRoute(e.RouteID)
		if !ok {
			continue
		}

		if len(route.Stations) == 0 {
			geom := route.Info().Geometry
			if polyline.Length(geom) == 0 {
				continue
			}
			for _, p := range polyline.Sample(geom, flowSampleSpacingMeters) {
				samples = append(samples, SamplePoint{
					Lat:   p.Lat,
					Lon:   p.Lon,
					Value: e.Flow,
					Name:  route.Name,
				})
			}
			continue
		}

		for _, s := range route.Stations {
			samples = append(samples, SamplePoint{
				Lat:   s.Position[1],
				Lon:   s.Position[0],
				Value: e.Flow,
				Name:  s.Name,
			})
		}
	}
	return samples
}

// resolveRoute maps a flow-entry key to a route definition: primary id match
// first, then the same normalized-name matching the orchestrator applies
// during snapshot ingestion.
func (d *Dataset) resolveRoute(key string) (RouteDef, bool) {
	if r, ok := d.RouteByID(key); ok {
		return r, true
	}
	norm := flowmap.NormalizeAlias(key)
	if norm == "" {
		return RouteDef{}, false
	}
	for _, r := range d.Routes {
		if flowmap.NormalizeAlias(r.Name) == norm {
			return r, true
		}
	}
	return RouteDef{}, false
}

// Loader decodes tagged dataset documents.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Decode reads one tagged document from r and validates its kind.
func (l *Loader) Decode(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode dataset document: %w", err)
	}
	if !doc.Kind.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}
	return &doc, nil
}

// Routes extracts route definitions from a routes document.
func (l *Loader) Routes(doc *Document) ([]RouteDef, error) {
	var routes []RouteDef
	if err := decodeInto(doc, KindRoutes, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// Flows extracts the passenger-flow table from a flow document.
func (l *Loader) Flows(doc *Document) (FlowTable, error) {
	var table FlowTable
	if err := decodeInto(doc, KindPassengerFlow, &table); err != nil {
		return FlowTable{}, err
	}
	return table, nil
}

// Population extracts population density points from a population document.
func (l *Loader) Population(doc *Document) ([]SamplePoint, error) {
	var points []SamplePoint
	if err := decodeInto(doc, KindPopulation, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// Load reads a whole dataset directory. The routes file is mandatory; flow
// and population files are optional and their absence only narrows what the
// renderer can draw.
func (l *Loader) Load(fsys fs.FS) (*Dataset, error) {
	ds := &Dataset{}

	routes, err := loadAs(l, fsys, routesFile, l.Routes)
	if err != nil {
		if isNotExist(err) {
			return nil, ErrNoRoutes
		}
		return nil, err
	}
	ds.Routes = routes

	flows, err := loadAs(l, fsys, flowsFile, l.Flows)
	switch {
	case err == nil:
		ds.Flows = flows
	case isNotExist(err):
		l.logger.Warn().Str("file", flowsFile).Msg("no passenger flow table in dataset")
	default:
		return nil, err
	}

	population, err := loadAs(l, fsys, populationFile, l.Population)
	switch {
	case err == nil:
		ds.Population = population
	case isNotExist(err):
		l.logger.Warn().Str("file", populationFile).Msg("no population points in dataset")
	default:
		return nil, err
	}

	l.logger.Info().
		Int("routes", len(ds.Routes)).
		Int("flow_buckets", len(ds.Flows.Buckets)).
		Int("population_points", len(ds.Population)).
		Msg("dataset loaded")
	return ds, nil
}

func loadAs[T any](l *Loader, fsys fs.FS, name string, extract func(*Document) (T, error)) (T, error) {
	var zero T
	f, err := fsys.Open(name)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	doc, err := l.Decode(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	out, err := extract(doc)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
