// Package dataset loads the flat declarative data files the renderer runs
// on: route geometry, time-bucketed passenger-flow tables and population
// density points. Every file carries an explicit kind tag; the loader never
// guesses what a file holds.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/transitflow/transitflow/internal/flowmap"
	"github.com/transitflow/transitflow/pkg/geo"
	"github.com/transitflow/transitflow/pkg/polyline"
)

// Dataset errors.
var (
	ErrUnknownKind  = errors.New("unknown dataset kind")
	ErrKindMismatch = errors.New("dataset kind mismatch")
	ErrNoRoutes     = errors.New("dataset has no routes document")
)

// Kind tags a dataset document.
type Kind string

const (
	KindRoutes        Kind = "routes"
	KindPassengerFlow Kind = "passenger_flow"
	KindPopulation    Kind = "population"
)

func (k Kind) valid() bool {
	switch k {
	case KindRoutes, KindPassengerFlow, KindPopulation:
		return true
	}
	return false
}

// Document is one decoded dataset file: a kind tag plus the raw payload.
type Document struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// StationDef is a station as written in a routes file. Position is in
// [lon, lat] order, matching GeoJSON convention.
type StationDef struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Position [2]float64 `json:"position"`
}

// RouteDef is a transit line as written in a routes file. Geometry may be
// inline [lon, lat] pairs or a Google-encoded polyline; inline wins when
// both are present.
type RouteDef struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Type            flowmap.TransportType `json:"type"`
	Color           string                `json:"color,omitempty"`
	Stations        []StationDef          `json:"stations"`
	Geometry        [][2]float64          `json:"geometry,omitempty"`
	EncodedGeometry string                `json:"encoded_geometry,omitempty"`
}

// Info converts the definition to the renderer's route record, decoding
// geometry and swapping [lon, lat] file order into lat/lon points.
func (r RouteDef) Info() flowmap.RouteInfo {
	var coords []geo.Point
	switch {
	case len(r.Geometry) > 0:
		coords = make([]geo.Point, len(r.Geometry))
		for i, c := range r.Geometry {
			coords[i] = geo.Point{Lon: c[0], Lat: c[1]}
		}
	case r.EncodedGeometry != "":
		coords = polyline.Decode(r.EncodedGeometry)
	}

	stations := make([]flowmap.Station, len(r.Stations))
	for i, s := range r.Stations {
		stations[i] = flowmap.Station{
			ID:       s.ID,
			Name:     s.Name,
			Position: geo.Point{Lon: s.Position[0], Lat: s.Position[1]},
		}
	}

	return flowmap.RouteInfo{
		Name:     r.Name,
		Type:     r.Type,
		Color:    r.Color,
		Stations: stations,
		Geometry: coords,
	}
}

// FlowBucket is one time bucket of the passenger-flow table.
type FlowBucket struct {
	Bucket  string              `json:"bucket"`
	Entries []flowmap.FlowEntry `json:"entries"`
}

// FlowTable is the time-indexed passenger-flow table, in file order.
type FlowTable struct {
	Buckets []FlowBucket `json:"buckets"`
}

// Labels returns the bucket labels in order.
func (t FlowTable) Labels() []string {
	labels := make([]string, len(t.Buckets))
	for i, b := range t.Buckets {
		labels[i] = b.Bucket
	}
	return labels
}

// Bucket returns the entries for a bucket label.
func (t FlowTable) Bucket(label string) ([]flowmap.FlowEntry, bool) {
	for _, b := range t.Buckets {
		if b.Bucket == label {
			return b.Entries, true
		}
	}
	return nil, false
}

// SamplePoint is one weighted geographic point (population density or
// station-level flow).
type SamplePoint struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Value float64 `json:"value"`
	Name  string  `json:"name,omitempty"`
}

// decodeInto unmarshals a document's payload after checking its kind tag.
func decodeInto(doc *Document, want Kind, v any) error {
	if doc.Kind != want {
		return fmt.Errorf("%w: have %q, want %q", ErrKindMismatch, doc.Kind, want)
	}
	return json.Unmarshal(doc.Data, v)
}
