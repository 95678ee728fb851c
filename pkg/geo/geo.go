// Package geo provides great-circle distance and coordinate-sequence utilities
// used by the interpolation and rendering pipelines.
package geo

import (
	"math"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// DefaultMaxJumpMeters is the jump threshold used to detect data-entry
// artifacts that splice physically disjoint branches into one coordinate
// list. It exceeds normal inter-station spacing by a wide margin.
const DefaultMaxJumpMeters = 3000

const earthRadiusMeters = 6371000

// DistanceMeters calculates the great-circle distance between two points in
// meters using the haversine formula. NaN inputs propagate NaN.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(la1)*math.Cos(la2)*sinDLon*sinDLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Distance calculates the great-circle distance between two points in meters.
func Distance(a, b Point) float64 {
	return DistanceMeters(a.Lat, a.Lon, b.Lat, b.Lon)
}

// SplitOnJump walks the coordinate sequence once and starts a new segment
// whenever the distance between consecutive points exceeds maxJumpMeters.
// All points are preserved in their original order; concatenating the
// returned segments reproduces the input exactly. Sequences of zero or one
// point are returned unchanged as a single segment.
func SplitOnJump(coords []Point, maxJumpMeters float64) [][]Point {
	if len(coords) <= 1 {
		return [][]Point{coords}
	}

	segments := make([][]Point, 0, 1)
	start := 0

	for i := 1; i < len(coords); i++ {
		if Distance(coords[i-1], coords[i]) > maxJumpMeters {
			segments = append(segments, coords[start:i])
			start = i
		}
	}
	segments = append(segments, coords[start:])

	return segments
}

// Bounds is an axis-aligned bounding box over geographic coordinates.
type Bounds struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// BoundsOf computes the bounding box of a coordinate sequence.
// An empty sequence yields a zero Bounds and ok == false.
func BoundsOf(coords []Point) (Bounds, bool) {
	if len(coords) == 0 {
		return Bounds{}, false
	}

	b := Bounds{
		MinLat: coords[0].Lat, MaxLat: coords[0].Lat,
		MinLon: coords[0].Lon, MaxLon: coords[0].Lon,
	}
	for _, p := range coords[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}
	return b, true
}

// Center returns the center of the bounding box. This is the bounding-box
// center, not the true geometric centroid.
func (b Bounds) Center() Point {
	return Point{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lon: (b.MinLon + b.MaxLon) / 2,
	}
}

// Pad expands the bounds by the given fraction of each span.
func (b Bounds) Pad(fraction float64) Bounds {
	padLat := (b.MaxLat - b.MinLat) * fraction
	padLon := (b.MaxLon - b.MinLon) * fraction
	return Bounds{
		MinLat: b.MinLat - padLat, MaxLat: b.MaxLat + padLat,
		MinLon: b.MinLon - padLon, MaxLon: b.MaxLon + padLon,
	}
}

// Extend grows the bounds to include another bounds.
func (b Bounds) Extend(other Bounds) Bounds {
	out := b
	if other.MinLat < out.MinLat {
		out.MinLat = other.MinLat
	}
	if other.MaxLat > out.MaxLat {
		out.MaxLat = other.MaxLat
	}
	if other.MinLon < out.MinLon {
		out.MinLon = other.MinLon
	}
	if other.MaxLon > out.MaxLon {
		out.MaxLon = other.MaxLon
	}
	return out
}
