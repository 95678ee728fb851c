package geo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitflow/transitflow/pkg/geo"
)

func TestDistanceMeters_KnownDistances(t *testing.T) {
	tests := []struct {
		name       string
		lat1, lon1 float64
		lat2, lon2 float64
		expected   float64 // meters
		tolerance  float64
	}{
		{
			name: "same point",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3521, lon2: 103.8198,
			expected:  0,
			tolerance: 0.001,
		},
		{
			name: "City Hall to Raffles Place",
			lat1: 1.2931, lon1: 103.8520,
			lat2: 1.2840, lon2: 103.8515,
			expected:  1013, // ~1km
			tolerance: 50,
		},
		{
			name: "Jurong East to Changi",
			lat1: 1.3331, lon1: 103.7422,
			lat2: 1.3644, lon2: 103.9915,
			expected:  27900, // ~28km
			tolerance: 500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := geo.DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expected, got, tt.tolerance)
		})
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{1.30, 103.85, 1.31, 103.86},
		{52.370216, 4.895168, 51.9225, 4.47917},
		{-33.8688, 151.2093, 35.6762, 139.6503},
		{0, 0, 0, 180},
		{89.9, 10, -89.9, -170},
	}

	for _, p := range pairs {
		ab := geo.DistanceMeters(p[0], p[1], p[2], p[3])
		ba := geo.DistanceMeters(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-6, "distance must be symmetric for %v", p)
	}
}

func TestDistanceMeters_NaNPropagates(t *testing.T) {
	got := geo.DistanceMeters(math.NaN(), 103.85, 1.31, 103.86)
	assert.True(t, math.IsNaN(got))
}

func TestSplitOnJump_NoJump(t *testing.T) {
	coords := []geo.Point{
		{Lat: 1.30, Lon: 103.85},
		{Lat: 1.31, Lon: 103.86},
		{Lat: 1.32, Lon: 103.87},
	}

	segments := geo.SplitOnJump(coords, geo.DefaultMaxJumpMeters)
	require.Len(t, segments, 1)
	assert.Equal(t, coords, segments[0])
}

func TestSplitOnJump_SplitsAtGap(t *testing.T) {
	// Geometry in [lat, lon] order with a ~100km gap between index 1 and 2.
	coords := []geo.Point{
		{Lat: 1.3, Lon: 103.7},
		{Lat: 1.31, Lon: 103.71},
		{Lat: 1.9, Lon: 104.5},
		{Lat: 1.91, Lon: 104.51},
	}

	segments := geo.SplitOnJump(coords, 3000)
	require.Len(t, segments, 2)
	assert.Equal(t, coords[:2], segments[0])
	assert.Equal(t, coords[2:], segments[1])
}

func TestSplitOnJump_PreservesPoints(t *testing.T) {
	tests := []struct {
		name   string
		coords []geo.Point
		maxM   float64
	}{
		{
			name: "multiple jumps",
			coords: []geo.Point{
				{Lat: 1.3, Lon: 103.7},
				{Lat: 2.3, Lon: 104.7},
				{Lat: 2.31, Lon: 104.71},
				{Lat: 3.5, Lon: 105.9},
				{Lat: 3.51, Lon: 105.91},
			},
			maxM: 3000,
		},
		{
			name: "every point jumps",
			coords: []geo.Point{
				{Lat: 0, Lon: 0},
				{Lat: 10, Lon: 10},
				{Lat: 20, Lon: 20},
			},
			maxM: 1000,
		},
		{
			name:   "single point",
			coords: []geo.Point{{Lat: 1.3, Lon: 103.8}},
			maxM:   3000,
		},
		{
			name:   "empty",
			coords: nil,
			maxM:   3000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := geo.SplitOnJump(tt.coords, tt.maxM)
			require.NotEmpty(t, segments)

			var rejoined []geo.Point
			for _, seg := range segments {
				rejoined = append(rejoined, seg...)
			}
			assert.Equal(t, tt.coords, rejoined, "concatenated segments must reproduce input")
		})
	}
}

func TestSplitOnJump_ZeroOrOnePoints(t *testing.T) {
	assert.Equal(t, [][]geo.Point{nil}, geo.SplitOnJump(nil, 3000))

	one := []geo.Point{{Lat: 1.3, Lon: 103.8}}
	assert.Equal(t, [][]geo.Point{one}, geo.SplitOnJump(one, 3000))
}

func TestBoundsOf_Center(t *testing.T) {
	coords := []geo.Point{
		{Lat: 1.30, Lon: 103.80},
		{Lat: 1.40, Lon: 103.90},
		{Lat: 1.35, Lon: 103.85},
	}

	b, ok := geo.BoundsOf(coords)
	require.True(t, ok)
	assert.Equal(t, 1.30, b.MinLat)
	assert.Equal(t, 1.40, b.MaxLat)
	assert.Equal(t, 103.80, b.MinLon)
	assert.Equal(t, 103.90, b.MaxLon)

	c := b.Center()
	assert.InDelta(t, 1.35, c.Lat, 1e-9)
	assert.InDelta(t, 103.85, c.Lon, 1e-9)
}

func TestBoundsOf_Empty(t *testing.T) {
	_, ok := geo.BoundsOf(nil)
	assert.False(t, ok)
}
