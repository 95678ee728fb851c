package polyline

import (
	"math"
	"testing"

	"github.com/transitflow/transitflow/pkg/geo"
)

func TestDecode_ValidPolyline(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		expected []geo.Point
	}{
		{
			name:    "single point",
			encoded: "_p~iF~ps|U",
			expected: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
			},
		},
		{
			name:    "two points",
			encoded: "_p~iF~ps|U_ulLnnqC",
			expected: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
			},
		},
		{
			name:    "three points - Google example",
			encoded: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
			expected: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Decode(tt.encoded)
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d coordinates, got %d", len(tt.expected), len(result))
			}

			for i, coord := range result {
				if !coordsEqual(coord, tt.expected[i], 0.001) {
					t.Errorf("coordinate %d: expected %+v, got %+v", i, tt.expected[i], coord)
				}
			}
		})
	}
}

func TestDecode_EmptyString(t *testing.T) {
	result := Decode("")
	if result != nil {
		t.Errorf("expected nil for empty string, got %v", result)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		coords []geo.Point
	}{
		{
			name: "single point",
			coords: []geo.Point{
				{Lat: 1.3521, Lon: 103.8198},
			},
		},
		{
			name: "north-south line segment",
			coords: []geo.Point{
				{Lat: 1.4382, Lon: 103.7861},
				{Lat: 1.4296, Lon: 103.8350},
				{Lat: 1.3862, Lon: 103.8454},
			},
		},
		{
			name: "crossing the antimeridian longitudes",
			coords: []geo.Point{
				{Lat: 38.5, Lon: -120.2},
				{Lat: 40.7, Lon: -120.95},
				{Lat: 43.252, Lon: -126.453},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.coords)
			if encoded == "" {
				t.Fatal("expected non-empty encoded string")
			}

			decoded := Decode(encoded)
			if len(decoded) != len(tt.coords) {
				t.Fatalf("round-trip: expected %d coordinates, got %d", len(tt.coords), len(decoded))
			}

			for i, coord := range decoded {
				// Precision of 5 decimal places = 0.00001
				if !coordsEqual(coord, tt.coords[i], 0.00001) {
					t.Errorf("round-trip coordinate %d: expected %+v, got %+v", i, tt.coords[i], coord)
				}
			}
		})
	}
}

func TestEncode_EmptyCoordinates(t *testing.T) {
	if result := Encode(nil); result != "" {
		t.Errorf("expected empty string for nil coordinates, got %q", result)
	}
	if result := Encode([]geo.Point{}); result != "" {
		t.Errorf("expected empty string for empty coordinates, got %q", result)
	}
}

func TestLength_ValidRoute(t *testing.T) {
	tests := []struct {
		name           string
		coords         []geo.Point
		expectedMeters float64
		tolerance      float64
	}{
		{
			name:           "empty",
			coords:         nil,
			expectedMeters: 0,
			tolerance:      0,
		},
		{
			name:           "single point",
			coords:         []geo.Point{{Lat: 1.3, Lon: 103.8}},
			expectedMeters: 0,
			tolerance:      0,
		},
		{
			name: "Jurong East to Tampines - roughly 28km",
			coords: []geo.Point{
				{Lat: 1.3331, Lon: 103.7422},
				{Lat: 1.3536, Lon: 103.9451},
			},
			expectedMeters: 22700,
			tolerance:      1000,
		},
		{
			name: "1 degree latitude at equator - roughly 111km",
			coords: []geo.Point{
				{Lat: 0.0, Lon: 0.0},
				{Lat: 1.0, Lon: 0.0},
			},
			expectedMeters: 111000,
			tolerance:      1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Length(tt.coords)
			diff := math.Abs(result - tt.expectedMeters)
			if diff > tt.tolerance {
				t.Errorf("expected ~%.0fm (±%.0f), got %.0fm", tt.expectedMeters, tt.tolerance, result)
			}
		})
	}
}

func TestSample_ValidRoute(t *testing.T) {
	coords := []geo.Point{
		{Lat: 1.30, Lon: 103.85},
		{Lat: 1.31, Lon: 103.85}, // ~1.1km north
		{Lat: 1.32, Lon: 103.85}, // ~1.1km more north
		{Lat: 1.33, Lon: 103.85}, // ~1.1km more north
	}

	t.Run("sample every 500m", func(t *testing.T) {
		sampled := Sample(coords, 500)
		// Total distance is ~3.3km, so we expect ~7 samples plus endpoints
		if len(sampled) < 5 {
			t.Errorf("expected at least 5 samples, got %d", len(sampled))
		}
		if !coordsEqual(sampled[0], coords[0], 0.0001) {
			t.Errorf("first sample should be first coordinate")
		}
		if !coordsEqual(sampled[len(sampled)-1], coords[len(coords)-1], 0.0001) {
			t.Errorf("last sample should be last coordinate")
		}
	})

	t.Run("sample every 10km exceeds route length", func(t *testing.T) {
		sampled := Sample(coords, 10000)
		if len(sampled) != 2 {
			t.Errorf("expected 2 samples (start and end), got %d", len(sampled))
		}
	})

	t.Run("empty coordinates", func(t *testing.T) {
		if sampled := Sample(nil, 500); sampled != nil {
			t.Errorf("expected nil for empty coordinates")
		}
	})

	t.Run("zero interval returns all", func(t *testing.T) {
		if sampled := Sample(coords, 0); len(sampled) != len(coords) {
			t.Errorf("expected all coordinates for zero interval")
		}
	})
}

// coordsEqual checks if two coordinates are equal within a tolerance.
func coordsEqual(a, b geo.Point, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}

func BenchmarkDecode(b *testing.B) {
	encoded := "_p~iF~ps|U_ulLnnqC_mqNvxq`@"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Decode(encoded)
	}
}
