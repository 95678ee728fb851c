package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitflow/transitflow/internal/interp"
	"github.com/transitflow/transitflow/pkg/geo"
)

func downtownSamples() []interp.Sample {
	return []interp.Sample{
		{Lat: 1.3008, Lon: 103.8526, Value: 4200, Name: "City Hall"},
		{Lat: 1.2840, Lon: 103.8515, Value: 6100, Name: "Raffles Place"},
		{Lat: 1.2931, Lon: 103.8558, Value: 2800, Name: "Esplanade"},
		{Lat: 1.2764, Lon: 103.8460, Value: 5500, Name: "Tanjong Pagar"},
	}
}

func TestInterpolator_Estimate_BasicIDW(t *testing.T) {
	est := interp.New(interp.DefaultConfig())

	// Query point surrounded by the downtown samples.
	value, ok := est.Estimate(1.2900, 103.8510, downtownSamples())
	require.True(t, ok)
	assert.Greater(t, value, 2800.0)
	assert.Less(t, value, 6100.0)
}

func TestInterpolator_Estimate_WithinSampleBounds(t *testing.T) {
	est := interp.New(interp.Config{SearchRadiusMeters: 50000})
	samples := downtownSamples()

	queries := []geo.Point{
		{Lat: 1.29, Lon: 103.85},
		{Lat: 1.30, Lon: 103.84},
		{Lat: 1.28, Lon: 103.86},
		{Lat: 1.2764, Lon: 103.8461},
	}

	for _, q := range queries {
		value, ok := est.Estimate(q.Lat, q.Lon, samples)
		require.True(t, ok, "query %+v", q)
		// Weighted mean cannot exceed the extremes of its inputs.
		assert.GreaterOrEqual(t, value, 2800.0)
		assert.LessOrEqual(t, value, 6100.0)
	}
}

func TestInterpolator_Estimate_CoincidentSample(t *testing.T) {
	est := interp.New(interp.DefaultConfig())
	samples := downtownSamples()

	value, ok := est.Estimate(1.3008, 103.8526, samples)
	require.True(t, ok)
	assert.Equal(t, 4200.0, value, "coincident query returns the sample's exact value")
}

func TestInterpolator_Estimate_CloserSampleDominates(t *testing.T) {
	est := interp.New(interp.Config{SearchRadiusMeters: 50000})

	samples := []interp.Sample{
		{Lat: 1.3000, Lon: 103.8500, Value: 100},
		{Lat: 1.4000, Lon: 103.8500, Value: 10000}, // ~11km away
	}

	// Query very close to the low-value sample.
	value, ok := est.Estimate(1.3001, 103.8500, samples)
	require.True(t, ok)
	assert.Less(t, value, 200.0, "closer sample should dominate: got %f", value)
}

func TestInterpolator_Estimate_MidpointScenario(t *testing.T) {
	samples := []interp.Sample{
		{Lat: 1.30, Lon: 103.85, Value: 100},
		{Lat: 1.31, Lon: 103.86, Value: 200},
	}
	est := interp.New(interp.Config{SearchRadiusMeters: 5000, Power: 2})

	value, ok := est.Estimate(1.305, 103.855, samples)
	require.True(t, ok)
	assert.Greater(t, value, 100.0)
	assert.Less(t, value, 200.0)
	// The midpoint is equidistant to within floating-point noise.
	assert.InDelta(t, 150.0, value, 5.0)
}

func TestInterpolator_Estimate_TooFewSamples(t *testing.T) {
	est := interp.New(interp.DefaultConfig())

	// Only one sample in radius; default MinSamples is 2.
	samples := []interp.Sample{
		{Lat: 1.30, Lon: 103.85, Value: 4200},
		{Lat: 1.90, Lon: 104.50, Value: 9000}, // far outside the 5km radius
	}

	_, ok := est.Estimate(1.301, 103.851, samples)
	assert.False(t, ok, "insufficient in-radius samples must yield no estimate")
}

func TestInterpolator_Estimate_NoSamples(t *testing.T) {
	est := interp.New(interp.DefaultConfig())

	_, ok := est.Estimate(1.30, 103.85, nil)
	assert.False(t, ok)

	_, ok = est.Estimate(1.30, 103.85, []interp.Sample{})
	assert.False(t, ok)
}

func TestInterpolator_Estimate_MinSamplesOne(t *testing.T) {
	est := interp.New(interp.Config{SearchRadiusMeters: 5000, MinSamples: 1})

	samples := []interp.Sample{{Lat: 1.30, Lon: 103.85, Value: 4200}}
	value, ok := est.Estimate(1.301, 103.851, samples)
	require.True(t, ok)
	assert.InDelta(t, 4200.0, value, 1e-9, "single in-radius sample is the estimate itself")
}

func TestInterpolator_Estimate_HigherPowerLocalizes(t *testing.T) {
	samples := []interp.Sample{
		{Lat: 1.3000, Lon: 103.8500, Value: 100},
		{Lat: 1.3200, Lon: 103.8500, Value: 1000},
	}

	// Query closer to the first sample.
	lat, lon := 1.3050, 103.8500

	low := interp.New(interp.Config{SearchRadiusMeters: 50000, Power: 1})
	high := interp.New(interp.Config{SearchRadiusMeters: 50000, Power: 4})

	lowV, ok := low.Estimate(lat, lon, samples)
	require.True(t, ok)
	highV, ok := high.Estimate(lat, lon, samples)
	require.True(t, ok)

	assert.Less(t, highV, lowV, "higher power should pull the estimate toward the nearer sample")
}
