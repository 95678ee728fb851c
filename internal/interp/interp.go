// Package interp estimates continuous passenger-flow intensity at arbitrary
// coordinates from sparse station-level samples using inverse distance
// weighting (IDW).
package interp

import (
	"math"

	"github.com/transitflow/transitflow/pkg/geo"
)

// Sample is one station-level observation for the current time bucket.
// Sample sets are rebuilt wholesale per bucket; no identity persists across
// buckets.
type Sample struct {
	Lat   float64
	Lon   float64
	Value float64

	// Name is optional and carried only for diagnostics.
	Name string
}

// Config holds configuration for the IDW estimator.
type Config struct {
	// SearchRadiusMeters bounds which samples contribute to an estimate.
	// Samples beyond this distance are ignored. Default: 5000.
	SearchRadiusMeters float64

	// MinSamples is the minimum number of in-radius samples required to
	// produce an estimate. Default: 2.
	MinSamples int

	// Power is the inverse-distance exponent. Higher values give more
	// weight to closer samples. Default: 2.0.
	Power float64
}

// DefaultConfig returns the default estimator configuration.
func DefaultConfig() Config {
	return Config{
		SearchRadiusMeters: 5000,
		MinSamples:         2,
		Power:              2.0,
	}
}

// Interpolator performs IDW estimation over a sample set.
type Interpolator struct {
	config Config
}

// New creates an Interpolator with the given configuration. Zero-value
// fields fall back to the defaults.
func New(config Config) *Interpolator {
	if config.SearchRadiusMeters <= 0 {
		config.SearchRadiusMeters = DefaultConfig().SearchRadiusMeters
	}
	if config.MinSamples <= 0 {
		config.MinSamples = DefaultConfig().MinSamples
	}
	if config.Power <= 0 {
		config.Power = DefaultConfig().Power
	}
	return &Interpolator{config: config}
}

// Estimate returns the IDW-weighted mean of the samples within the search
// radius of the query point. The second return value is false when there is
// no estimate: fewer than MinSamples in radius, or a zero weight denominator.
// Callers must treat a false result as "no data here", never as zero.
//
// A sample coincident with the query point short-circuits to that sample's
// exact value, avoiding the 1/d^p singularity.
func (i *Interpolator) Estimate(lat, lon float64, samples []Sample) (float64, bool) {
	var (
		weightedSum float64
		totalWeight float64
		inRadius    int
	)

	for _, s := range samples {
		dist := geo.DistanceMeters(lat, lon, s.Lat, s.Lon)
		if dist > i.config.SearchRadiusMeters {
			continue
		}
		if dist == 0 {
			return s.Value, true
		}
		inRadius++

		weight := 1.0 / pow(dist, i.config.Power)
		weightedSum += weight * s.Value
		totalWeight += weight
	}

	if inRadius < i.config.MinSamples || totalWeight == 0 {
		return 0, false
	}

	return weightedSum / totalWeight, true
}

// pow computes d^p, special-casing the common integer exponents so the hot
// per-sample path avoids math.Pow.
func pow(d, p float64) float64 {
	switch p {
	case 1:
		return d
	case 2:
		return d * d
	case 3:
		return d * d * d
	default:
		return math.Pow(d, p)
	}
}
