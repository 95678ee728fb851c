package colorscale

// Tier classifies a route's utilization level.
type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierModerate Tier = "moderate"
	TierNormal   Tier = "normal"
)

// UtilizationTier maps observed utilization (flow / capacity) to a tier.
// Boundaries are inclusive at the lower end of each tier.
func UtilizationTier(utilization float64) Tier {
	switch {
	case utilization >= 1.0:
		return TierCritical
	case utilization >= 0.8:
		return TierHigh
	case utilization >= 0.6:
		return TierModerate
	default:
		return TierNormal
	}
}

// Color returns the display color for a tier.
func (t Tier) Color() string {
	switch t {
	case TierCritical:
		return "#d32f2f"
	case TierHigh:
		return "#f57c00"
	case TierModerate:
		return "#fbc02d"
	default:
		return "#388e3c"
	}
}

// UtilizationTierColor maps utilization straight to a tier color.
func UtilizationTierColor(utilization float64) string {
	return UtilizationTier(utilization).Color()
}

// TypeDefaultColor returns the fallback color for a transport type, used when
// a route carries neither flow data nor a declared static color.
func TypeDefaultColor(transportType string) string {
	switch transportType {
	case "mrt":
		return "#d32f2f"
	case "lrt":
		return "#7cb342"
	case "bus":
		return "#1e88e5"
	default:
		return NeutralColor
	}
}
