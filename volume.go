package avepace

import "math"

// PercentToGain converts a volume percentage into the linear gain used by
// audio players. Values are clamped to [0, 100]; NaN is treated as 0.
func PercentToGain(percent float64) float64 {
	return ClampPercent(percent) / 100.0
}

// ClampPercent clamps the given volume percentage to [0, 100].
func ClampPercent(percent float64) float64 {
	if math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	return min(percent, 100)
}
