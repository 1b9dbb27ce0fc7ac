package mapper

import "math"

// MetersToCM converts a height in meters to whole centimeters by rounding
// value*100. Monotonic and injective at cm granularity for
// 1.50 <= m <= 2.30.
func MetersToCM(meters float64) int {
	return int(math.Round(meters * 100))
}
