// Package convert translates a logged commute distance into estimated grams
// of CO2 through a fixed per-mode multiplier table.
package convert

// DefaultMultiplier applies to any unrecognized commute mode.
const DefaultMultiplier int64 = 440

var multipliers = map[string]int64{
	"Walk":  20,
	"Bike":  9,
	"Train": 177,
	"Bus":   299,
}

// Multiplier returns the grams-per-distance-unit factor for mode. Matching is
// exact and case-sensitive; unknown modes fall back to DefaultMultiplier.
func Multiplier(mode string) int64 {
	if m, ok := multipliers[mode]; ok {
		return m
	}
	return DefaultMultiplier
}

// Amount converts a distance into estimated grams of CO2.
func Amount(distance int64, mode string) int64 {
	return distance * Multiplier(mode)
}
