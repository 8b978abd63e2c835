package statline

import "math"

// DeriveBattingRates computes AVG, OBP, SLG and OPS from raw counts.
// Zero denominators yield 0.0 rather than an error: a player with no at-bats
// has a defined, zero, average. All values are rounded to 3 decimal places
// half away from zero, so exactly .0005 rounds up to .001.
func DeriveBattingRates(c BattingCounts) BattingRates {
	var rates BattingRates

	if c.AtBats > 0 {
		rates.AVG = round3(float64(c.Hits) / float64(c.AtBats))
		rates.SLG = round3(float64(c.TotalBases) / float64(c.AtBats))
	}

	obpDenominator := c.AtBats + c.Walks + c.HitByPitch + c.SacFlies
	if obpDenominator > 0 {
		rates.OBP = round3(float64(c.Hits+c.Walks+c.HitByPitch) / float64(obpDenominator))
	}

	rates.OPS = round3(rates.OBP + rates.SLG)

	return rates
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
