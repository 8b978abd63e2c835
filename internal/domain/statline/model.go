// Package statline holds per-game performance rows and the batting rate
// derivation. Rows reference internal game/player ids only; resolution
// happens before a line reaches this package.
package statline

type BatterLine struct {
	GameID         int64
	PlayerID       int64
	AtBats         int
	Runs           int
	Hits           int
	Doubles        int
	Triples        int
	HomeRuns       int
	RBI            int
	Walks          int
	HitByPitch     int
	Strikeouts     int
	StolenBases    int
	CaughtStealing int
	Rates          BattingRates
}

type PitcherLine struct {
	GameID          int64
	PlayerID        int64
	InningsPitched  float64
	HitsAllowed     int
	RunsAllowed     int
	EarnedRuns      int
	HomeRunsAllowed int
	WalksAllowed    int
	Strikeouts      int
}

// BattingCounts are the raw inputs to rate derivation.
type BattingCounts struct {
	AtBats     int
	Hits       int
	Walks      int
	HitByPitch int
	SacFlies   int
	TotalBases int
}

type BattingRates struct {
	AVG float64
	OBP float64
	SLG float64
	OPS float64
}
