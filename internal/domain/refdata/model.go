// Package refdata holds the append-only reference entities. Rows are keyed
// by an internally assigned surrogate id; the upstream's external id carries
// a uniqueness constraint and is the resolution key.
package refdata

import "time"

type Team struct {
	ExternalID int64
	Name       string
	Venue      string
	City       string
}

type Player struct {
	ExternalID int64
	Name       string
	TeamID     int64
	Position   string
}

type Game struct {
	ExternalID int64
	Date       time.Time
	Venue      string
	HomeTeamID int64
	AwayTeamID int64
	HomeScore  *int
	AwayScore  *int
}
