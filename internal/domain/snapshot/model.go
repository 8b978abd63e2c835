// Package snapshot defines the wire shape of one ingestion unit: a JSON
// document produced by the retrieval side with teams, rosters, games and raw
// stat lines keyed by the upstream's external identifiers.
package snapshot

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

type Document struct {
	Teams        []Team                   `json:"teams" validate:"dive"`
	Rosters      map[string][]RosterEntry `json:"rosters"`
	Games        []Game                   `json:"games"`
	BatterStats  []BatterLine             `json:"batter_stats"`
	PitcherStats []PitcherLine            `json:"pitcher_stats"`
}

type Team struct {
	ID           int64  `json:"id" validate:"required,gt=0"`
	Name         string `json:"name" validate:"required"`
	Venue        Venue  `json:"venue"`
	LocationName string `json:"locationName"`
}

type Venue struct {
	Name string `json:"name"`
}

type RosterEntry struct {
	Person   Person   `json:"person"`
	Position Position `json:"position"`
}

type Person struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type Position struct {
	Abbreviation string `json:"abbreviation"`
}

type Game struct {
	GameID        int64  `json:"game_id"`
	GameDate      string `json:"game_date"`
	Location      string `json:"location"`
	HomeTeamID    int64  `json:"home_team_id"`
	AwayTeamID    int64  `json:"away_team_id"`
	HomeTeamScore *int   `json:"home_team_score"`
	AwayTeamScore *int   `json:"away_team_score"`
}

type BatterLine struct {
	GameID         int64 `json:"game_id"`
	PlayerID       int64 `json:"player_id"`
	AtBats         int   `json:"at_bats"`
	Runs           int   `json:"runs"`
	Hits           int   `json:"hits"`
	Doubles        int   `json:"doubles"`
	Triples        int   `json:"triples"`
	HomeRuns       int   `json:"home_runs"`
	RBI            int   `json:"rbi"`
	Walks          int   `json:"walks"`
	HitByPitch     int   `json:"hit_by_pitch"`
	Strikeouts     int   `json:"strikeouts"`
	StolenBases    int   `json:"stolen_bases"`
	CaughtStealing int   `json:"caught_stealing"`
	TotalBases     int   `json:"total_bases"`
	SacFlies       int   `json:"sac_flies"`
}

type PitcherLine struct {
	GameID          int64   `json:"game_id"`
	PlayerID        int64   `json:"player_id"`
	InningsPitched  float64 `json:"innings_pitched"`
	HitsAllowed     int     `json:"hits_allowed"`
	RunsAllowed     int     `json:"runs_allowed"`
	EarnedRuns      int     `json:"earned_runs"`
	HomeRunsAllowed int     `json:"home_runs_allowed"`
	WalksAllowed    int     `json:"walks_allowed"`
	Strikeouts      int     `json:"strikeouts"`
}

var validate = validator.New()

func Decode(data []byte) (Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode snapshot document: %w", err)
	}
	return doc, nil
}

func Encode(doc Document) ([]byte, error) {
	data, err := sonic.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot document: %w", err)
	}
	return data, nil
}

// Validate rejects documents whose team records are unusable as reference
// data. Games and stat lines are intentionally not validated here: reference
// misses at that grain are handled row by row during resolution.
func Validate(doc Document) error {
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("validate snapshot document: %w", err)
	}
	return nil
}
