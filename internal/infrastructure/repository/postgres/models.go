package postgres

import "time"

type teamInsertModel struct {
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
	Venue      string `db:"venue"`
	City       string `db:"city"`
}

type playerInsertModel struct {
	ExternalID int64  `db:"external_id"`
	Name       string `db:"name"`
	TeamID     int64  `db:"team_id"`
	Position   string `db:"position"`
}

type gameInsertModel struct {
	ExternalID int64     `db:"external_id"`
	GameDate   time.Time `db:"game_date"`
	Venue      string    `db:"venue"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	HomeScore  *int      `db:"home_score"`
	AwayScore  *int      `db:"away_score"`
}

type processedRangeInsertModel struct {
	SourceToken string    `db:"source_token"`
	StartDate   string    `db:"start_date"`
	EndDate     string    `db:"end_date"`
	ProcessedAt time.Time `db:"processed_at"`
}
