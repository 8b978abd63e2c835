package statsapi

import "github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"

// Teams and rosters arrive in the same shape the snapshot document stores
// them in, so those envelopes decode straight into snapshot types.

type teamsEnvelope struct {
	Teams []snapshot.Team `json:"teams"`
}

type rosterEnvelope struct {
	Roster []snapshot.RosterEntry `json:"roster"`
}

type scheduleEnvelope struct {
	Dates []scheduleDate `json:"dates"`
}

type scheduleDate struct {
	Games []scheduleGame `json:"games"`
}

type scheduleGame struct {
	GamePk   int64  `json:"gamePk"`
	GameDate string `json:"gameDate"`
	Venue    struct {
		Name string `json:"name"`
	} `json:"venue"`
	Teams struct {
		Home scheduleSide `json:"home"`
		Away scheduleSide `json:"away"`
	} `json:"teams"`
}

type scheduleSide struct {
	Team struct {
		ID int64 `json:"id"`
	} `json:"team"`
	Score *int `json:"score"`
}

type boxscoreEnvelope struct {
	Teams struct {
		Home boxscoreTeam `json:"home"`
		Away boxscoreTeam `json:"away"`
	} `json:"teams"`
}

type boxscoreTeam struct {
	Players map[string]boxscorePlayer `json:"players"`
}

// Stat blocks stay as loose maps: the provider returns an empty object for
// players without stats in a role, and its numeric fields mix numbers with
// strings.
type boxscorePlayer struct {
	Person struct {
		ID int64 `json:"id"`
	} `json:"person"`
	Stats struct {
		Batting  map[string]any `json:"batting"`
		Pitching map[string]any `json:"pitching"`
	} `json:"stats"`
}
