package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/refdata"
	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
)

// unitMapping is the per-unit external-id to internal-id translation built
// during reference resolution. Discarded once the unit completes.
type unitMapping struct {
	teamsByExternalID map[int64]int64
	teamsByName       map[string]int64
	players           map[int64]int64
	games             map[int64]int64
	skippedGames      int
}

func newUnitMapping() unitMapping {
	return unitMapping{
		teamsByExternalID: make(map[int64]int64),
		teamsByName:       make(map[string]int64),
		players:           make(map[int64]int64),
		games:             make(map[int64]int64),
	}
}

// resolveReferences upserts teams, roster players and games from one
// snapshot inside the supplied transaction. Games referencing a team absent
// from the current mapping are skipped with a warning; any storage failure
// aborts the whole unit.
func (s *PipelineService) resolveReferences(ctx context.Context, tx refdata.Tx, doc snapshot.Document) (unitMapping, error) {
	mapping := newUnitMapping()

	for _, item := range doc.Teams {
		internalID, err := tx.ResolveTeam(ctx, refdata.Team{
			ExternalID: item.ID,
			Name:       item.Name,
			Venue:      item.Venue.Name,
			City:       item.LocationName,
		})
		if err != nil {
			return mapping, fmt.Errorf("resolve team external_id=%d: %w", item.ID, err)
		}
		mapping.teamsByExternalID[item.ID] = internalID
		mapping.teamsByName[item.Name] = internalID
	}

	for teamKey, roster := range doc.Rosters {
		teamID, ok := mapping.lookupTeamKey(teamKey)
		if !ok {
			s.logger.WarnContext(ctx, "roster team not found in team mapping", "team_key", teamKey)
			continue
		}
		for _, entry := range roster {
			position := entry.Position.Abbreviation
			if position == "" {
				position = "NA"
			}
			internalID, err := tx.ResolvePlayer(ctx, refdata.Player{
				ExternalID: entry.Person.ID,
				Name:       entry.Person.FullName,
				TeamID:     teamID,
				Position:   position,
			})
			if err != nil {
				return mapping, fmt.Errorf("resolve player external_id=%d: %w", entry.Person.ID, err)
			}
			mapping.players[entry.Person.ID] = internalID
		}
	}

	for _, item := range doc.Games {
		homeID, homeOK := mapping.teamsByExternalID[item.HomeTeamID]
		awayID, awayOK := mapping.teamsByExternalID[item.AwayTeamID]
		if !homeOK || !awayOK {
			mapping.skippedGames++
			s.logger.WarnContext(ctx, "game skipped: missing team mapping",
				"game_external_id", item.GameID,
				"home_team_id", item.HomeTeamID,
				"away_team_id", item.AwayTeamID,
			)
			continue
		}

		internalID, err := tx.ResolveGame(ctx, refdata.Game{
			ExternalID: item.GameID,
			Date:       parseGameDate(item.GameDate),
			Venue:      item.Location,
			HomeTeamID: homeID,
			AwayTeamID: awayID,
			HomeScore:  item.HomeTeamScore,
			AwayScore:  item.AwayTeamScore,
		})
		if err != nil {
			return mapping, fmt.Errorf("resolve game external_id=%d: %w", item.GameID, err)
		}
		mapping.games[item.GameID] = internalID
	}

	return mapping, nil
}

// Roster sections may key teams by external id digits or by display name.
func (m unitMapping) lookupTeamKey(key string) (int64, bool) {
	trimmed := strings.TrimSpace(key)
	if externalID, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		id, ok := m.teamsByExternalID[externalID]
		return id, ok
	}
	id, ok := m.teamsByName[trimmed]
	return id, ok
}

func parseGameDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed
	}
	if parsed, err := time.Parse("2006-01-02", raw); err == nil {
		return parsed
	}
	return time.Time{}
}
