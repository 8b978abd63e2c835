package statsapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
)

// SnapshotFileName builds the source token for a retrieved range. The
// embedded dates are what the load side reads back for overlap checking.
func SnapshotFileName(startDate, endDate string, now time.Time) string {
	return fmt.Sprintf("mlb_raw_%s_%s_%s.json", startDate, endDate, now.Format("20060102_150405"))
}

// BuildSnapshotDocument retrieves one full ingestion unit: all active teams
// with rosters, the scheduled games in the date range, and every game's
// boxscore stat lines. Boxscores are fetched concurrently; a single failed
// boxscore drops that game's stat lines and keeps the rest.
func (c *Client) BuildSnapshotDocument(ctx context.Context, startDate, endDate string, workers int) (snapshot.Document, error) {
	teams, err := c.FetchTeams(ctx)
	if err != nil {
		return snapshot.Document{}, err
	}

	rosters := make(map[string][]snapshot.RosterEntry, len(teams))
	for _, team := range teams {
		roster, err := c.FetchRoster(ctx, team.ID)
		if err != nil {
			if ctx.Err() != nil {
				return snapshot.Document{}, ctx.Err()
			}
			c.logger.WarnContext(ctx, "roster fetch failed, team skipped", "team_id", team.ID, "error", err)
			continue
		}
		rosters[team.Name] = roster
	}

	games, err := c.FetchSchedule(ctx, startDate, endDate)
	if err != nil {
		return snapshot.Document{}, err
	}

	batters, pitchers := c.fetchBoxscores(ctx, games, workers)

	doc := snapshot.Document{
		Teams:        teams,
		Rosters:      rosters,
		Games:        games,
		BatterStats:  batters,
		PitcherStats: pitchers,
	}
	if err := snapshot.Validate(doc); err != nil {
		return snapshot.Document{}, err
	}
	return doc, nil
}

func (c *Client) fetchBoxscores(ctx context.Context, games []snapshot.Game, workers int) ([]snapshot.BatterLine, []snapshot.PitcherLine) {
	if len(games) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		c.logger.Warn("worker pool unavailable, fetching boxscores serially", "error", err)
		return c.fetchBoxscoresSerial(ctx, games)
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup
	var batters []snapshot.BatterLine
	var pitchers []snapshot.PitcherLine

	for _, game := range games {
		gamePk := game.GameID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			b, p, err := c.FetchBoxscore(ctx, gamePk)
			if err != nil {
				c.logger.WarnContext(ctx, "boxscore fetch failed, game stat lines skipped", "game_pk", gamePk, "error", err)
				return
			}

			mu.Lock()
			batters = append(batters, b...)
			pitchers = append(pitchers, p...)
			mu.Unlock()
		}); err != nil {
			wg.Done()
			c.logger.WarnContext(ctx, "boxscore task submit failed", "game_pk", gamePk, "error", err)
		}
	}
	wg.Wait()

	return batters, pitchers
}

func (c *Client) fetchBoxscoresSerial(ctx context.Context, games []snapshot.Game) ([]snapshot.BatterLine, []snapshot.PitcherLine) {
	var batters []snapshot.BatterLine
	var pitchers []snapshot.PitcherLine
	for _, game := range games {
		b, p, err := c.FetchBoxscore(ctx, game.GameID)
		if err != nil {
			c.logger.WarnContext(ctx, "boxscore fetch failed, game stat lines skipped", "game_pk", game.GameID, "error", err)
			continue
		}
		batters = append(batters, b...)
		pitchers = append(pitchers, p...)
	}
	return batters, pitchers
}
