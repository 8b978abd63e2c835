package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/CATT-CODE/mlb-pipeline/internal/app"
	"github.com/CATT-CODE/mlb-pipeline/internal/config"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
)

// Pairs of players who homered on the same calendar day, ranked by how
// often it happened.
const homeRunPairsQuery = `
WITH hr_days AS (
    SELECT bs.player_id, g.game_date::date AS game_day
    FROM batter_stats bs
    JOIN games g ON bs.game_id = g.id
    WHERE bs.home_runs > 0
    GROUP BY bs.player_id, g.game_date::date
)
SELECT p1.name AS player_one, p2.name AS player_two, COUNT(*) AS frequency
FROM hr_days h1
JOIN hr_days h2 ON h1.game_day = h2.game_day AND h1.player_id < h2.player_id
JOIN players p1 ON h1.player_id = p1.id
JOIN players p2 ON h2.player_id = p2.id
WHERE ($1 = '' OR (p1.name <> $1 AND p2.name <> $1))
GROUP BY p1.name, p2.name
ORDER BY frequency DESC
LIMIT $2`

type homeRunPair struct {
	PlayerOne string `db:"player_one"`
	PlayerTwo string `db:"player_two"`
	Frequency int    `db:"frequency"`
}

func main() {
	exclude := flag.String("exclude", "", "player name to exclude from pairings")
	limit := flag.Int("limit", 10, "number of pairings to report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	db, err := app.OpenDB(cfg)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	var pairs []homeRunPair
	if err := db.SelectContext(context.Background(), &pairs, homeRunPairsQuery, *exclude, *limit); err != nil {
		logger.Error("query home run pairings", "error", err)
		os.Exit(1)
	}

	header := fmt.Sprintf("Top %d same-day home run pairings", *limit)
	if *exclude != "" {
		header += fmt.Sprintf(" (excluding %s)", *exclude)
	}
	fmt.Println(header)
	for _, pair := range pairs {
		fmt.Printf("%s / %s - %d times\n", pair.PlayerOne, pair.PlayerTwo, pair.Frequency)
	}
}
