package statsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/resilience"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Season:  2024,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled: false,
		},
	})
	return client, server
}

func TestFetchTeams(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("season"); got != "2024" {
			t.Errorf("unexpected season param: %q", got)
		}
		_, _ = w.Write([]byte(`{"teams":[{"id":147,"name":"New York Yankees","venue":{"name":"Yankee Stadium"},"locationName":"Bronx"}]}`))
	}))

	teams, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(teams) != 1 {
		t.Fatalf("expected 1 team, got %d", len(teams))
	}
	if teams[0].ID != 147 || teams[0].Venue.Name != "Yankee Stadium" {
		t.Fatalf("unexpected team: %+v", teams[0])
	}
}

func TestFetchSchedule(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/schedule" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"dates":[{"games":[{
			"gamePk":745804,
			"gameDate":"2024-04-01T23:05:00Z",
			"venue":{"name":"Yankee Stadium"},
			"teams":{
				"home":{"team":{"id":147},"score":5},
				"away":{"team":{"id":110},"score":2}
			}
		}]}]}`))
	}))

	games, err := client.FetchSchedule(context.Background(), "2024-04-01", "2024-04-07")
	if err != nil {
		t.Fatalf("fetch schedule: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	game := games[0]
	if game.GameID != 745804 || game.HomeTeamID != 147 || game.AwayTeamID != 110 {
		t.Fatalf("unexpected game: %+v", game)
	}
	if game.HomeTeamScore == nil || *game.HomeTeamScore != 5 {
		t.Fatalf("unexpected home score: %+v", game.HomeTeamScore)
	}
}

func TestFetchBoxscore(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"teams":{
			"home":{"players":{
				"ID660271":{"person":{"id":660271},"stats":{"batting":{"atBats":4,"hits":2,"totalBases":"5","baseOnBalls":1},"pitching":{}}},
				"ID592450":{"person":{"id":592450},"stats":{"batting":{},"pitching":{"inningsPitched":"6.1","strikeOuts":8,"earnedRuns":2}}}
			}},
			"away":{"players":{}}
		}}`))
	}))

	batters, pitchers, err := client.FetchBoxscore(context.Background(), 745804)
	if err != nil {
		t.Fatalf("fetch boxscore: %v", err)
	}

	if len(batters) != 1 {
		t.Fatalf("expected 1 batter line, got %d", len(batters))
	}
	if batters[0].PlayerID != 660271 || batters[0].AtBats != 4 || batters[0].TotalBases != 5 || batters[0].Walks != 1 {
		t.Fatalf("unexpected batter line: %+v", batters[0])
	}

	if len(pitchers) != 1 {
		t.Fatalf("expected 1 pitcher line, got %d", len(pitchers))
	}
	if pitchers[0].PlayerID != 592450 || pitchers[0].InningsPitched != 6.1 || pitchers[0].Strikeouts != 8 {
		t.Fatalf("unexpected pitcher line: %+v", pitchers[0])
	}
}

func TestNonRetryableStatusFailsWithoutRetry(t *testing.T) {
	var requests atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	client.maxRetries = 3

	if _, _, err := client.FetchBoxscore(context.Background(), 1); err == nil {
		t.Fatalf("expected error for 404 response")
	}
	if got := requests.Load(); got != 1 {
		t.Fatalf("expected exactly 1 request for non-retryable status, got %d", got)
	}
}

func TestCircuitBreakerRejectsWhenOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Season:  2024,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchTeams(context.Background()); err == nil {
		t.Fatalf("expected error from failing provider")
	}

	_, err := client.FetchTeams(context.Background())
	if err == nil {
		t.Fatalf("expected circuit breaker rejection")
	}
	if !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected circuit rejection error, got: %v", err)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusTooManyRequests, http.StatusRequestTimeout} {
		if !isRetryableStatus(status) {
			t.Fatalf("expected status %d to be retryable", status)
		}
	}
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnauthorized} {
		if isRetryableStatus(status) {
			t.Fatalf("expected status %d to be non-retryable", status)
		}
	}
}

func TestSnapshotFileName(t *testing.T) {
	now := time.Date(2024, 4, 8, 9, 30, 15, 0, time.UTC)
	got := SnapshotFileName("2024-04-01", "2024-04-07", now)
	want := "mlb_raw_2024-04-01_2024-04-07_20240408_093015.json"
	if got != want {
		t.Fatalf("unexpected file name: got %q want %q", got, want)
	}
}

func TestBuildSnapshotDocument(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"teams":[{"id":147,"name":"New York Yankees","venue":{"name":"Yankee Stadium"},"locationName":"Bronx"}]}`))
	})
	mux.HandleFunc("/teams/147/roster", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"roster":[{"person":{"id":660271,"fullName":"Test Batter"},"position":{"abbreviation":"RF"}}]}`))
	})
	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dates":[{"games":[{"gamePk":745804,"gameDate":"2024-04-01T23:05:00Z","venue":{"name":"Yankee Stadium"},"teams":{"home":{"team":{"id":147},"score":5},"away":{"team":{"id":110},"score":2}}}]}]}`))
	})
	mux.HandleFunc("/game/745804/boxscore", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"teams":{"home":{"players":{"ID660271":{"person":{"id":660271},"stats":{"batting":{"atBats":4,"hits":2},"pitching":{}}}}},"away":{"players":{}}}}`))
	})

	client, _ := newTestClient(t, mux)

	doc, err := client.BuildSnapshotDocument(context.Background(), "2024-04-01", "2024-04-07", 2)
	if err != nil {
		t.Fatalf("build snapshot document: %v", err)
	}

	if len(doc.Teams) != 1 || len(doc.Games) != 1 {
		t.Fatalf("unexpected document sizes: teams=%d games=%d", len(doc.Teams), len(doc.Games))
	}
	roster, ok := doc.Rosters["New York Yankees"]
	if !ok || len(roster) != 1 {
		t.Fatalf("expected roster keyed by team name, got: %+v", doc.Rosters)
	}
	if len(doc.BatterStats) != 1 || doc.BatterStats[0].PlayerID != 660271 {
		t.Fatalf("unexpected batter stats: %+v", doc.BatterStats)
	}
	if len(doc.PitcherStats) != 0 {
		t.Fatalf("expected empty pitching block to be skipped, got: %+v", doc.PitcherStats)
	}
}
