// Package statsapi is the MLB Stats API client used by the retrieval side
// of the pipeline. It speaks the public v1 endpoints and maps responses
// into snapshot documents.
package statsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/resilience"
	"github.com/CATT-CODE/mlb-pipeline/internal/usecase"
)

const (
	defaultBaseURL    = "https://statsapi.mlb.com/api/v1"
	defaultRosterType = "active"
	sportID           = "1"
)

var errStatsAPITransient = crerr.New("stats api transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Season         int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	season         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	season := cfg.Season
	if season <= 0 {
		season = time.Now().Year()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		season:         strconv.Itoa(season),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchTeams returns all active teams for the configured season.
func (c *Client) FetchTeams(ctx context.Context) ([]snapshot.Team, error) {
	query := map[string]string{
		"activeStatus": "Y",
		"sportId":      sportID,
		"season":       c.season,
	}

	var envelope teamsEnvelope
	if err := c.doJSON(ctx, "/teams", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}
	return envelope.Teams, nil
}

// FetchRoster returns the active roster for one team.
func (c *Client) FetchRoster(ctx context.Context, teamID int64) ([]snapshot.RosterEntry, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("team id must be greater than zero")
	}

	query := map[string]string{
		"season":     c.season,
		"rosterType": defaultRosterType,
	}

	var envelope rosterEnvelope
	path := fmt.Sprintf("/teams/%d/roster", teamID)
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch roster team_id=%d: %w", teamID, err)
	}
	return envelope.Roster, nil
}

// FetchSchedule returns the games scheduled between two dates, inclusive.
func (c *Client) FetchSchedule(ctx context.Context, startDate, endDate string) ([]snapshot.Game, error) {
	query := map[string]string{
		"season":    c.season,
		"startDate": startDate,
		"endDate":   endDate,
		"sportId":   sportID,
	}

	var envelope scheduleEnvelope
	if err := c.doJSON(ctx, "/schedule", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch schedule %s..%s: %w", startDate, endDate, err)
	}

	games := make([]snapshot.Game, 0, 16)
	for _, date := range envelope.Dates {
		for _, item := range date.Games {
			games = append(games, snapshot.Game{
				GameID:        item.GamePk,
				GameDate:      item.GameDate,
				Location:      item.Venue.Name,
				HomeTeamID:    item.Teams.Home.Team.ID,
				AwayTeamID:    item.Teams.Away.Team.ID,
				HomeTeamScore: item.Teams.Home.Score,
				AwayTeamScore: item.Teams.Away.Score,
			})
		}
	}
	return games, nil
}

// FetchBoxscore returns the batter and pitcher stat lines from one game's
// boxscore. Players whose stat block is empty carry no line for that role.
func (c *Client) FetchBoxscore(ctx context.Context, gamePk int64) ([]snapshot.BatterLine, []snapshot.PitcherLine, error) {
	if gamePk <= 0 {
		return nil, nil, fmt.Errorf("game pk must be greater than zero")
	}

	var envelope boxscoreEnvelope
	path := fmt.Sprintf("/game/%d/boxscore", gamePk)
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		return nil, nil, fmt.Errorf("fetch boxscore game_pk=%d: %w", gamePk, err)
	}

	var batters []snapshot.BatterLine
	var pitchers []snapshot.PitcherLine
	for _, team := range []boxscoreTeam{envelope.Teams.Home, envelope.Teams.Away} {
		for _, player := range team.Players {
			playerID := player.Person.ID
			if playerID <= 0 {
				continue
			}

			if len(player.Stats.Batting) > 0 {
				batters = append(batters, snapshot.BatterLine{
					GameID:         gamePk,
					PlayerID:       playerID,
					AtBats:         getInt(player.Stats.Batting, "atBats"),
					Runs:           getInt(player.Stats.Batting, "runs"),
					Hits:           getInt(player.Stats.Batting, "hits"),
					Doubles:        getInt(player.Stats.Batting, "doubles"),
					Triples:        getInt(player.Stats.Batting, "triples"),
					HomeRuns:       getInt(player.Stats.Batting, "homeRuns"),
					RBI:            getInt(player.Stats.Batting, "rbi"),
					Walks:          getInt(player.Stats.Batting, "baseOnBalls"),
					HitByPitch:     getInt(player.Stats.Batting, "hitByPitch"),
					Strikeouts:     getInt(player.Stats.Batting, "strikeOuts"),
					StolenBases:    getInt(player.Stats.Batting, "stolenBases"),
					CaughtStealing: getInt(player.Stats.Batting, "caughtStealing"),
					TotalBases:     getInt(player.Stats.Batting, "totalBases"),
					SacFlies:       getInt(player.Stats.Batting, "sacFlies"),
				})
			}

			if len(player.Stats.Pitching) > 0 {
				pitchers = append(pitchers, snapshot.PitcherLine{
					GameID:          gamePk,
					PlayerID:        playerID,
					InningsPitched:  getFloat(player.Stats.Pitching, "inningsPitched"),
					HitsAllowed:     getInt(player.Stats.Pitching, "hits"),
					RunsAllowed:     getInt(player.Stats.Pitching, "runs"),
					EarnedRuns:      getInt(player.Stats.Pitching, "earnedRuns"),
					HomeRunsAllowed: getInt(player.Stats.Pitching, "homeRuns"),
					WalksAllowed:    getInt(player.Stats.Pitching, "baseOnBalls"),
					Strikeouts:      getInt(player.Stats.Pitching, "strikeOuts"),
				})
			}
		}
	}
	return batters, pitchers, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats api circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errStatsAPITransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errStatsAPITransient, err)
		} else {
			raw, readErr := readBody(resp)
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStatsAPITransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsAPITransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "stats api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody drains the response through a pooled buffer; payloads over 16MB
// are treated as malformed.
func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	limited := http.MaxBytesReader(nil, resp.Body, 16<<20)
	if _, err := buf.ReadFrom(limited); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}

func getInt(src map[string]any, key string) int {
	return int(getInt64(src, key))
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	switch value := src[key].(type) {
	case float64:
		return int64(value)
	case int64:
		return value
	case int:
		return int64(value)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

// getFloat also accepts string values: the provider reports innings pitched
// as a string like "5.2".
func getFloat(src map[string]any, key string) float64 {
	if src == nil {
		return 0
	}
	switch value := src[key].(type) {
	case float64:
		return value
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
