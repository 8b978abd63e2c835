package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/ledger"
	"github.com/CATT-CODE/mlb-pipeline/internal/domain/refdata"
	"github.com/CATT-CODE/mlb-pipeline/internal/domain/snapshot"
	"github.com/CATT-CODE/mlb-pipeline/internal/domain/statline"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
)

// IntakeStore is the durable area snapshots arrive in. Archive relocates a
// consumed unit out of intake; it must be safe to call after a crash that
// already recorded the unit in the ledger.
type IntakeStore interface {
	ListPending(ctx context.Context) ([]string, error)
	Read(ctx context.Context, token string) (snapshot.Document, error)
	Archive(ctx context.Context, token string) error
}

const (
	UnitStatusCommitted = "committed"
	UnitStatusSkipped   = "skipped"
	UnitStatusFailed    = "failed"
)

type UnitResult struct {
	Token       string
	Status      string
	Reason      string
	BatterRows  int
	PitcherRows int
}

type BatchResult struct {
	Committed int
	Skipped   int
	Failed    int
	Units     []UnitResult
}

// PipelineService sequences discovery, range checking, loading, ledger
// recording and archival for each pending snapshot. One unit's failure
// never halts the batch.
type PipelineService struct {
	intake     IntakeStore
	refStore   refdata.Store
	statRepo   statline.Repository
	ledgerRepo ledger.Repository
	logger     *logging.Logger
	now        func() time.Time
}

func NewPipelineService(
	intake IntakeStore,
	refStore refdata.Store,
	statRepo statline.Repository,
	ledgerRepo ledger.Repository,
	logger *logging.Logger,
) *PipelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PipelineService{
		intake:     intake,
		refStore:   refStore,
		statRepo:   statRepo,
		ledgerRepo: ledgerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// RunBatch processes every pending unit once and returns the summary.
// The returned error is reserved for batch-level failures (discovery);
// per-unit failures are reported in the result.
func (s *PipelineService) RunBatch(ctx context.Context) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.RunBatch")
	defer span.End()

	tokens, err := s.intake.ListPending(ctx)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list pending units: %w", err)
	}

	var result BatchResult
	for _, token := range tokens {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		unit := s.processUnit(ctx, token)
		result.Units = append(result.Units, unit)
		switch unit.Status {
		case UnitStatusCommitted:
			result.Committed++
		case UnitStatusSkipped:
			result.Skipped++
		default:
			result.Failed++
		}
	}

	s.logger.InfoContext(ctx, "batch finished",
		"units", len(result.Units),
		"committed", result.Committed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *PipelineService) processUnit(ctx context.Context, token string) UnitResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.PipelineService.processUnit")
	defer span.End()

	unit := UnitResult{Token: token}

	// Ledger first, intake second: a unit whose archive move failed after
	// its ledger record was written must not be reprocessed.
	recorded, err := s.ledgerRepo.IsRecorded(ctx, token)
	if err != nil {
		return s.fail(ctx, unit, "check ledger for token", err)
	}
	if recorded {
		s.logger.InfoContext(ctx, "unit already recorded, archiving without reprocessing", "token", token)
		if err := s.intake.Archive(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "archive of already-recorded unit failed", "token", token, "error", err)
		}
		unit.Status = UnitStatusSkipped
		unit.Reason = "already recorded"
		return unit
	}

	declared, tokenOK := ledger.ParseToken(token)
	if !tokenOK {
		s.logger.WarnContext(ctx, "source token does not match range pattern, overlap check disabled", "token", token)
	} else {
		overlaps, err := s.ledgerRepo.Overlaps(ctx, declared)
		if err != nil {
			return s.fail(ctx, unit, "check range overlap", err)
		}
		if overlaps {
			s.logger.InfoContext(ctx, "declared range overlaps processed data, skipping unit",
				"token", token,
				"start", declared.StartDate(),
				"end", declared.EndDate(),
			)
			unit.Status = UnitStatusSkipped
			unit.Reason = "range overlap"
			return unit
		}
	}

	doc, err := s.intake.Read(ctx, token)
	if err != nil {
		return s.fail(ctx, unit, "read snapshot", err)
	}

	mapping, err := s.loadReferences(ctx, doc)
	if err != nil {
		return s.fail(ctx, unit, "load reference data", err)
	}
	if mapping.skippedGames > 0 {
		s.logger.WarnContext(ctx, "games skipped during resolution", "token", token, "skipped", mapping.skippedGames)
	}

	batterRows, skippedBatters := buildBatterLines(doc.BatterStats, mapping)
	unit.BatterRows, err = s.statRepo.InsertBatterLines(ctx, batterRows)
	if err != nil {
		return s.fail(ctx, unit, "load batter stat lines", err)
	}

	pitcherRows, skippedPitchers := buildPitcherLines(doc.PitcherStats, mapping)
	unit.PitcherRows, err = s.statRepo.InsertPitcherLines(ctx, pitcherRows)
	if err != nil {
		return s.fail(ctx, unit, "load pitcher stat lines", err)
	}
	if skippedBatters+skippedPitchers > 0 {
		s.logger.WarnContext(ctx, "stat lines dropped: unresolved game or player",
			"token", token,
			"batter", skippedBatters,
			"pitcher", skippedPitchers,
		)
	}

	if tokenOK {
		record := ledger.ProcessedRange{
			SourceToken: token,
			Range:       declared,
			ProcessedAt: s.now().UTC(),
		}
		if err := s.ledgerRepo.Record(ctx, record); err != nil {
			return s.fail(ctx, unit, "record processed range", err)
		}
	}

	if err := s.intake.Archive(ctx, token); err != nil {
		// The ledger record is the commit marker; a failed move only costs
		// one redundant ledger lookup on the next run.
		s.logger.WarnContext(ctx, "archive failed after commit", "token", token, "error", err)
	}

	s.logger.InfoContext(ctx, "unit committed",
		"token", token,
		"batter_rows", unit.BatterRows,
		"pitcher_rows", unit.PitcherRows,
	)
	unit.Status = UnitStatusCommitted
	return unit
}

// loadReferences runs all reference upserts for the unit in one transaction.
func (s *PipelineService) loadReferences(ctx context.Context, doc snapshot.Document) (unitMapping, error) {
	tx, err := s.refStore.Begin(ctx)
	if err != nil {
		return unitMapping{}, fmt.Errorf("begin reference tx: %w", err)
	}

	mapping, err := s.resolveReferences(ctx, tx, doc)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.WarnContext(ctx, "rollback reference tx failed", "error", rbErr)
		}
		return unitMapping{}, err
	}

	if err := tx.Commit(); err != nil {
		return unitMapping{}, fmt.Errorf("commit reference tx: %w", err)
	}
	return mapping, nil
}

func (s *PipelineService) fail(ctx context.Context, unit UnitResult, stage string, err error) UnitResult {
	s.logger.ErrorContext(ctx, "unit failed, left in intake for retry",
		"token", unit.Token,
		"stage", stage,
		"error", err,
	)
	unit.Status = UnitStatusFailed
	unit.Reason = fmt.Sprintf("%s: %v", stage, err)
	return unit
}

func buildBatterLines(raw []snapshot.BatterLine, mapping unitMapping) ([]statline.BatterLine, int) {
	out := make([]statline.BatterLine, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		gameID, gameOK := mapping.games[item.GameID]
		playerID, playerOK := mapping.players[item.PlayerID]
		if !gameOK || !playerOK {
			skipped++
			continue
		}
		out = append(out, statline.BatterLine{
			GameID:         gameID,
			PlayerID:       playerID,
			AtBats:         item.AtBats,
			Runs:           item.Runs,
			Hits:           item.Hits,
			Doubles:        item.Doubles,
			Triples:        item.Triples,
			HomeRuns:       item.HomeRuns,
			RBI:            item.RBI,
			Walks:          item.Walks,
			HitByPitch:     item.HitByPitch,
			Strikeouts:     item.Strikeouts,
			StolenBases:    item.StolenBases,
			CaughtStealing: item.CaughtStealing,
			Rates: statline.DeriveBattingRates(statline.BattingCounts{
				AtBats:     item.AtBats,
				Hits:       item.Hits,
				Walks:      item.Walks,
				HitByPitch: item.HitByPitch,
				SacFlies:   item.SacFlies,
				TotalBases: item.TotalBases,
			}),
		})
	}
	return out, skipped
}

func buildPitcherLines(raw []snapshot.PitcherLine, mapping unitMapping) ([]statline.PitcherLine, int) {
	out := make([]statline.PitcherLine, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		gameID, gameOK := mapping.games[item.GameID]
		playerID, playerOK := mapping.players[item.PlayerID]
		if !gameOK || !playerOK {
			skipped++
			continue
		}
		out = append(out, statline.PitcherLine{
			GameID:          gameID,
			PlayerID:        playerID,
			InningsPitched:  item.InningsPitched,
			HitsAllowed:     item.HitsAllowed,
			RunsAllowed:     item.RunsAllowed,
			EarnedRuns:      item.EarnedRuns,
			HomeRunsAllowed: item.HomeRunsAllowed,
			WalksAllowed:    item.WalksAllowed,
			Strikeouts:      item.Strikeouts,
		})
	}
	return out, skipped
}
