package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/CATT-CODE/mlb-pipeline/internal/domain/ledger"
	"github.com/CATT-CODE/mlb-pipeline/internal/infrastructure/repository/memory"
	"github.com/CATT-CODE/mlb-pipeline/internal/platform/logging"
)

type ledgerRepoMock struct {
	mock.Mock
}

func (m *ledgerRepoMock) Overlaps(ctx context.Context, candidate ledger.Range) (bool, error) {
	args := m.Called(ctx, candidate)
	return args.Bool(0), args.Error(1)
}

func (m *ledgerRepoMock) Record(ctx context.Context, item ledger.ProcessedRange) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *ledgerRepoMock) IsRecorded(ctx context.Context, sourceToken string) (bool, error) {
	args := m.Called(ctx, sourceToken)
	return args.Bool(0), args.Error(1)
}

func TestPipelineService_RunBatch_RecordsDeclaredRangeUsingMock(t *testing.T) {
	intake := memory.NewIntakeStore()
	refStore := memory.NewRefDataStore()
	statRepo := memory.NewStatLineRepository()
	ledgerRepo := new(ledgerRepoMock)

	service := NewPipelineService(intake, refStore, statRepo, ledgerRepo, logging.NewNop())
	intake.Add(testToken, testDocument())

	ledgerRepo.
		On("IsRecorded", mock.Anything, testToken).
		Return(false, nil).
		Once()
	ledgerRepo.
		On("Overlaps", mock.Anything, mock.MatchedBy(func(r ledger.Range) bool {
			return r.StartDate() == "2024-04-01" && r.EndDate() == "2024-04-07"
		})).
		Return(false, nil).
		Once()
	ledgerRepo.
		On("Record", mock.Anything, mock.MatchedBy(func(item ledger.ProcessedRange) bool {
			return item.SourceToken == testToken &&
				item.Range.StartDate() == "2024-04-01" &&
				item.Range.EndDate() == "2024-04-07" &&
				!item.ProcessedAt.IsZero()
		})).
		Return(nil).
		Once()

	result, err := service.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if result.Committed != 1 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
	ledgerRepo.AssertExpectations(t)
}

func TestPipelineService_RunBatch_OverlapSkipsBeforeAnyLoadUsingMock(t *testing.T) {
	intake := memory.NewIntakeStore()
	refStore := memory.NewRefDataStore()
	statRepo := memory.NewStatLineRepository()
	ledgerRepo := new(ledgerRepoMock)

	service := NewPipelineService(intake, refStore, statRepo, ledgerRepo, logging.NewNop())
	intake.Add(testToken, testDocument())

	ledgerRepo.
		On("IsRecorded", mock.Anything, testToken).
		Return(false, nil).
		Once()
	ledgerRepo.
		On("Overlaps", mock.Anything, mock.Anything).
		Return(true, nil).
		Once()

	result, err := service.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("run batch: %v", err)
	}
	if result.Skipped != 1 || result.Committed != 0 {
		t.Fatalf("unexpected batch result: %+v", result)
	}
	if got := refStore.TeamCount(); got != 0 {
		t.Fatalf("expected no reference rows for skipped unit, got %d teams", got)
	}
	if got := statRepo.BatterCount(); got != 0 {
		t.Fatalf("expected no stat rows for skipped unit, got %d", got)
	}
	ledgerRepo.AssertExpectations(t)
	ledgerRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
