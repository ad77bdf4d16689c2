package comparison

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// ComparisonResult represents where both strategies stood in the last recorded year
type ComparisonResult struct {
	ScenarioID     uuid.UUID
	Year           int
	FundValue      decimal.Decimal
	PropertyValue  decimal.Decimal
	PropertyEquity decimal.Decimal
	OutOfPocket    decimal.Decimal // cumulative cash the property consumed
	Difference     decimal.Decimal // property equity minus fund value
	Leader         domain.Strategy
}

// ComparisonService compares the stored histories of a scenario
type ComparisonService struct {
	ScenarioRepo domain.ScenarioRepository
	SnapshotRepo domain.SnapshotRepository
}

// NewComparisonService creates a new ComparisonService instance
func NewComparisonService(scenarioRepo domain.ScenarioRepository, snapshotRepo domain.SnapshotRepository) *ComparisonService {
	return &ComparisonService{
		ScenarioRepo: scenarioRepo,
		SnapshotRepo: snapshotRepo,
	}
}

// GetComparison compares the latest fund snapshot with the latest property snapshot
// Logic:
//   - Fund side: market value of the fund
//   - Property side: equity (value less debt, plus offset cash when banked)
//   - Difference: property equity minus fund value
func (s *ComparisonService) GetComparison(ctx context.Context, scenarioID uuid.UUID) (*ComparisonResult, error) {
	if _, err := s.ScenarioRepo.GetByID(ctx, scenarioID); err != nil {
		return nil, err
	}

	fund, err := s.SnapshotRepo.GetLatest(ctx, scenarioID, domain.StrategyETF)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest fund snapshot: %w", err)
	}

	property, err := s.SnapshotRepo.GetLatest(ctx, scenarioID, domain.StrategyProperty)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest property snapshot: %w", err)
	}

	// Older records may predate equity logging; fall back to the asset value
	equity, ok := property.Extra["equity"]
	if !ok {
		equity = property.Value
	}

	year := fund.Year
	if property.Year < year {
		year = property.Year
	}

	difference := equity.Sub(fund.Value)

	return &ComparisonResult{
		ScenarioID:     scenarioID,
		Year:           year,
		FundValue:      fund.Value,
		PropertyValue:  property.Value,
		PropertyEquity: equity,
		OutOfPocket:    property.Extra["cumulative_out_of_pocket"],
		Difference:     difference,
		Leader:         domain.LeaderOf(difference),
	}, nil
}
