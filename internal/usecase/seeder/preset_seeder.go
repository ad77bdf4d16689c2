package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// Fixed UUIDs for preset scenarios so clients can reference them across restarts
var (
	PRESET_REFERENCE_DISCARD = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	PRESET_REFERENCE_OFFSET  = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	PRESET_LOW_LEVERAGE      = uuid.MustParse("00000000-0000-0000-0000-000000000103")
)

// presetEpoch is the creation time stamped on every preset
var presetEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Presets returns the built-in comparison scenarios
func Presets() []*domain.Scenario {
	reference := func(id uuid.UUID, name string, policy domain.CashFlowPolicy) *domain.Scenario {
		return &domain.Scenario{
			ID:                  id,
			Name:                name,
			Years:               30,
			Policy:              policy,
			ReinvestOutOfPocket: true,
			Assumptions:         domain.DefaultAssumptions(),
			ETF: domain.ETFParams{
				Name:         "Index ETF",
				AnnualReturn: decimal.RequireFromString("0.07"),
				MER:          decimal.RequireFromString("0.002"),
			},
			Property: domain.PropertyParams{
				Name:          "Investment Property",
				PurchasePrice: decimal.NewFromInt(500000),
				GrowthRate:    decimal.RequireFromString("0.03"),
				RentalYield:   decimal.RequireFromString("0.04"),
				Expenses:      decimal.NewFromInt(5000),
			},
			Mortgage: domain.MortgageParams{
				Principal:    decimal.NewFromInt(400000),
				InterestRate: decimal.RequireFromString("0.04"),
				TermYears:    30,
			},
			CreatedAt: presetEpoch,
		}
	}

	discard := reference(PRESET_REFERENCE_DISCARD, "Reference 80% LVR, surplus discarded", domain.PolicyDiscardSurplus)

	offset := reference(PRESET_REFERENCE_OFFSET, "Reference 80% LVR, surplus to offset", domain.PolicyOffsetBanking)
	offset.Mortgage.RecalculatePayment = true

	lowLeverage := reference(PRESET_LOW_LEVERAGE, "Low leverage 20% LVR", domain.PolicyOffsetBanking)
	lowLeverage.Mortgage.Principal = decimal.NewFromInt(100000)
	lowLeverage.Mortgage.TermYears = 15

	return []*domain.Scenario{discard, offset, lowLeverage}
}

// PresetSeeder handles seeding of the built-in scenarios
type PresetSeeder struct {
	repo domain.ScenarioRepository
}

// NewPresetSeeder creates a new PresetSeeder instance
func NewPresetSeeder(repo domain.ScenarioRepository) *PresetSeeder {
	return &PresetSeeder{
		repo: repo,
	}
}

// Seed ensures every preset scenario exists in the repository
// If a preset doesn't exist, it creates it
func (s *PresetSeeder) Seed(ctx context.Context) error {
	for _, preset := range Presets() {
		_, err := s.repo.GetByID(ctx, preset.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		// Validate before creating
		if err := preset.Validate(); err != nil {
			return err
		}

		if err := s.repo.Create(ctx, preset); err != nil {
			return err
		}
	}

	return nil
}
