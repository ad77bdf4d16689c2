package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// Projection outcomes reported to the Recorder
const (
	OutcomeComputed = "computed"
	OutcomeCached   = "cached"
	OutcomeFailed   = "failed"
)

// Recorder observes finished projections (metrics)
type Recorder interface {
	ObserveProjection(outcome string, years int, elapsed time.Duration)
}

// ProjectionService runs scenarios and keeps their history
type ProjectionService struct {
	ScenarioRepo domain.ScenarioRepository
	SnapshotRepo domain.SnapshotRepository
	Cache        domain.ResultCache
	Recorder     Recorder
	Logger       *slog.Logger

	// Defaults replace the assumptions of a scenario that supplies none
	Defaults domain.Assumptions

	now func() time.Time
}

// NewProjectionService creates a new ProjectionService instance.
// cache, recorder and logger may be nil. Zero defaults fall back to
// domain.DefaultAssumptions.
func NewProjectionService(
	scenarioRepo domain.ScenarioRepository,
	snapshotRepo domain.SnapshotRepository,
	defaults domain.Assumptions,
	cache domain.ResultCache,
	recorder Recorder,
	logger *slog.Logger,
) *ProjectionService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.IsZero() {
		defaults = domain.DefaultAssumptions()
	}
	return &ProjectionService{
		ScenarioRepo: scenarioRepo,
		SnapshotRepo: snapshotRepo,
		Cache:        cache,
		Recorder:     recorder,
		Logger:       logger,
		Defaults:     defaults,
		now:          time.Now,
	}
}

// RunProjection validates and stores a new scenario, projects it and persists
// the yearly history of both strategies.
func (s *ProjectionService) RunProjection(ctx context.Context, scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	if scenario == nil {
		return nil, errors.New("scenario is required")
	}
	s.applyDefaults(scenario)
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	if scenario.ID == uuid.Nil {
		scenario.ID = uuid.New()
	}
	if scenario.CreatedAt.IsZero() {
		scenario.CreatedAt = s.now()
	}

	result, err := s.project(ctx, scenario)
	if err != nil {
		return nil, err
	}

	if err := s.ScenarioRepo.Create(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to store scenario: %w", err)
	}
	if err := s.storeHistory(ctx, result); err != nil {
		return nil, err
	}

	s.Logger.InfoContext(ctx, "projection stored",
		slog.String("scenario_id", scenario.ID.String()),
		slog.String("leader", string(result.Summary.Leader)),
		slog.String("difference", result.Summary.Difference.StringFixed(2)),
	)
	return result, nil
}

// RunScenario projects a stored scenario. History is persisted the first time only.
func (s *ProjectionService) RunScenario(ctx context.Context, scenarioID uuid.UUID) (*domain.ProjectionResult, error) {
	scenario, err := s.ScenarioRepo.GetByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	s.applyDefaults(scenario)

	result, err := s.project(ctx, scenario)
	if err != nil {
		return nil, err
	}

	existing, err := s.SnapshotRepo.ListByScenario(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to check projection history: %w", err)
	}
	// Concurrent first runs may both get here; Add skips years already stored
	if len(existing) == 0 {
		if err := s.storeHistory(ctx, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// GetHistory returns the persisted history of a scenario
func (s *ProjectionService) GetHistory(ctx context.Context, scenarioID uuid.UUID) ([]*domain.SnapshotRecord, error) {
	// Verify scenario exists
	if _, err := s.ScenarioRepo.GetByID(ctx, scenarioID); err != nil {
		return nil, err
	}
	return s.SnapshotRepo.ListByScenario(ctx, scenarioID)
}

// applyDefaults fills in the assumptions of a scenario that carries none
func (s *ProjectionService) applyDefaults(scenario *domain.Scenario) {
	if !scenario.Assumptions.IsZero() {
		return
	}
	scenario.Assumptions = s.Defaults
	if scenario.Assumptions.IsZero() {
		scenario.Assumptions = domain.DefaultAssumptions()
	}
}

// project returns a cached result for identical inputs or simulates afresh
func (s *ProjectionService) project(ctx context.Context, scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	start := s.now()

	key, err := scenario.Fingerprint()
	if err != nil {
		s.Logger.WarnContext(ctx, "scenario fingerprint failed, skipping cache", slog.Any("error", err))
		key = ""
	}

	if key != "" && s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			out := *cached
			out.ScenarioID = scenario.ID
			out.Cached = true
			s.observe(OutcomeCached, scenario.Years, start)
			return &out, nil
		}
	}

	result, err := Simulate(scenario)
	if err != nil {
		s.observe(OutcomeFailed, scenario.Years, start)
		return nil, err
	}

	if key != "" && s.Cache != nil {
		// Not critical if it fails
		if err := s.Cache.Set(ctx, key, result); err != nil {
			s.Logger.WarnContext(ctx, "failed to cache projection", slog.Any("error", err))
		}
	}

	s.observe(OutcomeComputed, scenario.Years, start)
	return result, nil
}

func (s *ProjectionService) storeHistory(ctx context.Context, result *domain.ProjectionResult) error {
	records := make([]*domain.SnapshotRecord, 0, len(result.ETF)+len(result.Property))
	for _, snap := range result.ETF {
		records = append(records, newRecord(result.ScenarioID, domain.StrategyETF, result.FundName, snap))
	}
	for _, snap := range result.Property {
		records = append(records, newRecord(result.ScenarioID, domain.StrategyProperty, result.PropertyName, snap))
	}

	if err := s.SnapshotRepo.Add(ctx, records); err != nil {
		return fmt.Errorf("failed to store projection history: %w", err)
	}
	return nil
}

func (s *ProjectionService) observe(outcome string, years int, start time.Time) {
	if s.Recorder == nil {
		return
	}
	s.Recorder.ObserveProjection(outcome, years, s.now().Sub(start))
}

func newRecord(scenarioID uuid.UUID, strategy domain.Strategy, name string, snap domain.Snapshot) *domain.SnapshotRecord {
	return &domain.SnapshotRecord{
		ID:         uuid.New(),
		ScenarioID: scenarioID,
		Strategy:   strategy,
		Investment: name,
		Snapshot:   snap,
	}
}
