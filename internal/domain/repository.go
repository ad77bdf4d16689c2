package domain

import (
	"context"

	"github.com/google/uuid"
)

// ScenarioRepository defines the interface for scenario persistence operations
type ScenarioRepository interface {
	// GetByID retrieves a scenario by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Scenario, error)

	// Create stores a new scenario
	Create(ctx context.Context, scenario *Scenario) error

	// List retrieves all scenarios, oldest first
	List(ctx context.Context) ([]*Scenario, error)
}

// SnapshotRepository defines the interface for projection history persistence
type SnapshotRepository interface {
	// Add stores a batch of snapshot records atomically.
	// Records whose (scenario, strategy, year) is already stored are skipped.
	Add(ctx context.Context, records []*SnapshotRecord) error

	// ListByScenario retrieves every record of a scenario ordered by strategy then year
	ListByScenario(ctx context.Context, scenarioID uuid.UUID) ([]*SnapshotRecord, error)

	// GetLatest retrieves the last year recorded for one strategy of a scenario
	GetLatest(ctx context.Context, scenarioID uuid.UUID, strategy Strategy) (*SnapshotRecord, error)
}

// ResultCache stores finished projections keyed by scenario fingerprint.
// A failed lookup is reported as a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) (*ProjectionResult, bool)
	Set(ctx context.Context, key string, result *ProjectionResult) error
}
