package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// SnapshotRepository is an in-memory implementation of domain.SnapshotRepository
type SnapshotRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID][]domain.SnapshotRecord
}

// NewSnapshotRepository creates a new in-memory snapshot repository
func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		data: make(map[uuid.UUID][]domain.SnapshotRecord),
	}
}

// Add stores the records, skipping any year already recorded for the same strategy
func (r *SnapshotRepository) Add(ctx context.Context, records []*domain.SnapshotRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		if r.has(rec.ScenarioID, rec.Strategy, rec.Year) {
			continue
		}
		r.data[rec.ScenarioID] = append(r.data[rec.ScenarioID], *rec)
	}
	return nil
}

func (r *SnapshotRepository) has(scenarioID uuid.UUID, strategy domain.Strategy, year int) bool {
	for _, stored := range r.data[scenarioID] {
		if stored.Strategy == strategy && stored.Year == year {
			return true
		}
	}
	return false
}

// ListByScenario returns the records of a scenario ordered by strategy then year
func (r *SnapshotRepository) ListByScenario(ctx context.Context, scenarioID uuid.UUID) ([]*domain.SnapshotRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.data[scenarioID]
	out := make([]*domain.SnapshotRecord, 0, len(stored))
	for i := range stored {
		rec := stored[i]
		out = append(out, &rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Strategy != out[j].Strategy {
			return out[i].Strategy < out[j].Strategy
		}
		return out[i].Year < out[j].Year
	})
	return out, nil
}

// GetLatest returns the highest year recorded for a strategy
func (r *SnapshotRepository) GetLatest(ctx context.Context, scenarioID uuid.UUID, strategy domain.Strategy) (*domain.SnapshotRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.SnapshotRecord
	for i := range r.data[scenarioID] {
		rec := r.data[scenarioID][i]
		if rec.Strategy != strategy {
			continue
		}
		if latest == nil || rec.Year > latest.Year {
			latest = &rec
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no %s snapshot for scenario %s: %w", strategy, scenarioID, domain.ErrNotFound)
	}
	return latest, nil
}
