package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// ScenarioRepository is an in-memory implementation of domain.ScenarioRepository
type ScenarioRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]domain.Scenario
}

// NewScenarioRepository creates a new in-memory scenario repository
func NewScenarioRepository() *ScenarioRepository {
	return &ScenarioRepository{
		data: make(map[uuid.UUID]domain.Scenario),
	}
}

// GetByID retrieves a copy of the stored scenario
func (r *ScenarioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.data[id]
	if !ok {
		return nil, fmt.Errorf("scenario %s: %w", id, domain.ErrNotFound)
	}
	return &s, nil
}

// Create stores a copy of the scenario
func (r *ScenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[scenario.ID]; exists {
		return fmt.Errorf("scenario %s: %w", scenario.ID, domain.ErrAlreadyExists)
	}
	r.data[scenario.ID] = *scenario
	return nil
}

// List returns all scenarios, oldest first
func (r *ScenarioRepository) List(ctx context.Context) ([]*domain.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Scenario, 0, len(r.data))
	for _, s := range r.data {
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
