package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// scenarioRepository implements domain.ScenarioRepository
type scenarioRepository struct {
	db *DB
}

// NewScenarioRepository creates a new scenario repository
func NewScenarioRepository(db *DB) domain.ScenarioRepository {
	return &scenarioRepository{db: db}
}

// GetByID retrieves a scenario by its ID
func (r *scenarioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	query := `
		SELECT payload
		FROM scenarios
		WHERE id = $1
	`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scenario %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get scenario by ID: %w", err)
	}

	return decodeScenario(payload)
}

// Create stores a new scenario
func (r *scenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	query := `
		INSERT INTO scenarios (id, name, years, policy, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	payload, err := json.Marshal(scenario)
	if err != nil {
		return fmt.Errorf("failed to encode scenario: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		scenario.ID,
		scenario.Name,
		scenario.Years,
		string(scenario.Policy),
		payload,
		scenario.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("scenario %s: %w", scenario.ID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create scenario: %w", err)
	}

	return nil
}

// List retrieves all scenarios, oldest first
func (r *scenarioRepository) List(ctx context.Context) ([]*domain.Scenario, error) {
	query := `
		SELECT payload
		FROM scenarios
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	scenarios := make([]*domain.Scenario, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		s, err := decodeScenario(payload)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenarios: %w", err)
	}

	return scenarios, nil
}

func decodeScenario(payload []byte) (*domain.Scenario, error) {
	var s domain.Scenario
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario payload: %w", err)
	}
	return &s, nil
}
