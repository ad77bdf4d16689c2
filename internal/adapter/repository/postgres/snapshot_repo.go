package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wealthflow-sim/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// Add inserts all records in a single database transaction.
// Years already stored for the scenario and strategy are left as they are.
func (r *snapshotRepository) Add(ctx context.Context, records []*domain.SnapshotRecord) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO projection_snapshots (id, scenario_id, strategy, investment, year, value, extra)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (scenario_id, strategy, year) DO NOTHING
	`

	for _, rec := range records {
		extra, err := json.Marshal(rec.Extra)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot extra data: %w", err)
		}

		_, err = dbTx.ExecContext(ctx, query,
			rec.ID,
			rec.ScenarioID,
			string(rec.Strategy),
			rec.Investment,
			rec.Year,
			rec.Value.String(),
			extra,
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListByScenario retrieves every record of a scenario ordered by strategy then year
func (r *snapshotRepository) ListByScenario(ctx context.Context, scenarioID uuid.UUID) ([]*domain.SnapshotRecord, error) {
	query := `
		SELECT id, scenario_id, strategy, investment, year, value, extra
		FROM projection_snapshots
		WHERE scenario_id = $1
		ORDER BY strategy ASC, year ASC
	`

	rows, err := r.db.QueryContext(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.SnapshotRecord, 0)
	for rows.Next() {
		rec, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return records, nil
}

// GetLatest retrieves the last year recorded for one strategy of a scenario
func (r *snapshotRepository) GetLatest(ctx context.Context, scenarioID uuid.UUID, strategy domain.Strategy) (*domain.SnapshotRecord, error) {
	query := `
		SELECT id, scenario_id, strategy, investment, year, value, extra
		FROM projection_snapshots
		WHERE scenario_id = $1 AND strategy = $2
		ORDER BY year DESC
		LIMIT 1
	`

	rec, err := scanSnapshot(r.db.QueryRowContext(ctx, query, scenarioID, string(strategy)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s snapshot for scenario %s: %w", strategy, scenarioID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	return rec, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*domain.SnapshotRecord, error) {
	var rec domain.SnapshotRecord
	var strategy string
	var valueStr string
	var extra []byte

	err := row.Scan(
		&rec.ID,
		&rec.ScenarioID,
		&strategy,
		&rec.Investment,
		&rec.Year,
		&valueStr,
		&extra,
	)
	if err != nil {
		return nil, err
	}
	rec.Strategy = domain.Strategy(strategy)

	// Parse value (NUMERIC)
	value, err := decimal.NewFromString(valueStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot value: %w", err)
	}
	rec.Value = value

	if len(extra) > 0 && string(extra) != "null" {
		if err := json.Unmarshal(extra, &rec.Extra); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot extra data: %w", err)
		}
	}

	return &rec, nil
}
