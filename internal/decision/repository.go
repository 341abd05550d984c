package decision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/leoscope/backend/internal/contracts"
)

// Repository handles persistence of decision traces
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveTrace persists a decision trace. Steps are stored as JSONB so the
// dashboard can replay them without a join.
func (r *Repository) SaveTrace(ctx context.Context, trace *contracts.DecisionTrace) error {
	stepsJSON, err := json.Marshal(trace.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	weightsJSON, err := json.Marshal(trace.Weights)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}

	query := `
		INSERT INTO decision.traces (
			selected_id,
			confidence,
			candidate_count,
			steps,
			weights,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Exec(ctx, query,
		trace.SelectedID,
		trace.Confidence,
		len(trace.Steps),
		stepsJSON,
		weightsJSON,
		trace.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert trace: %w", err)
	}

	return nil
}

// GetLatestTrace retrieves the most recent decision trace, or nil when no
// trace has been persisted yet.
func (r *Repository) GetLatestTrace(ctx context.Context) (*contracts.DecisionTrace, error) {
	traces, err := r.GetRecentTraces(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(traces) == 0 {
		return nil, nil
	}
	return &traces[0], nil
}

// GetRecentTraces retrieves the most recent traces, newest first
func (r *Repository) GetRecentTraces(ctx context.Context, limit int) ([]contracts.DecisionTrace, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT
			selected_id,
			confidence,
			steps,
			weights,
			created_at
		FROM decision.traces
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query recent traces: %w", err)
	}
	defer rows.Close()

	traces := make([]contracts.DecisionTrace, 0, limit)
	for rows.Next() {
		var trace contracts.DecisionTrace
		var stepsJSON, weightsJSON []byte

		if err := rows.Scan(
			&trace.SelectedID,
			&trace.Confidence,
			&stepsJSON,
			&weightsJSON,
			&trace.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}

		if err := json.Unmarshal(stepsJSON, &trace.Steps); err != nil {
			return nil, fmt.Errorf("unmarshal steps: %w", err)
		}
		if err := json.Unmarshal(weightsJSON, &trace.Weights); err != nil {
			return nil, fmt.Errorf("unmarshal weights: %w", err)
		}

		traces = append(traces, trace)
	}

	return traces, rows.Err()
}
