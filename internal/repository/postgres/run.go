package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"orquestra/internal/domain/run"
)

// Compile-time check
var _ run.Repository = (*RunRepository)(nil)

// runSchema creates the journal table on first use. The table is small and
// append-only, so schema management stays here instead of a migration tool.
const runSchema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id UUID PRIMARY KEY,
	query TEXT NOT NULL,
	selected_agents TEXT[],
	completed_agents TEXT[],
	skipped_agents TEXT[],
	final_report TEXT NOT NULL DEFAULT '',
	steps INT NOT NULL DEFAULT 0,
	error_count INT NOT NULL DEFAULT 0,
	input_tokens BIGINT NOT NULL DEFAULT 0,
	output_tokens BIGINT NOT NULL DEFAULT 0,
	cost_usd NUMERIC(12,6) NOT NULL DEFAULT 0,
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs (created_at DESC)`

// EnsureRunSchema creates the analysis_runs table if it does not exist
func EnsureRunSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, runSchema)
	return err
}

// RunRepository implements run.Repository using sqlx
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run journal repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a completed run
func (r *RunRepository) Create(ctx context.Context, entry *run.Run) error {
	query := `
		INSERT INTO analysis_runs (
			id, query, selected_agents, completed_agents, skipped_agents,
			final_report, steps, error_count,
			input_tokens, output_tokens, cost_usd, duration_ms, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.Query, entry.SelectedAgents, entry.CompletedAgents, entry.SkippedAgents,
		entry.FinalReport, entry.Steps, entry.ErrorCount,
		entry.InputTokens, entry.OutputTokens, entry.CostUSD, entry.DurationMS, entry.CreatedAt,
	)

	return err
}

// GetByID retrieves a run by ID
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*run.Run, error) {
	var entry run.Run

	query := `SELECT * FROM analysis_runs WHERE id = $1`

	err := r.db.GetContext(ctx, &entry, query, id)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// GetRecent retrieves the most recent runs, newest first
func (r *RunRepository) GetRecent(ctx context.Context, limit int) ([]run.Run, error) {
	var entries []run.Run

	query := `SELECT * FROM analysis_runs ORDER BY created_at DESC LIMIT $1`

	err := r.db.SelectContext(ctx, &entries, query, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// GetAgentStats aggregates analyst participation across runs since a timestamp.
// Duplicate selections count once per occurrence.
func (r *RunRepository) GetAgentStats(ctx context.Context, since time.Time) ([]run.AgentStats, error) {
	var stats []run.AgentStats

	query := `
		SELECT
			agent AS agent_name,
			COUNT(*) AS times_selected,
			COUNT(*) FILTER (WHERE agent = ANY(completed_agents)) AS times_completed,
			COUNT(*) FILTER (WHERE agent = ANY(skipped_agents)) AS times_skipped
		FROM analysis_runs
		CROSS JOIN LATERAL unnest(selected_agents) AS agent
		WHERE created_at >= $1
		GROUP BY agent
		ORDER BY times_selected DESC, agent ASC`

	err := r.db.SelectContext(ctx, &stats, query, since)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
