package run

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Run represents one completed orchestration run: the routing decision,
// which analysts delivered, and what the final recommendation cost.
type Run struct {
	ID    uuid.UUID `db:"id"`
	Query string    `db:"query"`

	// Routing outcome
	SelectedAgents  pq.StringArray `db:"selected_agents"`
	CompletedAgents pq.StringArray `db:"completed_agents"`
	SkippedAgents   pq.StringArray `db:"skipped_agents"`

	// Synthesis
	FinalReport string `db:"final_report"`

	// Diagnostics
	Steps      int `db:"steps"`
	ErrorCount int `db:"error_count"`

	// Usage
	InputTokens  int64           `db:"input_tokens"`
	OutputTokens int64           `db:"output_tokens"`
	CostUSD      decimal.Decimal `db:"cost_usd"`
	DurationMS   int64           `db:"duration_ms"` // Wall clock, milliseconds

	CreatedAt time.Time `db:"created_at"`
}

// AgentStats represents aggregated analyst participation across runs
type AgentStats struct {
	AgentName      string `db:"agent_name"`
	TimesSelected  int    `db:"times_selected"`
	TimesCompleted int    `db:"times_completed"`
	TimesSkipped   int    `db:"times_skipped"`
}
