package run

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for run journal data access
type Repository interface {
	Create(ctx context.Context, entry *Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	GetRecent(ctx context.Context, limit int) ([]Run, error)
	GetAgentStats(ctx context.Context, since time.Time) ([]AgentStats, error)
}
