package run

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orquestra/pkg/errors"
	"orquestra/pkg/logger"
)

const defaultRecentLimit = 10

// Service encapsulates run journal operations.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// NewService constructs a run journal service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		log:  logger.Get().With("component", "run_journal"),
	}
}

// Record writes a completed run to the journal.
func (s *Service) Record(ctx context.Context, entry *Run) error {
	if entry == nil {
		return errors.ErrInvalidInput
	}
	if entry.Query == "" {
		return errors.ErrInvalidInput
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return errors.Wrap(err, "record run")
	}

	s.log.Debugw("Run journaled",
		"run_id", entry.ID,
		"agents", len(entry.SelectedAgents),
		"steps", entry.Steps,
	)
	return nil
}

// GetByID retrieves a single run.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	if id == uuid.Nil {
		return nil, errors.ErrInvalidInput
	}
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get run")
	}
	return entry, nil
}

// Recent returns the most recent runs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	entries, err := s.repo.GetRecent(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list recent runs")
	}
	return entries, nil
}

// AgentStats aggregates analyst participation since a timestamp. A zero
// timestamp defaults to the last 30 days.
func (s *Service) AgentStats(ctx context.Context, since time.Time) ([]AgentStats, error) {
	if since.IsZero() {
		since = time.Now().UTC().AddDate(0, 0, -30)
	}
	stats, err := s.repo.GetAgentStats(ctx, since)
	if err != nil {
		return nil, errors.Wrap(err, "aggregate agent stats")
	}
	return stats, nil
}
