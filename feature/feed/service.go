package feed

import (
	"context"
	"errors"
	"sync"

	"feed-sync/feature/feed/models"
	"feed-sync/feature/feed/reconcile"
	feedsync "feed-sync/feature/feed/sync"

	"go.uber.org/zap"
)

// ErrBusy is returned when a sync trigger arrives while a run is already in
// progress. Runs are strictly serialized: two concurrent runs would race on
// the known set and the export artifact.
var ErrBusy = errors.New("a sync run is already in progress")

// SourceFunc opens the feed sources for one run and returns a cleanup
// function that releases them.
type SourceFunc func(ctx context.Context) (feedsync.Sources, func(), error)

// Service exposes sync runs to the HTTP layer and the CLI. It owns the
// run-at-a-time lock and remembers the outcome of the last completed run.
type Service struct {
	orch   *feedsync.Orchestrator
	open   SourceFunc
	cfg    Config
	logger *zap.Logger

	running sync.Mutex

	mu   sync.RWMutex
	last *models.RunSummary
}

// NewService creates a feed service.
func NewService(orch *feedsync.Orchestrator, open SourceFunc, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		orch:   orch,
		open:   open,
		cfg:    cfg,
		logger: logger,
	}
}

// TriggerSync executes one run. It returns ErrBusy without blocking when a
// run is already in progress.
func (s *Service) TriggerSync(ctx context.Context, dryRun bool) (*models.RunSummary, error) {
	if !s.running.TryLock() {
		return nil, ErrBusy
	}
	defer s.running.Unlock()

	src, cleanup, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	opts := feedsync.Options{DryRun: dryRun}
	if policy, ok := reconcile.ParsePolicy(s.cfg.Reactivation); ok {
		opts.Reconcile.Reactivation = policy
	}

	summary, err := s.orch.Run(ctx, src, s.cfg.Output, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.last = summary
	s.mu.Unlock()
	return summary, nil
}

// LastSummary returns the outcome of the most recent completed run, or nil
// when no run has completed since startup.
func (s *Service) LastSummary() *models.RunSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}
