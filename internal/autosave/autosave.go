// Package autosave persists editor snapshots after a quiet period.
package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/ziadkadry99/pagecraft/internal/project"
	"github.com/ziadkadry99/pagecraft/internal/projects"
)

const (
	DefaultDelay   = 2 * time.Second
	DefaultTimeout = 10 * time.Second
)

type pendingSave struct {
	projectID string
	userID    string
	snap      project.Snapshot
}

// Saver coalesces bursts of edits into one repository write per quiet period.
// Only the latest scheduled snapshot is written.
type Saver struct {
	repo     projects.Repository
	logger   *slog.Logger
	debounce func(func())
	timeout  time.Duration
	onError  func(error)

	mu      sync.Mutex
	pending *pendingSave

	saveMu sync.Mutex
}

// Option configures a Saver.
type Option func(*Saver)

// WithTimeout bounds each repository write.
func WithTimeout(d time.Duration) Option {
	return func(s *Saver) { s.timeout = d }
}

// WithErrorHandler is called with every failed write.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Saver) { s.onError = fn }
}

// New creates a Saver writing to repo once delay has passed without a new
// Schedule call.
func New(repo projects.Repository, delay time.Duration, logger *slog.Logger, opts ...Option) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Saver{
		repo:     repo,
		logger:   logger,
		debounce: debounce.New(delay),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule queues snap for saving. Anonymous edits are never persisted and
// Schedule reports false for them.
func (s *Saver) Schedule(projectID, userID string, snap project.Snapshot) bool {
	if userID == "" || projectID == "" {
		return false
	}
	s.mu.Lock()
	s.pending = &pendingSave{projectID: projectID, userID: userID, snap: snap}
	s.mu.Unlock()

	s.debounce(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.Flush(ctx)
	})
	return true
}

// Pending reports whether a snapshot is waiting to be written.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush writes the pending snapshot now, if any.
func (s *Saver) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return nil
	}

	if err := s.repo.Save(ctx, p.projectID, p.userID, p.snap); err != nil {
		s.logger.Warn("autosave failed", "project", p.projectID, "error", err)
		if s.onError != nil {
			s.onError(err)
		}
		return err
	}
	s.logger.Debug("autosaved project", "project", p.projectID, "pages", len(p.snap.Pages))
	return nil
}
