package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/pagecraft/internal/audit"
	"github.com/ziadkadry99/pagecraft/internal/autosave"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/project"
	"github.com/ziadkadry99/pagecraft/internal/projects"
)

// ErrTooManySessions is returned when the anonymous session cap is reached
// and every anonymous session is still connected.
var ErrTooManySessions = errors.New("too many open anonymous projects")

// Options tunes new sessions.
type Options struct {
	HistoryLimit   int
	AutosaveDelay  time.Duration
	ExportFilename string
	// IdleTimeout is how long an unused session stays cached; 0 keeps
	// sessions until Delete.
	IdleTimeout time.Duration
	// MaxAnonymous caps the in-memory anonymous sessions; 0 means no cap.
	MaxAnonymous int
}

// Manager opens and caches sessions. With a nil repository every session
// lives in memory only.
type Manager struct {
	repo     projects.Repository
	recorder Recorder
	exporter *export.Assembler
	logger   *slog.Logger
	opts     Options

	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
	lastUsed map[string]time.Time
}

// NewManager creates a Manager. recorder and exporter may be nil.
func NewManager(repo projects.Repository, recorder Recorder, exporter *export.Assembler, logger *slog.Logger, opts Options) *Manager {
	if exporter == nil {
		exporter = export.New(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ExportFilename == "" {
		opts.ExportFilename = export.DefaultFilename
	}
	return &Manager{
		repo:     repo,
		recorder: recorder,
		exporter: exporter,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*Session),
		lastUsed: make(map[string]time.Time),
	}
}

func (m *Manager) documentOptions(name string) []project.Option {
	var opts []project.Option
	if m.opts.HistoryLimit > 0 {
		opts = append(opts, project.WithHistoryLimit(m.opts.HistoryLimit))
	}
	if name != "" {
		opts = append(opts, project.WithName(name))
	}
	return opts
}

func (m *Manager) newSaver(owner string) *autosave.Saver {
	if m.repo == nil || owner == "" {
		return nil
	}
	return autosave.New(m.repo, m.opts.AutosaveDelay, m.logger)
}

// Create starts a new project with one empty home page. Projects created by
// authenticated users are stored; anonymous ones live only in memory.
func (m *Manager) Create(ctx context.Context, userID, name string) (*Session, error) {
	if userID == "" {
		if err := m.makeRoomForAnonymous(); err != nil {
			return nil, err
		}
	}
	doc := project.New(m.documentOptions(name)...)

	id := uuid.New().String()
	if m.repo != nil && userID != "" {
		var err error
		id, err = m.repo.Create(ctx, userID, doc.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("creating project: %w", err)
		}
	}

	s := newSession(id, userID, doc, m.newSaver(userID), m.exporter, m.recorder, m.logger)
	m.mu.Lock()
	m.sessions[id] = s
	m.lastUsed[id] = m.now()
	m.mu.Unlock()

	s.mu.Lock()
	s.record(ctx, audit.ActionProjectCreated, "", doc.Name())
	s.mu.Unlock()
	m.logger.Info("project created", "project", id, "user", userID)
	return s, nil
}

// Open returns the live session of a project, hydrating it from the
// repository on first use.
func (m *Manager) Open(ctx context.Context, projectID, userID string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[projectID]
	if ok && s.owner == userID {
		m.lastUsed[projectID] = m.now()
	}
	m.mu.Unlock()
	if ok {
		if s.owner != userID {
			return nil, projects.ErrForbidden
		}
		return s, nil
	}

	if m.repo == nil || userID == "" {
		return nil, projects.ErrNotFound
	}
	snap, err := m.repo.Load(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	doc := project.New(m.documentOptions("")...)
	if err := doc.Hydrate(snap); err != nil {
		return nil, fmt.Errorf("hydrating project %s: %w", projectID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUsed[projectID] = m.now()
	// Another request may have opened it meanwhile.
	if existing, ok := m.sessions[projectID]; ok {
		return existing, nil
	}
	s = newSession(projectID, userID, doc, m.newSaver(userID), m.exporter, m.recorder, m.logger)
	m.sessions[projectID] = s
	return s, nil
}

// List returns the stored projects of a user.
func (m *Manager) List(ctx context.Context, userID string) ([]projects.Summary, error) {
	if m.repo == nil || userID == "" {
		return []projects.Summary{}, nil
	}
	return m.repo.List(ctx, userID)
}

// Delete drops a project and its session.
func (m *Manager) Delete(ctx context.Context, projectID, userID string) error {
	m.mu.Lock()
	s, ok := m.sessions[projectID]
	m.mu.Unlock()
	if ok && s.owner != userID {
		return projects.ErrForbidden
	}

	if m.repo != nil && userID != "" {
		if err := m.repo.Delete(ctx, projectID, userID); err != nil {
			return err
		}
	} else if !ok {
		return projects.ErrNotFound
	}

	m.mu.Lock()
	delete(m.sessions, projectID)
	delete(m.lastUsed, projectID)
	m.mu.Unlock()

	if m.recorder != nil {
		if err := m.recorder.Log(ctx, audit.Entry{ActorID: userID, Action: audit.ActionProjectDeleted, ProjectID: projectID}); err != nil {
			m.logger.Warn("recording audit entry", "project", projectID, "error", err)
		}
	}
	return nil
}

// makeRoomForAnonymous evicts the least recently used unconnected anonymous
// session when the anonymous cap is reached.
func (m *Manager) makeRoomForAnonymous() error {
	if m.opts.MaxAnonymous <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	var oldestID string
	var oldest time.Time
	for id, s := range m.sessions {
		if s.owner != "" {
			continue
		}
		count++
		if s.Connected() {
			continue
		}
		if used := m.lastUsed[id]; oldestID == "" || used.Before(oldest) {
			oldestID, oldest = id, used
		}
	}
	if count < m.opts.MaxAnonymous {
		return nil
	}
	if oldestID == "" {
		return ErrTooManySessions
	}
	delete(m.sessions, oldestID)
	delete(m.lastUsed, oldestID)
	m.logger.Info("evicted anonymous project", "project", oldestID)
	return nil
}

// Sweep drops sessions unused for longer than the idle timeout. Sessions with
// connected WebSocket clients are kept. Pending saves of evicted sessions are
// flushed first. It returns the number of evicted sessions.
func (m *Manager) Sweep(ctx context.Context) int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.opts.IdleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if m.lastUsed[id].Before(cutoff) && !s.Connected() {
			idle = append(idle, s)
			delete(m.sessions, id)
			delete(m.lastUsed, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		if err := s.Flush(ctx); err != nil {
			m.logger.Warn("flushing evicted project", "project", s.id, "error", err)
		}
	}
	if len(idle) > 0 {
		m.logger.Debug("evicted idle projects", "count", len(idle))
	}
	return len(idle)
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if m.opts.IdleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Close flushes every pending autosave.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flushing %s: %w", s.id, err))
		}
	}
	return errors.Join(errs...)
}

// Exporter returns the assembler used for exports.
func (m *Manager) Exporter() *export.Assembler { return m.exporter }

// ExportFilename is the download name of exported archives.
func (m *Manager) ExportFilename() string { return m.opts.ExportFilename }
