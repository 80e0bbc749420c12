// Package editor hosts live editing sessions: one document per open project,
// shared by the REST routes and the WebSocket command channel.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ziadkadry99/pagecraft/internal/audit"
	"github.com/ziadkadry99/pagecraft/internal/autosave"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/project"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

var (
	ErrComponentNotFound = errors.New("component not found")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrNotPersisted      = errors.New("anonymous projects are not persisted")
)

// Recorder receives audit entries for session activity.
type Recorder interface {
	Log(ctx context.Context, entry audit.Entry) error
}

// State is the client view of a session.
type State struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Pages         []project.Page `json:"pages"`
	CurrentPageID string         `json:"current_page_id"`
	CanUndo       bool           `json:"can_undo"`
	CanRedo       bool           `json:"can_redo"`
}

// Session serializes access to one project document. Sessions owned by an
// anonymous user are never persisted.
type Session struct {
	id     string
	owner  string
	logger *slog.Logger

	mu        sync.Mutex
	doc       *project.Document
	saver     *autosave.Saver
	exporter  *export.Assembler
	recorder  Recorder
	observers map[chan State]struct{}
	version   uint64
}

func newSession(id, owner string, doc *project.Document, saver *autosave.Saver, exporter *export.Assembler, recorder Recorder, logger *slog.Logger) *Session {
	s := &Session{
		id:        id,
		owner:     owner,
		logger:    logger,
		doc:       doc,
		saver:     saver,
		exporter:  exporter,
		recorder:  recorder,
		observers: make(map[chan State]struct{}),
	}
	doc.OnChange(s.changed)
	return s
}

// ID returns the project id.
func (s *Session) ID() string { return s.id }

// Owner returns the owning user id, "" for anonymous sessions.
func (s *Session) Owner() string { return s.owner }

// changed runs with s.mu held.
func (s *Session) changed(snap project.Snapshot) {
	s.version++
	if s.saver != nil {
		s.saver.Schedule(s.id, s.owner, snap)
	}
	if len(s.observers) == 0 {
		return
	}
	st := s.stateLocked()
	for ch := range s.observers {
		select {
		case ch <- st:
		default:
			// Slow observer; it will catch up on the next change.
		}
	}
}

// Version counts the changes applied to the document.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Subscribe returns a channel receiving the state after every change, and a
// function that ends the subscription.
func (s *Session) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 16)
	s.mu.Lock()
	s.observers[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Connected reports whether any client is subscribed to the session.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers) > 0
}

func (s *Session) stateLocked() State {
	snap := s.doc.Snapshot()
	return State{
		ID:            s.id,
		Name:          snap.Name,
		Pages:         snap.Pages,
		CurrentPageID: s.doc.CurrentPageID(),
		CanUndo:       s.doc.CanUndo(),
		CanRedo:       s.doc.CanRedo(),
	}
}

// State returns a copy of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Snapshot returns a copy of the persisted form of the document.
func (s *Session) Snapshot() project.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Snapshot()
}

func (s *Session) record(ctx context.Context, action audit.Action, targetID, summary string) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.Log(ctx, audit.Entry{
		ActorID:   s.owner,
		Action:    action,
		ProjectID: s.id,
		TargetID:  targetID,
		Summary:   summary,
	})
	if err != nil {
		s.logger.Warn("recording audit entry", "project", s.id, "action", action, "error", err)
	}
}

// Rename sets the project name.
func (s *Session) Rename(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Name() == name {
		return
	}
	s.doc.RenameProject(name)
	s.record(ctx, audit.ActionProjectRenamed, "", name)
}

// Insert creates a component of typ with its default props at the drop
// target on the current page.
func (s *Session) Insert(ctx context.Context, typ, targetID string, pos tree.Position) (tree.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.doc.InsertComponent(typ, targetID, pos)
	if err != nil {
		return tree.Node{}, err
	}
	s.record(ctx, audit.ActionComponentInserted, n.ID, typ)
	return n, nil
}

// Update merges patch into a component's props.
func (s *Session) Update(ctx context.Context, id string, patch map[string]any) (tree.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.FindByID(id); !ok {
		return tree.Node{}, ErrComponentNotFound
	}
	if s.doc.UpdateComponent(id, patch) {
		s.record(ctx, audit.ActionComponentUpdated, id, "")
	}
	n, _ := s.doc.FindByID(id)
	return n, nil
}

// Remove deletes a component and its subtree.
func (s *Session) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.RemoveComponent(id) {
		return ErrComponentNotFound
	}
	s.record(ctx, audit.ActionComponentRemoved, id, "")
	return nil
}

// Duplicate copies a component next to itself and returns the copy.
func (s *Session) Duplicate(ctx context.Context, id string) (tree.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.doc.DuplicateComponent(id)
	if !ok {
		return tree.Node{}, ErrComponentNotFound
	}
	s.record(ctx, audit.ActionComponentDuplicated, n.ID, "copy of "+id)
	return n, nil
}

// Find returns a component of the current page.
func (s *Session) Find(id string) (tree.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.doc.FindByID(id)
	if !ok {
		return tree.Node{}, ErrComponentNotFound
	}
	return n, nil
}

// IDs returns every component id on the current page in pre-order.
func (s *Session) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.CollectIDs()
}

// AddPage appends a page and selects it.
func (s *Session) AddPage(ctx context.Context, name, slug string) project.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.doc.AddPage(name, slug)
	s.record(ctx, audit.ActionPageAdded, p.ID, name)
	return p
}

// UpdatePage renames a page or changes its slug.
func (s *Session) UpdatePage(ctx context.Context, id, name, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.UpdatePage(id, name, slug); err != nil {
		return err
	}
	s.record(ctx, audit.ActionPageUpdated, id, name)
	return nil
}

// DeletePage removes a page. The last page cannot be removed.
func (s *Session) DeletePage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.doc.Pages())
	if err := s.doc.DeletePage(id); err != nil {
		return err
	}
	if len(s.doc.Pages()) < before {
		s.record(ctx, audit.ActionPageDeleted, id, "")
	}
	return nil
}

// SelectPage makes a page current.
func (s *Session) SelectPage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.SelectPage(id)
}

// Undo steps back one edit. It reports whether anything changed.
func (s *Session) Undo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Undo() {
		return false
	}
	s.record(ctx, audit.ActionHistoryUndo, "", "")
	return true
}

// Redo re-applies one undone edit. It reports whether anything changed.
func (s *Session) Redo(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Redo() {
		return false
	}
	s.record(ctx, audit.ActionHistoryRedo, "", "")
	return true
}

// Export writes the current pages to w as a zip archive. Non-empty patterns
// restrict the export to matching pages.
func (s *Session) Export(ctx context.Context, w io.Writer, patterns []string) error {
	snap := s.Snapshot()
	pages, err := export.FilterPages(snap.Pages, patterns)
	if err != nil {
		return fmt.Errorf("%w: %v", export.ErrMalformedInput, err)
	}
	if err := s.exporter.WriteArchive(w, pages); err != nil {
		return fmt.Errorf("exporting project %s: %w", s.id, err)
	}
	s.mu.Lock()
	s.record(ctx, audit.ActionSiteExported, "", fmt.Sprintf("%d pages", len(pages)))
	s.mu.Unlock()
	return nil
}

// Save writes the current snapshot immediately.
func (s *Session) Save(ctx context.Context) error {
	if s.saver == nil {
		return ErrNotPersisted
	}
	s.mu.Lock()
	s.saver.Schedule(s.id, s.owner, s.doc.Snapshot())
	s.mu.Unlock()

	if err := s.saver.Flush(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.record(ctx, audit.ActionProjectSaved, "", "")
	s.mu.Unlock()
	return nil
}

// Flush writes any pending autosave now.
func (s *Session) Flush(ctx context.Context) error {
	if s.saver == nil {
		return nil
	}
	return s.saver.Flush(ctx)
}
