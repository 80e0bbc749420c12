package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/pagecraft/internal/db"
	"github.com/ziadkadry99/pagecraft/internal/project"
)

// Store is the SQLite Repository.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create stores a new project owned by userID and returns its id.
func (s *Store) Create(ctx context.Context, userID string, snap project.Snapshot) (string, error) {
	pages, err := encodePages(snap.Pages)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	now := time.Now().UTC().Format(time.DateTime)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, pages, page_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, userID, snap.Name, pages, len(snap.Pages), now, now,
	)
	if err != nil {
		return "", fmt.Errorf("inserting project: %w", err)
	}
	return id, nil
}

// Load returns the stored snapshot of a project.
func (s *Store) Load(ctx context.Context, projectID, userID string) (project.Snapshot, error) {
	var owner, name, pagesJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, name, pages FROM projects WHERE id = ?", projectID,
	).Scan(&owner, &name, &pagesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return project.Snapshot{}, fmt.Errorf("loading project: %w", err)
	}
	if err := checkOwner(owner, userID); err != nil {
		return project.Snapshot{}, err
	}
	pages, err := decodePages(pagesJSON)
	if err != nil {
		return project.Snapshot{}, err
	}
	return project.Snapshot{Name: name, Pages: pages}, nil
}

// Save replaces the stored snapshot of a project.
func (s *Store) Save(ctx context.Context, projectID, userID string, snap project.Snapshot) error {
	if err := s.authorize(ctx, projectID, userID); err != nil {
		return err
	}
	pages, err := encodePages(snap.Pages)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, pages = ?, page_count = ?, updated_at = ?
		WHERE id = ?`,
		snap.Name, pages, len(snap.Pages), time.Now().UTC().Format(time.DateTime), projectID,
	)
	if err != nil {
		return fmt.Errorf("saving project: %w", err)
	}
	return nil
}

// List returns the projects of a user, most recently updated first.
func (s *Store) List(ctx context.Context, userID string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, page_count, created_at, updated_at
		FROM projects WHERE user_id = ?
		ORDER BY updated_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum              Summary
			created, updated string
		)
		if err := rows.Scan(&sum.ID, &sum.UserID, &sum.Name, &sum.PageCount, &created, &updated); err != nil {
			return nil, err
		}
		sum.CreatedAt = parseTime(created)
		sum.UpdatedAt = parseTime(updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes a project.
func (s *Store) Delete(ctx context.Context, projectID, userID string) error {
	if err := s.authorize(ctx, projectID, userID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", projectID); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Close is a no-op; the database handle is owned by the caller.
func (s *Store) Close(context.Context) error { return nil }

func (s *Store) authorize(ctx context.Context, projectID, userID string) error {
	var owner string
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM projects WHERE id = ?", projectID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("loading project owner: %w", err)
	}
	return checkOwner(owner, userID)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
