// Package projects persists website documents per user. A SQLite store
// backs single-node installs and a MongoDB store backs shared deployments.
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/pagecraft/internal/project"
)

var (
	ErrNotFound  = errors.New("project not found")
	ErrForbidden = errors.New("project belongs to another user")
)

// Summary describes a stored project without its pages.
type Summary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	PageCount int       `json:"page_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository stores project snapshots. Every method checks that userID owns
// the project.
type Repository interface {
	Create(ctx context.Context, userID string, s project.Snapshot) (string, error)
	Load(ctx context.Context, projectID, userID string) (project.Snapshot, error)
	Save(ctx context.Context, projectID, userID string, s project.Snapshot) error
	List(ctx context.Context, userID string) ([]Summary, error)
	Delete(ctx context.Context, projectID, userID string) error
	Close(ctx context.Context) error
}

func encodePages(pages []project.Page) (string, error) {
	if pages == nil {
		pages = []project.Page{}
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return "", fmt.Errorf("encoding pages: %w", err)
	}
	return string(data), nil
}

func decodePages(data string) ([]project.Page, error) {
	var pages []project.Page
	if err := json.Unmarshal([]byte(data), &pages); err != nil {
		return nil, fmt.Errorf("decoding pages: %w", err)
	}
	return pages, nil
}

func checkOwner(owner, userID string) error {
	if owner != userID {
		return ErrForbidden
	}
	return nil
}
