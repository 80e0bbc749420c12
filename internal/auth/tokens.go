// Package auth resolves bearer API tokens to user ids. Sign-in itself happens
// elsewhere; this package only issues and checks opaque tokens.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/pagecraft/internal/db"
)

// TokenPrefix marks pagecraft API tokens.
const TokenPrefix = "pc_"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrEmptyUser    = errors.New("user id is empty")
)

// Token is the stored metadata of an API token. The secret itself is never
// stored.
type Token struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
}

// Resolver maps a bearer token to a user id.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// TokenStore keeps hashed API tokens in SQLite.
type TokenStore struct {
	db  *db.DB
	now func() time.Time
}

// NewTokenStore creates a TokenStore backed by the given database.
func NewTokenStore(database *db.DB) *TokenStore {
	return &TokenStore{db: database, now: time.Now}
}

// Create issues a new token for userID. The returned secret is shown once.
// A zero ttl means the token never expires.
func (s *TokenStore) Create(ctx context.Context, userID, name string, ttl time.Duration) (string, *Token, error) {
	if userID == "" {
		return "", nil, ErrEmptyUser
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("generating token: %w", err)
	}
	secret := TokenPrefix + hex.EncodeToString(buf)

	now := s.now().UTC().Truncate(time.Second)
	tok := &Token{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
	}
	var expires sql.NullString
	if ttl > 0 {
		exp := now.Add(ttl)
		tok.ExpiresAt = &exp
		expires = sql.NullString{String: exp.Format(time.DateTime), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_tokens (id, user_id, name, token_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		tok.ID, tok.UserID, tok.Name, hashToken(secret), now.Format(time.DateTime), expires,
	)
	if err != nil {
		return "", nil, fmt.Errorf("inserting token: %w", err)
	}
	return secret, tok, nil
}

// Resolve returns the user id owning token and records its use.
func (s *TokenStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	var (
		id, userID string
		expires    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at FROM api_tokens WHERE token_hash = ?`,
		hashToken(token),
	).Scan(&id, &userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("looking up token: %w", err)
	}

	now := s.now().UTC()
	if expires.Valid {
		if exp, ok := parseTime(expires.String); ok && !now.Before(exp) {
			return "", ErrInvalidToken
		}
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE api_tokens SET last_used = ? WHERE id = ?",
		now.Format(time.DateTime), id,
	); err != nil {
		return "", fmt.Errorf("recording token use: %w", err)
	}
	return userID, nil
}

// List returns the tokens of a user, newest first.
func (s *TokenStore) List(ctx context.Context, userID string) ([]Token, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at, expires_at, last_used
		FROM api_tokens WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}
	defer rows.Close()

	tokens := []Token{}
	for rows.Next() {
		var (
			t                 Token
			created           string
			expires, lastUsed sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &created, &expires, &lastUsed); err != nil {
			return nil, err
		}
		t.CreatedAt, _ = parseTime(created)
		if ts, ok := parseNull(expires); ok {
			t.ExpiresAt = &ts
		}
		if ts, ok := parseNull(lastUsed); ok {
			t.LastUsed = &ts
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// Revoke deletes a token. It reports whether a token was removed.
func (s *TokenStore) Revoke(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM api_tokens WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("revoking token: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func parseNull(s sql.NullString) (time.Time, bool) {
	if !s.Valid {
		return time.Time{}, false
	}
	return parseTime(s.String)
}

func parseTime(s string) (time.Time, bool) {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
