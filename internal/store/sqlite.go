package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/uicraft/uicraft/internal/domain"
)

// SQLiteStore implements Store using SQLite. Each session is one row; the
// transcript is stored as a JSON column so transcript and current-artifact
// updates land in a single atomic UPDATE.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			transcript TEXT NOT NULL DEFAULT '[]',
			current_markup TEXT NOT NULL DEFAULT '',
			current_style TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_owner_updated ON sessions(owner_id, updated_at)`,
		`CREATE TABLE IF NOT EXISTS prompts (
			prompt TEXT PRIMARY KEY,
			markup TEXT NOT NULL DEFAULT '',
			style TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sessionCols = `session_id, owner_id, name, transcript, current_markup, current_style, version, created_at, updated_at`

// CreateSession inserts a new session with an empty transcript.
func (s *SQLiteStore) CreateSession(ctx context.Context, ownerID, name string) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       name,
		Transcript: []domain.ChatTurn{},
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, owner_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.OwnerID, session.Name, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

// GetSession retrieves one session filtered by id and owner.
func (s *SQLiteStore) GetSession(ctx context.Context, ownerID, id string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionCols+` FROM sessions WHERE session_id = ? AND owner_id = ?`,
		id, ownerID)
	return scanSession(row)
}

// ListSessions retrieves the owner's sessions, most recently active first.
func (s *SQLiteStore) ListSessions(ctx context.Context, ownerID string) ([]*domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sessionCols+` FROM sessions WHERE owner_id = ? ORDER BY updated_at DESC, session_id`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// ListSessionNames retrieves the owner's session names starting with prefix.
func (s *SQLiteStore) ListSessionNames(ctx context.Context, ownerID, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sessions WHERE owner_id = ? AND name LIKE ? || '%'`,
		ownerID, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to query session names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReplaceSession merges the patch into the session in one UPDATE. Only
// provided fields change; version is bumped and updated_at refreshed on
// every successful write.
func (s *SQLiteStore) ReplaceSession(ctx context.Context, ownerID, id string, expectedVersion int64, patch domain.SessionPatch) (*domain.Session, error) {
	sets := []string{"version = version + 1", "updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Transcript != nil {
		transcriptJSON, err := json.Marshal(patch.Transcript)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transcript: %w", err)
		}
		sets = append(sets, "transcript = ?")
		args = append(args, string(transcriptJSON))
	}
	if patch.CurrentArtifact != nil {
		sets = append(sets, "current_markup = ?", "current_style = ?")
		args = append(args, patch.CurrentArtifact.Markup, patch.CurrentArtifact.Style)
	}

	query := `UPDATE sessions SET ` + strings.Join(sets, ", ") + ` WHERE session_id = ? AND owner_id = ?`
	args = append(args, id, ownerID)
	if expectedVersion > 0 {
		query += ` AND version = ?`
		args = append(args, expectedVersion)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		// Distinguish a lost version race from a missing session.
		var v int64
		err := s.db.QueryRowContext(ctx,
			`SELECT version FROM sessions WHERE session_id = ? AND owner_id = ?`,
			id, ownerID).Scan(&v)
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check session version: %w", err)
		}
		return nil, fmt.Errorf("%w: expected version %d, stored %d", domain.ErrConflict, expectedVersion, v)
	}

	return s.GetSession(ctx, ownerID, id)
}

// DeleteSession removes one session filtered by id and owner.
func (s *SQLiteStore) DeleteSession(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ? AND owner_id = ?`,
		id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertPrompt saves or updates a prompt-library entry.
func (s *SQLiteStore) UpsertPrompt(ctx context.Context, text string, artifact domain.Artifact) (*domain.Prompt, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prompts (prompt, markup, style, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(prompt) DO UPDATE SET markup = excluded.markup, style = excluded.style, updated_at = excluded.updated_at`,
		text, artifact.Markup, artifact.Style, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert prompt: %w", err)
	}
	return s.GetPrompt(ctx, text)
}

// GetPrompt retrieves the entry for the exact prompt text.
func (s *SQLiteStore) GetPrompt(ctx context.Context, text string) (*domain.Prompt, error) {
	var p domain.Prompt
	err := s.db.QueryRowContext(ctx,
		`SELECT prompt, markup, style, created_at, updated_at FROM prompts WHERE prompt = ?`,
		text).Scan(&p.Text, &p.Artifact.Markup, &p.Artifact.Style, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}
	return &p, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var transcriptJSON string
	err := row.Scan(&session.ID, &session.OwnerID, &session.Name, &transcriptJSON,
		&session.CurrentArtifact.Markup, &session.CurrentArtifact.Style,
		&session.Version, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	if err := json.Unmarshal([]byte(transcriptJSON), &session.Transcript); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	if session.Transcript == nil {
		session.Transcript = []domain.ChatTurn{}
	}
	return &session, nil
}
