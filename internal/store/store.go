// Package store defines the session persistence interface and its SQLite
// implementation.
package store

import (
	"context"

	"github.com/uicraft/uicraft/internal/domain"
)

// Store is the document-store access layer for sessions and the prompt
// library. Every session operation takes the acting owner's id and applies
// it as a filter, so cross-owner access is structurally impossible.
type Store interface {
	// CreateSession inserts a new session with an empty transcript and an
	// empty current artifact. The id is assigned here.
	CreateSession(ctx context.Context, ownerID, name string) (*domain.Session, error)

	// GetSession returns the session matching id and owner, or
	// domain.ErrNotFound. A missing session and a wrong owner are
	// indistinguishable to the caller.
	GetSession(ctx context.Context, ownerID, id string) (*domain.Session, error)

	// ListSessions returns the owner's sessions ordered by updated_at
	// descending.
	ListSessions(ctx context.Context, ownerID string) ([]*domain.Session, error)

	// ListSessionNames returns the owner's session names starting with
	// prefix. Used for collision-avoiding name derivation.
	ListSessionNames(ctx context.Context, ownerID, prefix string) ([]string, error)

	// ReplaceSession merges the non-nil patch fields into the session in a
	// single write, bumping version and refreshing updated_at. When
	// expectedVersion is positive the write only succeeds if the stored
	// version still matches; a lost race returns domain.ErrConflict.
	// expectedVersion <= 0 skips the check (last write wins).
	ReplaceSession(ctx context.Context, ownerID, id string, expectedVersion int64, patch domain.SessionPatch) (*domain.Session, error)

	// DeleteSession removes the session matching id and owner, or returns
	// domain.ErrNotFound.
	DeleteSession(ctx context.Context, ownerID, id string) error

	// UpsertPrompt saves or updates a prompt-library entry keyed by exact
	// prompt text.
	UpsertPrompt(ctx context.Context, text string, artifact domain.Artifact) (*domain.Prompt, error)

	// GetPrompt returns the entry for the exact prompt text, or
	// domain.ErrNotFound.
	GetPrompt(ctx context.Context, text string) (*domain.Prompt, error)

	// Lifecycle
	Close() error
}
