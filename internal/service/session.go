package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/uicraft/uicraft/internal/domain"
)

// displayNameLimit caps list-view display names derived from transcripts.
const displayNameLimit = 50

// sessionDateLayout matches the original en-US locale date rendering.
const sessionDateLayout = "01/02/2006"

// CreateSession creates a session for the owner. An empty name is replaced
// by a collision-avoided "Session <date>" default.
func (s *Service) CreateSession(ctx context.Context, ownerID, name string) (*domain.Session, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	if name == "" {
		derived, err := s.deriveSessionName(ctx, ownerID, time.Now())
		if err != nil {
			return nil, err
		}
		name = derived
	}

	session, err := s.store.CreateSession(ctx, ownerID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// deriveSessionName builds "Session <date>" for today, suffixing an
// ordinal when the owner already has sessions named for the same date.
func (s *Service) deriveSessionName(ctx context.Context, ownerID string, now time.Time) (string, error) {
	base := "Session " + now.Format(sessionDateLayout)

	names, err := s.store.ListSessionNames(ctx, ownerID, base)
	if err != nil {
		return "", fmt.Errorf("failed to list session names: %w", err)
	}
	return nextSessionName(base, names), nil
}

// nextSessionName counts existing names of the form "<base>" or
// "<base> <n>" and appends the next ordinal. The first session of a date
// carries no suffix; the second is "<base> 2".
func nextSessionName(base string, existing []string) string {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(base) + `( \d+)?$`)

	count := 0
	for _, name := range existing {
		if pattern.MatchString(name) {
			count++
		}
	}
	if count == 0 {
		return base
	}
	return fmt.Sprintf("%s %d", base, count+1)
}

// GetSession returns the full session for the owner.
func (s *Service) GetSession(ctx context.Context, ownerID, id string) (*domain.Session, error) {
	return s.loadSession(ctx, ownerID, id)
}

// ListSessions returns list-view projections of the owner's sessions,
// most recently active first. Transcripts are withheld; the display name
// is derived from the most recent user turn when one exists.
func (s *Service) ListSessions(ctx context.Context, ownerID string) ([]domain.SessionSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	sessions, err := s.store.ListSessions(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, domain.SessionSummary{
			ID:          session.ID,
			Name:        session.Name,
			DisplayName: displayName(session),
			Version:     session.Version,
			CreatedAt:   session.CreatedAt,
			UpdatedAt:   session.UpdatedAt,
		})
	}
	return summaries, nil
}

// displayName prefers the most recent user turn's content, truncated;
// sessions with no user turns fall back to the stored name.
func displayName(session *domain.Session) string {
	for i := len(session.Transcript) - 1; i >= 0; i-- {
		if session.Transcript[i].Role == domain.RoleUser {
			return truncateRunes(session.Transcript[i].Content, displayNameLimit)
		}
	}
	return session.Name
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// RenameSession updates only the session's name.
func (s *Service) RenameSession(ctx context.Context, ownerID, id, name string) (*domain.Session, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	return s.UpdateSession(ctx, ownerID, id, domain.SessionPatch{Name: &name})
}

// UpdateSession merges the provided patch fields into the session. At
// least one field must be present. The write is last-write-wins: explicit
// edits replace whatever state the session reached in the meantime.
func (s *Service) UpdateSession(ctx context.Context, ownerID, id string, patch domain.SessionPatch) (*domain.Session, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := parseSessionID(id); err != nil {
		return nil, err
	}
	if patch.IsZero() {
		return nil, fmt.Errorf("%w: at least one of name, transcript or currentArtifact must be provided", domain.ErrValidation)
	}
	for _, turn := range patch.Transcript {
		if !turn.Role.Valid() {
			return nil, fmt.Errorf("%w: invalid turn role %q", domain.ErrValidation, turn.Role)
		}
	}

	session, err := s.store.ReplaceSession(ctx, ownerID, id, 0, patch)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession removes the owner's session and returns the deleted id.
func (s *Service) DeleteSession(ctx context.Context, ownerID, id string) (string, error) {
	if err := requireOwner(ownerID); err != nil {
		return "", err
	}
	if err := parseSessionID(id); err != nil {
		return "", err
	}
	if err := s.store.DeleteSession(ctx, ownerID, id); err != nil {
		return "", err
	}
	return id, nil
}
