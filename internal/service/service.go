// Package service implements session orchestration and lifecycle
// operations on top of the store and the generation client.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/uicraft/uicraft/internal/domain"
	"github.com/uicraft/uicraft/internal/generate"
	"github.com/uicraft/uicraft/internal/store"
)

type Service struct {
	store     store.Store
	generator generate.Generator
}

func New(store store.Store, generator generate.Generator) *Service {
	return &Service{
		store:     store,
		generator: generator,
	}
}

// requireOwner rejects callers without an identity. The owner id itself is
// supplied by the identity collaborator and trusted as-is.
func requireOwner(ownerID string) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	return nil
}

// parseSessionID rejects malformed ids before any store round-trip.
func parseSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidID, id)
	}
	return nil
}

// loadSession validates identity and id syntax, then fetches the session
// filtered by owner.
func (s *Service) loadSession(ctx context.Context, ownerID, id string) (*domain.Session, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if err := parseSessionID(id); err != nil {
		return nil, err
	}
	return s.store.GetSession(ctx, ownerID, id)
}
