package service

import (
	"context"
	"fmt"

	"github.com/uicraft/uicraft/internal/domain"
)

// SavePrompt saves or updates a prompt-library entry keyed by exact
// prompt text.
func (s *Service) SavePrompt(ctx context.Context, ownerID, text string, artifact domain.Artifact) (*domain.Prompt, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}

	prompt, err := s.store.UpsertPrompt(ctx, text, artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to save prompt: %w", err)
	}
	return prompt, nil
}

// GetPrompt fetches the entry for the exact prompt text.
func (s *Service) GetPrompt(ctx context.Context, ownerID, text string) (*domain.Prompt, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	return s.store.GetPrompt(ctx, text)
}
