package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uicraft/uicraft/internal/domain"
)

// maxSubmitRetries bounds append retries after a lost version race.
const maxSubmitRetries = 3

// TurnResult carries both turns appended by a successful submission.
type TurnResult struct {
	UserTurn      domain.ChatTurn `json:"userTurn"`
	AssistantTurn domain.ChatTurn `json:"assistantTurn"`
}

// SubmitTurn runs one chat turn through the pipeline: validate ownership,
// invoke generation, append the user and assistant turns, set the current
// artifact, and persist transcript and artifact in a single store write so
// no reader ever observes one without the other.
//
// A backend failure aborts the whole turn with nothing persisted. A lost
// version race reloads the session and retries the append; the generation
// call itself is never repeated.
func (s *Service) SubmitTurn(ctx context.Context, ownerID, sessionID, content, imageURL string) (*TurnResult, error) {
	session, err := s.loadSession(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if content == "" && imageURL == "" {
		return nil, fmt.Errorf("%w: message or image is required", domain.ErrValidation)
	}

	artifact, err := s.generator.Generate(ctx, content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	userTurn := domain.ChatTurn{
		Role:      domain.RoleUser,
		Content:   content,
		Timestamp: now,
		Image:     imageURL,
	}
	assistantTurn := domain.ChatTurn{
		Role:      domain.RoleAssistant,
		Content:   content, // echo of the request, not a summary
		Timestamp: time.Now().UTC(),
	}
	if !artifact.IsEmpty() {
		assistantTurn.Artifact = &artifact
	}

	for attempt := 0; ; attempt++ {
		transcript := append(append([]domain.ChatTurn{}, session.Transcript...), userTurn, assistantTurn)
		_, err = s.store.ReplaceSession(ctx, ownerID, sessionID, session.Version, domain.SessionPatch{
			Transcript:      transcript,
			CurrentArtifact: &artifact,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxSubmitRetries {
			return nil, err
		}
		// Lost the race: reload the advanced session and re-append.
		session, err = s.store.GetSession(ctx, ownerID, sessionID)
		if err != nil {
			return nil, err
		}
	}

	return &TurnResult{UserTurn: userTurn, AssistantTurn: assistantTurn}, nil
}
