package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/uicraft/uicraft/internal/domain"
	"github.com/uicraft/uicraft/internal/generate"
	"github.com/uicraft/uicraft/internal/store"
	"github.com/uicraft/uicraft/tests/helpers"
)

// stubGenerator returns a fixed raw completion, or a fixed error.
type stubGenerator struct {
	raw   string
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (domain.Artifact, error) {
	g.calls++
	if g.err != nil {
		return domain.Artifact{}, g.err
	}
	return generate.Parse(g.raw), nil
}

func newTestService(t *testing.T, gen generate.Generator) (*Service, store.Store) {
	t.Helper()
	s := helpers.NewTestSQLiteStore(t)
	return New(s, gen), s
}

func TestSubmitTurnAppendsBothTurns(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<button>Click</button>\n\nCSS:\n.button{color:blue;}"}
	svc, st := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.SubmitTurn(ctx, "u1", session.ID, "Make a blue button", "")
	if err != nil {
		t.Fatalf("SubmitTurn failed: %v", err)
	}

	if result.UserTurn.Role != domain.RoleUser || result.UserTurn.Content != "Make a blue button" {
		t.Fatalf("unexpected user turn: %+v", result.UserTurn)
	}
	if result.AssistantTurn.Role != domain.RoleAssistant {
		t.Fatalf("unexpected assistant role: %+v", result.AssistantTurn)
	}
	if result.AssistantTurn.Content != "Make a blue button" {
		t.Fatalf("assistant content must echo the request, got %q", result.AssistantTurn.Content)
	}
	if result.AssistantTurn.Timestamp.Before(result.UserTurn.Timestamp) {
		t.Fatalf("assistant timestamp precedes user timestamp")
	}
	if result.AssistantTurn.Artifact == nil {
		t.Fatalf("expected assistant artifact")
	}
	want := domain.Artifact{Markup: "<button>Click</button>", Style: ".button{color:blue;}"}
	if *result.AssistantTurn.Artifact != want {
		t.Fatalf("unexpected artifact: %+v", *result.AssistantTurn.Artifact)
	}

	reloaded, err := st.GetSession(ctx, "u1", session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(reloaded.Transcript) != 2 {
		t.Fatalf("expected transcript length 2, got %d", len(reloaded.Transcript))
	}
	if reloaded.Transcript[0].Role != domain.RoleUser || reloaded.Transcript[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected turn order: %+v", reloaded.Transcript)
	}
	if reloaded.CurrentArtifact != want {
		t.Fatalf("current artifact must equal the assistant turn's artifact: %+v", reloaded.CurrentArtifact)
	}
}

func TestSubmitTurnGrowsTranscriptByTwo(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p>a</p>\n\nCSS:\n.p{}"}
	svc, st := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if _, err := svc.SubmitTurn(ctx, "u1", session.ID, fmt.Sprintf("request %d", i), ""); err != nil {
			t.Fatalf("SubmitTurn %d failed: %v", i, err)
		}
		reloaded, err := st.GetSession(ctx, "u1", session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if len(reloaded.Transcript) != i*2 {
			t.Fatalf("expected %d turns after %d submissions, got %d", i*2, i, len(reloaded.Transcript))
		}
	}
}

func TestSubmitTurnBackendErrorLeavesSessionUnchanged(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: rate limited", domain.ErrBackend)}
	svc, st := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.SubmitTurn(ctx, "u1", session.ID, "Make a button", "")
	if !errors.Is(err, domain.ErrBackend) {
		t.Fatalf("expected backend error, got: %v", err)
	}

	reloaded, err := st.GetSession(ctx, "u1", session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(reloaded.Transcript) != 0 {
		t.Fatalf("backend failure must not persist turns, got %d", len(reloaded.Transcript))
	}
	if !reloaded.CurrentArtifact.IsEmpty() {
		t.Fatalf("backend failure must not touch current artifact")
	}
	if reloaded.Version != session.Version {
		t.Fatalf("backend failure must not bump version")
	}
}

func TestSubmitTurnEmptySubmission(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p/>"}
	svc, st := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.SubmitTurn(ctx, "u1", session.ID, "", "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("empty submission must not reach the backend")
	}

	reloaded, err := st.GetSession(ctx, "u1", session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if reloaded.Version != session.Version || len(reloaded.Transcript) != 0 {
		t.Fatalf("empty submission must not write to the store")
	}
}

func TestSubmitTurnImageOnlyIsValid(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<img/>\n\nCSS:\n.i{}"}
	svc, _ := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.SubmitTurn(ctx, "u1", session.ID, "", "http://localhost/uploads/x.png")
	if err != nil {
		t.Fatalf("SubmitTurn failed: %v", err)
	}
	if result.UserTurn.Image != "http://localhost/uploads/x.png" {
		t.Fatalf("expected image reference on user turn: %+v", result.UserTurn)
	}
	if result.AssistantTurn.Image != "" {
		t.Fatalf("assistant turn must not carry an image")
	}
}

func TestSubmitTurnEmptyArtifactOmittedFromTurn(t *testing.T) {
	gen := &stubGenerator{raw: "sorry, no code"}
	svc, st := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	result, err := svc.SubmitTurn(ctx, "u1", session.ID, "gibberish", "")
	if err != nil {
		t.Fatalf("SubmitTurn failed: %v", err)
	}
	if result.AssistantTurn.Artifact != nil {
		t.Fatalf("empty generation result must not attach an artifact to the turn")
	}

	// The current-artifact pointer is still replaced, now empty.
	reloaded, err := st.GetSession(ctx, "u1", session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !reloaded.CurrentArtifact.IsEmpty() {
		t.Fatalf("expected empty current artifact: %+v", reloaded.CurrentArtifact)
	}
	if len(reloaded.Transcript) != 2 {
		t.Fatalf("turns are still appended on empty artifacts")
	}
}

func TestSubmitTurnWrongOwner(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p/>"}
	svc, _ := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.SubmitTurn(ctx, "u2", session.ID, "steal it", "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("wrong owner must look like not found, got: %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("ownership failure must not reach the backend")
	}
}

func TestSubmitTurnInvalidID(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p/>"}
	svc, _ := newTestService(t, gen)

	_, err := svc.SubmitTurn(context.Background(), "u1", "not-a-uuid", "hello", "")
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected invalid id, got: %v", err)
	}
}

func TestSubmitTurnNoIdentity(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p/>"}
	svc, _ := newTestService(t, gen)

	_, err := svc.SubmitTurn(context.Background(), "", "00000000-0000-0000-0000-000000000000", "hello", "")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got: %v", err)
	}
}

// conflictingStore wraps a Store and fails the first n ReplaceSession
// calls with a conflict, simulating a concurrent writer.
type conflictingStore struct {
	store.Store
	remaining int
}

func (c *conflictingStore) ReplaceSession(ctx context.Context, ownerID, id string, expectedVersion int64, patch domain.SessionPatch) (*domain.Session, error) {
	if c.remaining > 0 {
		c.remaining--
		// Advance the real session so the retry sees a new version.
		bumped := "bumped by concurrent writer"
		if _, err := c.Store.ReplaceSession(ctx, ownerID, id, 0, domain.SessionPatch{Name: &bumped}); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: injected", domain.ErrConflict)
	}
	return c.Store.ReplaceSession(ctx, ownerID, id, expectedVersion, patch)
}

func TestSubmitTurnRetriesOnConflict(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p>ok</p>\n\nCSS:\n.p{}"}
	base := helpers.NewTestSQLiteStore(t)
	st := &conflictingStore{Store: base, remaining: 2}
	svc := New(st, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "racy")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := svc.SubmitTurn(ctx, "u1", session.ID, "keep trying", ""); err != nil {
		t.Fatalf("SubmitTurn failed: %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("generation must run exactly once across retries, ran %d times", gen.calls)
	}

	reloaded, err := base.GetSession(ctx, "u1", session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(reloaded.Transcript) != 2 {
		t.Fatalf("expected appended turns after retry, got %d", len(reloaded.Transcript))
	}
}

func TestSubmitTurnGivesUpAfterRetries(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p/>"}
	base := helpers.NewTestSQLiteStore(t)
	st := &conflictingStore{Store: base, remaining: maxSubmitRetries + 1}
	svc := New(st, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "hopeless")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	_, err = svc.SubmitTurn(ctx, "u1", session.ID, "never lands", "")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict after exhausted retries, got: %v", err)
	}

	reloaded, err := base.GetSession(ctx, "u1", session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(reloaded.Transcript) != 0 {
		t.Fatalf("exhausted retries must not append turns")
	}
}

func TestSubmitTurnTimestampsAreRecent(t *testing.T) {
	gen := &stubGenerator{raw: "JSX:\n<p/>"}
	svc, _ := newTestService(t, gen)
	ctx := context.Background()

	session, err := svc.CreateSession(ctx, "u1", "test")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	before := time.Now().UTC()
	result, err := svc.SubmitTurn(ctx, "u1", session.ID, "now", "")
	if err != nil {
		t.Fatalf("SubmitTurn failed: %v", err)
	}
	after := time.Now().UTC()

	if result.UserTurn.Timestamp.Before(before) || result.UserTurn.Timestamp.After(after) {
		t.Fatalf("user timestamp out of range: %v", result.UserTurn.Timestamp)
	}
}
