// Package domain defines the core domain models for the session service.
package domain

import "time"

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Artifact is a generated code unit: structural markup plus style code.
// Both fields may be empty strings, never null on the wire.
type Artifact struct {
	Markup string `json:"markup"`
	Style  string `json:"style"`
}

// IsEmpty reports whether both fields are empty. An empty artifact is
// "absent" for display purposes but remains distinct from a missing
// artifact field on a turn.
func (a Artifact) IsEmpty() bool {
	return a.Markup == "" && a.Style == ""
}

// ChatTurn is one entry in a session transcript.
// Image is only ever set on user turns; Artifact only on assistant turns,
// and only when generation produced a non-empty result.
type ChatTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Image     string    `json:"image,omitempty"`
	Artifact  *Artifact `json:"artifact,omitempty"`
}

// Session is a persisted conversation thread plus the latest generated
// artifact. Transcript is append-only from the orchestrator's perspective;
// CurrentArtifact caches the most recent assistant artifact so readers do
// not rescan the transcript.
type Session struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"ownerId"`
	Name            string     `json:"name"`
	Transcript      []ChatTurn `json:"transcript"`
	CurrentArtifact Artifact   `json:"currentArtifact"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SessionSummary is the list-view projection of a session. Transcripts are
// withheld to bound payload size.
type SessionSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SessionPatch carries the fields a replace may merge into a session.
// Nil fields are left untouched.
type SessionPatch struct {
	Name            *string    `json:"name"`
	Transcript      []ChatTurn `json:"transcript"`
	CurrentArtifact *Artifact  `json:"currentArtifact"`
}

// IsZero reports whether the patch carries no fields at all.
func (p SessionPatch) IsZero() bool {
	return p.Name == nil && p.Transcript == nil && p.CurrentArtifact == nil
}

// Prompt is a saved prompt-library entry: a prompt text and the artifact
// it last produced, keyed by exact prompt text.
type Prompt struct {
	Text      string    `json:"prompt"`
	Artifact  Artifact  `json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
