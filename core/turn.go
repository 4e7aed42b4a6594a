package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author category of a Turn. The set is closed: user
// questions, assistant answers and error annotations. Error turns are
// terminal, non-conversational markers and are never replayed to the backend
// as history.
type Role string

const (
	// RoleUser marks a turn authored by the human asking a question.
	RoleUser Role = "user"
	// RoleAssistant marks a turn carrying a backend answer.
	RoleAssistant Role = "assistant"
	// RoleError marks a failed submission annotation.
	RoleError Role = "error"
)

// Turn is one entry in the conversation transcript. After it has been
// appended to a Conversation it should be treated as immutable. It captures:
//
//   - Identity (unique ID, Role, creation timestamp)
//   - Conversational content (question or answer text; answers may contain
//     markdown)
//   - The reconciled evidence package justifying an answer (assistant only)
//   - Backend-reported processing time in seconds (assistant only)
type Turn struct {
	ID             string           `json:"id"`
	Role           Role             `json:"role"`
	Content        string           `json:"content"`
	CreatedAt      time.Time        `json:"created_at"`
	Evidence       *EvidencePackage `json:"evidence,omitempty"`
	ElapsedSeconds float64          `json:"elapsed_seconds,omitempty"`
}

// NewUserTurn creates a user-authored question turn.
func NewUserTurn(content string) Turn {
	return Turn{ID: NewID(), Role: RoleUser, Content: content, CreatedAt: time.Now().UTC()}
}

// NewAssistantTurn creates an answer turn carrying the reconciled evidence
// package and the backend-reported processing time.
func NewAssistantTurn(content string, evidence *EvidencePackage, elapsedSeconds float64) Turn {
	return Turn{
		ID:             NewID(),
		Role:           RoleAssistant,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
		Evidence:       evidence,
		ElapsedSeconds: elapsedSeconds,
	}
}

// NewErrorTurn creates a terminal error annotation with a human-readable
// message. Error turns are displayed but never included in history
// projections.
func NewErrorTurn(message string) Turn {
	return Turn{ID: NewID(), Role: RoleError, Content: message, CreatedAt: time.Now().UTC()}
}

// IsConversational reports whether the turn participates in the history
// projection sent to the backend.
func (t Turn) IsConversational() bool { return t.Role == RoleUser || t.Role == RoleAssistant }

// Message is one entry of the conversation history projection: the minimal
// {role, content} pair the backend consumes as prior context.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewID generates a new unique identifier for turns.
//
// Returns a string representation of a new UUID. Uniqueness is the only
// guarantee; ordering comes from transcript position, not from the ID.
func NewID() string { return uuid.NewString() }
