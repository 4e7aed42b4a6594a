package core

import (
	"sync"
	"time"
)

// Conversation is an append-only transcript of turns. It is safe for
// concurrent access, though the orchestrator is expected to be the sole
// writer.
//
// Contract:
//   - Append preserves insertion order; turns are never reordered or mutated
//   - Turns returns a defensive copy to avoid external mutation
//   - History projects user/assistant turns into {role, content} pairs,
//     excluding error annotations, rebuilt fresh on every call
//   - Clear is the only operation that removes turns.
type Conversation struct {
	ID      string    `json:"id"`
	Turns   []Turn    `json:"turns"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	mu      sync.RWMutex
}

// NewConversation creates an empty conversation with the given ID.
func NewConversation(id string) *Conversation {
	now := time.Now()
	return &Conversation{ID: id, Turns: []Turn{}, Created: now, Updated: now}
}

// Append adds a turn to the end of the transcript updating the Updated
// timestamp.
func (c *Conversation) Append(t Turn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Turns = append(c.Turns, t)
	c.Updated = time.Now()
}

// GetTurns returns a copy of the full transcript to prevent callers from
// mutating internal state.
func (c *Conversation) GetTurns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()
	turns := make([]Turn, len(c.Turns))
	copy(turns, c.Turns)
	return turns
}

// Len returns the number of turns in the transcript.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Turns)
}

// History builds the conversation history projection suitable for providing
// context to the backend: user and assistant turns in transcript order with
// error annotations excluded. It is derived, never cached; callers must
// invoke it fresh for every outgoing request.
func (c *Conversation) History() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make([]Message, 0, len(c.Turns))
	for _, t := range c.Turns {
		if !t.IsConversational() {
			continue
		}
		res = append(res, Message{Role: t.Role, Content: t.Content})
	}
	return res
}

// Clear removes all turns. The conversation identity is retained.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Turns = c.Turns[:0]
	c.Updated = time.Now()
}

// Clone returns a deep copy of the conversation safe for independent
// mutation.
func (c *Conversation) Clone() *Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Conversation{ID: c.ID, Turns: make([]Turn, len(c.Turns)), Created: c.Created, Updated: c.Updated}
	copy(clone.Turns, c.Turns)
	return clone
}

// ConversationStore persists conversations and their transcripts.
type ConversationStore interface {
	Create(id string) (*Conversation, error)
	Get(id string) (*Conversation, error)
	AppendTurn(conversationID string, t Turn) error
	Clear(conversationID string) error
}
