package transcript

import (
	"sync"

	"github.com/lexchat/lexchat/core"
)

// InMemoryStore is a volatile ConversationStore implementation keeping
// transcripts in a process local map. It is safe for concurrent access and
// suited to a chat front-end where persistence across restarts is not
// required. Each returned conversation is cloned to prevent external mutation
// of internal state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.Conversation
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.Conversation)}
}

// Get returns an existing conversation (clone) or creates a new one lazily.
func (s *InMemoryStore) Get(id string) (*core.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[id]; ok {
		return c.Clone(), nil
	}
	return s.createLocked(id).Clone(), nil
}

// Create forces the creation (or overwriting) of a conversation with the
// given id.
func (s *InMemoryStore) Create(id string) (*core.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(id).Clone(), nil
}

// AppendTurn adds a turn to an existing or newly created conversation.
func (s *InMemoryStore) AppendTurn(id string, t core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		c = s.createLocked(id)
	}
	c.Append(t)
	return nil
}

// Clear removes every turn from the conversation, creating it if absent.
func (s *InMemoryStore) Clear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		s.createLocked(id)
		return nil
	}
	c.Clear()
	return nil
}

// createLocked allocates and stores a new conversation; caller must already
// hold the write lock.
func (s *InMemoryStore) createLocked(id string) *core.Conversation {
	c := core.NewConversation(id)
	s.conversations[id] = c
	return c
}
