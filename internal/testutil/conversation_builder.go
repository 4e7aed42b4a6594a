package testutil

import (
	"github.com/lexchat/lexchat/core"
)

// ConversationBuilder helps construct conversations with fluent chaining for
// tests. Example:
//
//	conv := NewConversationBuilder("conv-1").User("hi").Assistant("hello").Build()
type ConversationBuilder struct {
	id    string
	turns []core.Turn
}

// NewConversationBuilder creates a new builder for a conversation with the
// given id. Use chainable methods (User, Assistant, Error, Turn) then call
// Build.
func NewConversationBuilder(id string) *ConversationBuilder {
	return &ConversationBuilder{id: id}
}

// User appends a user turn with the given content (chainable).
func (b *ConversationBuilder) User(content string) *ConversationBuilder {
	b.turns = append(b.turns, core.NewUserTurn(content))
	return b
}

// Assistant appends an assistant turn without evidence (chainable).
func (b *ConversationBuilder) Assistant(content string) *ConversationBuilder {
	b.turns = append(b.turns, core.NewAssistantTurn(content, nil, 0))
	return b
}

// AssistantWithEvidence appends an assistant turn carrying an evidence
// package (chainable).
func (b *ConversationBuilder) AssistantWithEvidence(content string, pkg *core.EvidencePackage, elapsed float64) *ConversationBuilder {
	b.turns = append(b.turns, core.NewAssistantTurn(content, pkg, elapsed))
	return b
}

// Error appends an error turn with the given message (chainable).
func (b *ConversationBuilder) Error(message string) *ConversationBuilder {
	b.turns = append(b.turns, core.NewErrorTurn(message))
	return b
}

// Turn appends an arbitrary pre-built turn (chainable).
func (b *ConversationBuilder) Turn(t core.Turn) *ConversationBuilder {
	b.turns = append(b.turns, t)
	return b
}

// Build returns a *core.Conversation with the accumulated turns appended in
// order.
func (b *ConversationBuilder) Build() *core.Conversation {
	c := core.NewConversation(b.id)
	for _, t := range b.turns {
		c.Append(t)
	}
	return c
}
