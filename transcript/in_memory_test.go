package transcript

import (
	"testing"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/internal/testutil"
)

// Interface compliance (compile-time assertion)
var _ core.ConversationStore = (*InMemoryStore)(nil)

func TestInMemoryStore_AppendAndGet(t *testing.T) {
	s := NewInMemoryStore()
	if err := s.AppendTurn("c1", core.NewUserTurn("hello")); err != nil {
		t.Fatalf("append: %v", err)
	}
	c, err := s.Get("c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 turn, got %d", c.Len())
	}

	// The returned conversation is a clone; appends to it must not leak back.
	c.Append(core.NewAssistantTurn("hi", nil, 0))
	again, _ := s.Get("c1")
	if again.Len() != 1 {
		t.Error("store should hand out clones")
	}
}

func TestInMemoryStore_HistoryProjection(t *testing.T) {
	s := NewInMemoryStore()
	conv := testutil.NewConversationBuilder("c1").
		User("what is the notice period?").
		Assistant("30 days.").
		Error("Query timed out. The backend may be under load.").
		Build()
	for _, turn := range conv.GetTurns() {
		if err := s.AppendTurn("c1", turn); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := s.Get("c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	history := got.History()
	if len(history) != 2 {
		t.Fatalf("expected error turns excluded from history, got %d messages", len(history))
	}
	if history[1].Role != core.RoleAssistant {
		t.Errorf("unexpected history tail role %q", history[1].Role)
	}
}

func TestInMemoryStore_Clear(t *testing.T) {
	s := NewInMemoryStore()
	_ = s.AppendTurn("c1", core.NewUserTurn("q"))
	_ = s.AppendTurn("c1", core.NewErrorTurn("e"))
	if err := s.Clear("c1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	c, _ := s.Get("c1")
	if c.Len() != 0 {
		t.Errorf("expected empty transcript, got %d", c.Len())
	}
}
