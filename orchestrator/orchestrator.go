package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/evidence"
	"github.com/lexchat/lexchat/logging"
	"github.com/lexchat/lexchat/transcript"
	"github.com/lexchat/lexchat/transport"
)

// State describes the orchestrator's submission state machine.
type State int

const (
	// StateIdle means no submission is in flight; Submit is accepted.
	StateIdle State = iota
	// StateSubmitting means one submission is in flight; further Submit
	// calls are rejected until it completes.
	StateSubmitting
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// ErrBusy is returned when Submit is called while a submission is already in
// flight. No turn is appended and no network call is made.
var ErrBusy = errors.New("a submission is already in flight")

// Submitter is the delivery strategy the orchestrator dispatches through.
// transport.Client and duplex.Submitter both satisfy it; the two paths are
// independent capabilities, not a shared hierarchy.
type Submitter interface {
	SubmitQuery(ctx context.Context, question string, history []core.Message, includeEvidence bool) (*transport.QueryResponse, error)
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Store holds the conversation transcript. Defaults to an in-memory
	// store.
	Store core.ConversationStore
	// ConversationID selects the transcript this orchestrator owns.
	ConversationID string
	// IncludeEvidence requests the technical evidence payload with every
	// answer.
	IncludeEvidence bool
	// Logger receives orchestration observability. Defaults to NoOp.
	Logger logging.Logger
}

// Orchestrator coordinates submit → transcript update → dispatch → result
// merge → transcript update for a single conversation. Public methods are
// safe for concurrent use, but the design expects one logical caller; a
// concurrent second Submit is rejected with ErrBusy rather than queued.
type Orchestrator struct {
	client          Submitter
	store           core.ConversationStore
	conversationID  string
	includeEvidence bool
	logger          logging.Logger

	mu         sync.Mutex
	state      State
	queryCount int
}

// New constructs an Orchestrator dispatching through the given strategy.
func New(client Submitter, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Store:           transcript.NewInMemoryStore(),
		ConversationID:  core.NewID(),
		IncludeEvidence: true,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		client:          client,
		store:           opts.Store,
		conversationID:  opts.ConversationID,
		includeEvidence: opts.IncludeEvidence,
		logger:          opts.Logger,
	}
}

// Submit runs one full submission: the history projection is rebuilt fresh
// from the transcript (error turns excluded), the trimmed question is
// appended as a user turn before any network activity, and the response is
// merged back as an assistant turn carrying the reconciled evidence package.
//
// A whitespace-only question is a silent no-op: no turn, no call, nil result.
// While a submission is in flight further calls return ErrBusy untouched.
// A failed call appends an error-role turn with the classified user message
// and returns both that turn and the error; the orchestrator is then Idle
// again and accepts the next Submit.
func (o *Orchestrator) Submit(ctx context.Context, question string) (*core.Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, nil
	}

	o.mu.Lock()
	if o.state == StateSubmitting {
		o.mu.Unlock()
		o.logger.Debug("submit rejected while busy", "conversation_id", o.conversationID)
		return nil, ErrBusy
	}
	o.state = StateSubmitting
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.state = StateIdle
		o.mu.Unlock()
	}()

	// The history projection is rebuilt fresh for every request and carries
	// the prior context only; the new question travels in its own field.
	conv, err := o.store.Get(o.conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}
	history := conv.History()

	userTurn := core.NewUserTurn(question)
	if err := o.store.AppendTurn(o.conversationID, userTurn); err != nil {
		return nil, fmt.Errorf("failed to append user turn: %w", err)
	}

	o.logger.Info("dispatching query", "conversation_id", o.conversationID, "history_len", len(history))

	resp, err := o.client.SubmitQuery(ctx, question, history, o.includeEvidence)
	if err != nil {
		errTurn := core.NewErrorTurn(failureMessage(err))
		if appendErr := o.store.AppendTurn(o.conversationID, errTurn); appendErr != nil {
			o.logger.Error("failed to append error turn", "error", appendErr)
		}
		o.logger.Warn("query failed", "conversation_id", o.conversationID, "error", err)
		return &errTurn, err
	}

	turn := core.NewAssistantTurn(resp.Answer, evidence.Reconcile(resp.TechnicalDetails), resp.ProcessingTime)
	if err := o.store.AppendTurn(o.conversationID, turn); err != nil {
		return nil, fmt.Errorf("failed to append assistant turn: %w", err)
	}

	o.mu.Lock()
	o.queryCount++
	o.mu.Unlock()

	o.logger.Info("query completed", "conversation_id", o.conversationID, "elapsed_seconds", resp.ProcessingTime)
	return &turn, nil
}

// Turns returns the current transcript in insertion order.
func (o *Orchestrator) Turns() []core.Turn {
	conv, err := o.store.Get(o.conversationID)
	if err != nil {
		o.logger.Error("failed to load conversation", "error", err)
		return nil
	}
	return conv.GetTurns()
}

// Clear removes every turn from the transcript. The query counter is a
// lifetime statistic and is not reset.
func (o *Orchestrator) Clear() error {
	return o.store.Clear(o.conversationID)
}

// State returns the current submission state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Busy reports whether a submission is currently in flight.
func (o *Orchestrator) Busy() bool { return o.State() == StateSubmitting }

// QueryCount returns the number of successfully completed submissions. Failed
// submissions do not count.
func (o *Orchestrator) QueryCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.queryCount
}

// ConversationID returns the transcript identifier this orchestrator owns.
func (o *Orchestrator) ConversationID() string { return o.conversationID }

// failureMessage derives the human-readable error turn content from a
// classified failure, falling back to a generic message for anything that
// escaped classification.
func failureMessage(err error) string {
	if te, ok := transport.AsError(err); ok {
		return te.UserMessage()
	}
	return fmt.Sprintf("Query failed: %v", err)
}
