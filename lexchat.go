// Package lexchat provides a high-level façade over the query orchestration
// and evidence reconciliation layer for a legal-document question-answering
// backend. Most applications interact with this package by:
//  1. Creating a Chat via New() pointed at the backend base URL (optionally
//     overriding the store, delivery strategy or logger)
//  2. Probing backend readiness once via RefreshStatus (failures are
//     advisory; submissions stay available in degraded mode)
//  3. Submitting questions and rendering the resulting transcript turns,
//     each assistant turn carrying its reconciled evidence package
//
// The façade delegates coordination to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for local
// development; production deployments typically supply a structured logger.
package lexchat

import (
	"context"
	"sync"
	"time"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/logging"
	"github.com/lexchat/lexchat/orchestrator"
	"github.com/lexchat/lexchat/transcript"
	"github.com/lexchat/lexchat/transport"
)

// Options configure the Chat instance.
type Options struct {
	// Strategy overrides the delivery path (e.g. a duplex.Submitter). When
	// nil a request/response transport.Client for BaseURL is used.
	Strategy orchestrator.Submitter

	// Timeout bounds each submission on the default transport strategy.
	Timeout time.Duration

	// Store holds conversation transcripts (defaults to in-memory).
	Store core.ConversationStore

	// ConversationID selects the transcript. Defaults to a fresh ID.
	ConversationID string

	// IncludeEvidence requests the technical evidence payload with every
	// answer. Enabled by default.
	IncludeEvidence bool

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// Chat is the high-level façade aggregating the transport, the conversation
// store and the orchestration state machine, plus the explicitly owned
// SystemStatus snapshot.
type Chat struct {
	client *transport.Client
	orch   *orchestrator.Orchestrator
	logger logging.Logger

	statusMu sync.RWMutex
	status   *core.SystemStatus
}

// New creates a Chat talking to the backend at baseURL with optional
// overrides. Any unset service is initialized with a sensible default.
func New(baseURL string, optFns ...func(o *Options)) *Chat {
	opts := Options{
		Timeout:         transport.DefaultTimeout,
		Store:           transcript.NewInMemoryStore(),
		ConversationID:  core.NewID(),
		IncludeEvidence: true,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := transport.NewClient(baseURL, func(o *transport.Options) {
		o.Timeout = opts.Timeout
		o.Logger = opts.Logger
	})

	strategy := opts.Strategy
	if strategy == nil {
		strategy = client
	}

	orch := orchestrator.New(strategy, func(o *orchestrator.Options) {
		o.Store = opts.Store
		o.ConversationID = opts.ConversationID
		o.IncludeEvidence = opts.IncludeEvidence
		o.Logger = opts.Logger
	})

	return &Chat{client: client, orch: orch, logger: opts.Logger}
}

// Submit forwards a question through the orchestrator. See
// orchestrator.Orchestrator.Submit for the full contract.
func (c *Chat) Submit(ctx context.Context, question string) (*core.Turn, error) {
	return c.orch.Submit(ctx, question)
}

// Turns returns the conversation transcript in insertion order.
func (c *Chat) Turns() []core.Turn { return c.orch.Turns() }

// Clear removes every turn from the transcript.
func (c *Chat) Clear() error { return c.orch.Clear() }

// Busy reports whether a submission is in flight.
func (c *Chat) Busy() bool { return c.orch.Busy() }

// QueryCount returns the number of successfully completed submissions.
func (c *Chat) QueryCount() int { return c.orch.QueryCount() }

// RefreshStatus probes the backend health endpoint and replaces the owned
// SystemStatus snapshot wholesale. On failure a degraded snapshot recording
// the error is stored and the error returned; this is advisory only — the
// user may keep submitting questions even when the probe failed.
func (c *Chat) RefreshStatus(ctx context.Context) (*core.SystemStatus, error) {
	status, err := c.client.FetchHealth(ctx)
	if err != nil {
		c.logger.Warn("health probe failed", "error", err)
		status = &core.SystemStatus{
			Ready:     false,
			LastError: err.Error(),
			CheckedAt: time.Now().UTC(),
		}
		c.setStatus(status)
		return status, err
	}
	c.setStatus(status)
	return status, nil
}

// Status returns the last SystemStatus snapshot, or nil when no probe has
// run yet. The value is point-in-time; call RefreshStatus to update it.
func (c *Chat) Status() *core.SystemStatus {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

func (c *Chat) setStatus(s *core.SystemStatus) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status = s
}
