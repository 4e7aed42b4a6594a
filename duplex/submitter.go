package duplex

import (
	"context"
	"errors"
	"sync"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/transport"
)

// ErrPending is returned when a duplex submission is attempted while another
// one is still awaiting its answer frame.
var ErrPending = errors.New("a duplex request is already awaiting a response")

// Submitter adapts a Channel to the orchestrator's delivery strategy: a
// question goes out as one frame and the next terminal frame (answer or
// backend-declared error) resolves the call. Failures are classified into the
// same taxonomy the request/response transport uses, so the orchestrator
// treats both paths identically.
type Submitter struct {
	channel *Channel

	mu      sync.Mutex
	pending chan InboundFrame
}

// NewSubmitter creates a Submitter plus the Channel it routes over. Any
// caller-supplied OnMessage/OnClose callbacks keep firing after the
// submitter's own routing.
func NewSubmitter(url string, optFns ...func(o *Options)) *Submitter {
	s := &Submitter{}
	route := func(o *Options) {
		userMessage, userClose := o.OnMessage, o.OnClose
		o.OnMessage = func(f InboundFrame) {
			s.route(f)
			if userMessage != nil {
				userMessage(f)
			}
		}
		o.OnClose = func() {
			s.abortPending()
			if userClose != nil {
				userClose()
			}
		}
	}
	s.channel = NewChannel(url, append(optFns, route)...)
	return s
}

// Channel returns the underlying channel for lifecycle control
// (Connect/Disconnect).
func (s *Submitter) Channel() *Channel { return s.channel }

// SubmitQuery sends the question over the channel and waits for the next
// terminal frame or the context deadline. It satisfies the orchestrator's
// Submitter contract.
func (s *Submitter) SubmitQuery(ctx context.Context, question string, history []core.Message, includeEvidence bool) (*transport.QueryResponse, error) {
	if !s.channel.IsOpen() {
		return nil, &transport.Error{Kind: transport.KindUnreachable, Detail: "duplex channel is not open"}
	}

	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return nil, ErrPending
	}
	pending := make(chan InboundFrame, 1)
	s.pending = pending
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	}()

	frame := OutboundFrame{Question: question, IncludeEvidence: includeEvidence, Messages: history}
	if err := s.channel.Send(frame); err != nil {
		return nil, &transport.Error{Kind: transport.KindUnreachable, Detail: err.Error()}
	}

	select {
	case f, ok := <-pending:
		if !ok {
			return nil, &transport.Error{Kind: transport.KindUnreachable, Detail: "duplex channel closed while waiting for an answer"}
		}
		if f.Error != "" {
			return nil, &transport.Error{Kind: transport.KindRejected, Detail: f.Error}
		}
		return &transport.QueryResponse{
			Answer:           f.Answer,
			SessionID:        f.SessionID,
			Timestamp:        f.Timestamp,
			TechnicalDetails: f.TechnicalDetails,
			ProcessingTime:   f.ProcessingTime,
		}, nil
	case <-ctx.Done():
		return nil, &transport.Error{Kind: transport.KindTimeout, Detail: "no answer frame before the deadline"}
	}
}

// route hands terminal frames to the waiting submission; interim processing
// notices and unsolicited frames are ignored here (user callbacks still see
// them).
func (s *Submitter) route(f InboundFrame) {
	if !f.IsTerminal() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return
	}
	select {
	case s.pending <- f:
	default:
	}
}

// abortPending unblocks a waiting submission when the channel closes.
func (s *Submitter) abortPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		close(s.pending)
		s.pending = nil
	}
}
