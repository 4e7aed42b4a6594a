package duplex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/logging"
	"github.com/lexchat/lexchat/transport"
)

// State describes the channel lifecycle.
type State int

const (
	// StateIdle means the channel has never been connected.
	StateIdle State = iota
	// StateConnecting means the dial is in progress.
	StateConnecting
	// StateOpen means frames can be sent and received.
	StateOpen
	// StateClosing means a disconnect is in progress.
	StateClosing
	// StateClosed means the channel has been shut down.
	StateClosed
	// StateErrored means the connection failed while connecting or open.
	StateErrored
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ErrNotOpen is the signaled failure for Send on a channel that is not open.
var ErrNotOpen = errors.New("duplex channel is not open")

// InboundFrame is one JSON message delivered by the backend. Answer frames
// mirror the request/response shape; processing frames are interim progress
// notices; a non-empty Error marks a backend-declared failure.
type InboundFrame struct {
	Type             string                      `json:"type,omitempty"`
	Answer           string                      `json:"answer,omitempty"`
	Message          string                      `json:"message,omitempty"`
	SessionID        string                      `json:"session_id,omitempty"`
	Timestamp        string                      `json:"timestamp,omitempty"`
	ProcessingTime   float64                     `json:"processing_time,omitempty"`
	TechnicalDetails *transport.TechnicalDetails `json:"technical_details,omitempty"`
	Error            string                      `json:"error,omitempty"`
}

// IsTerminal reports whether the frame completes an outstanding question
// (an answer or a backend-declared failure).
func (f InboundFrame) IsTerminal() bool { return f.Error != "" || f.Type == "response" }

// OutboundFrame is one JSON message sent to the backend.
type OutboundFrame struct {
	Question        string         `json:"question"`
	IncludeEvidence bool           `json:"include_technical_details,omitempty"`
	Messages        []core.Message `json:"messages,omitempty"`
}

// Options configure the Channel.
type Options struct {
	// Dialer overrides the websocket dialer (tests, custom TLS).
	Dialer *websocket.Dialer
	// Logger receives channel observability. Defaults to NoOp.
	Logger logging.Logger
	// OnMessage is invoked for every well-formed inbound frame. Callbacks
	// run on the read loop goroutine, each handled to completion before the
	// next frame is dispatched.
	OnMessage func(InboundFrame)
	// OnError is invoked when the connection fails while connecting or open.
	OnError func(error)
	// OnClose is invoked exactly once when the channel stops delivering
	// frames, whether by Disconnect or by a connection failure.
	OnClose func()
}

// Channel is a websocket client for the backend's duplex endpoint. Its
// lifecycle is independent of the request/response transport.
type Channel struct {
	url    string
	dialer *websocket.Dialer
	logger logging.Logger

	onMessage func(InboundFrame)
	onError   func(error)
	onClose   func()

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	releaseOnce sync.Once
	notifyOnce  sync.Once
}

// NewChannel creates a Channel for the given websocket URL (e.g.
// "ws://localhost:8000/ws") with optional overrides.
func NewChannel(url string, optFns ...func(o *Options)) *Channel {
	opts := Options{
		Dialer: websocket.DefaultDialer,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Channel{
		url:       url,
		dialer:    opts.Dialer,
		logger:    opts.Logger,
		onMessage: opts.OnMessage,
		onError:   opts.OnError,
		onClose:   opts.OnClose,
		state:     StateIdle,
	}
}

// Connect dials the backend and resolves once the channel is open. It fails
// if the underlying connection raises an error before opening.
func (c *Channel) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateOpen:
		c.mu.Unlock()
		return nil
	case StateConnecting:
		c.mu.Unlock()
		return errors.New("duplex channel is already connecting")
	case StateClosing, StateClosed:
		c.mu.Unlock()
		return errors.New("duplex channel has been closed")
	}
	c.state = StateConnecting
	c.mu.Unlock()

	conn, resp, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.mu.Lock()
		c.state = StateErrored
		c.mu.Unlock()
		if resp != nil {
			resp.Body.Close()
		}
		return fmt.Errorf("connecting duplex channel: %w", err)
	}

	c.mu.Lock()
	if c.state != StateConnecting {
		// Disconnect raced the dial; the fresh connection is released here
		// because releaseOnce already fired with no conn attached.
		c.mu.Unlock()
		_ = conn.Close()
		return errors.New("duplex channel closed during connect")
	}
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	c.logger.Info("duplex channel open", "url", c.url)
	go c.readLoop(conn)
	return nil
}

// readLoop delivers inbound frames until the connection stops. It runs on a
// single goroutine, serializing callbacks.
func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleReadFailure(err)
			return
		}

		var frame InboundFrame
		if jsonErr := json.Unmarshal(data, &frame); jsonErr != nil {
			// One malformed frame must not terminate the channel.
			c.logger.Warn("dropping malformed duplex frame", "error", jsonErr)
			continue
		}
		if c.onMessage != nil {
			c.onMessage(frame)
		}
	}
}

// handleReadFailure resolves a read error into either a quiet shutdown (the
// close was requested locally) or an Errored transition with callbacks.
func (c *Channel) handleReadFailure(err error) {
	c.mu.Lock()
	deliberate := c.state == StateClosing || c.state == StateClosed
	if !deliberate {
		c.state = StateErrored
	}
	c.mu.Unlock()

	if !deliberate {
		c.logger.Warn("duplex channel failed", "error", err)
		if c.onError != nil {
			c.onError(err)
		}
	}
	c.notifyClosed()
}

// Send writes an outbound frame. When the channel is not open it returns
// ErrNotOpen without side effects; callers check IsOpen or handle the
// signaled failure.
func (c *Channel) Send(frame OutboundFrame) error {
	c.mu.Lock()
	conn, state := c.conn, c.state
	c.mu.Unlock()

	if state != StateOpen || conn == nil {
		return ErrNotOpen
	}
	if err := conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("sending duplex frame: %w", err)
	}
	return nil
}

// Disconnect transitions unconditionally to Closed. It is idempotent: the
// underlying connection is released exactly once and only one close
// notification is issued no matter how many times it is called.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	if c.state != StateClosed {
		c.state = StateClosing
	}
	c.mu.Unlock()

	c.releaseOnce.Do(func() {
		if conn != nil {
			_ = conn.Close()
		}
	})

	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()

	c.notifyClosed()
	c.logger.Debug("duplex channel closed", "url", c.url)
}

// notifyClosed fires the close callback at most once per channel lifetime.
func (c *Channel) notifyClosed() {
	c.notifyOnce.Do(func() {
		if c.onClose != nil {
			c.onClose()
		}
	})
}

// IsOpen reports whether frames can currently be sent.
func (c *Channel) IsOpen() bool { return c.State() == StateOpen }

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
