package duplex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newWSServer starts a websocket endpoint driving each accepted connection
// through handler. The returned URL uses the ws scheme.
func newWSServer(t *testing.T, handler func(conn *websocket.Conn)) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

// keepOpen blocks the server side until the peer goes away.
func keepOpen(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func TestChannel_ConnectReachesOpen(t *testing.T) {
	_, url := newWSServer(t, keepOpen)

	ch := NewChannel(url)
	assert.Equal(t, StateIdle, ch.State())

	require.NoError(t, ch.Connect(context.Background()))
	assert.Equal(t, StateOpen, ch.State())
	assert.True(t, ch.IsOpen())

	ch.Disconnect()
	assert.Equal(t, StateClosed, ch.State())
}

func TestChannel_ConnectFailureBeforeOpen(t *testing.T) {
	// Plain HTTP endpoint: the upgrade handshake fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	ch := NewChannel("ws" + strings.TrimPrefix(srv.URL, "http"))
	err := ch.Connect(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateErrored, ch.State())
}

func TestChannel_SendWhenNotOpenSignalsError(t *testing.T) {
	ch := NewChannel("ws://127.0.0.1:0/ws")
	err := ch.Send(OutboundFrame{Question: "q"})
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestChannel_MalformedFrameIsDroppedNotFatal(t *testing.T) {
	_, url := newWSServer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte("{not json"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"response","answer":"still alive"}`))
		keepOpen(conn)
	})

	frames := make(chan InboundFrame, 4)
	ch := NewChannel(url, func(o *Options) {
		o.OnMessage = func(f InboundFrame) { frames <- f }
	})
	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	select {
	case f := <-frames:
		assert.Equal(t, "still alive", f.Answer, "the malformed frame must be skipped, not delivered")
	case <-time.After(2 * time.Second):
		t.Fatal("expected the well-formed frame to arrive after the malformed one")
	}
	assert.True(t, ch.IsOpen(), "one malformed frame must not terminate the channel")
}

func TestChannel_DisconnectIsIdempotent(t *testing.T) {
	_, url := newWSServer(t, keepOpen)

	var closeNotifications atomic.Int32
	ch := NewChannel(url, func(o *Options) {
		o.OnClose = func() { closeNotifications.Add(1) }
	})
	require.NoError(t, ch.Connect(context.Background()))

	ch.Disconnect()
	ch.Disconnect()
	ch.Disconnect()

	assert.Equal(t, StateClosed, ch.State())

	// The read loop observes the deliberate close asynchronously; it must not
	// add a second notification.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), closeNotifications.Load(), "exactly one close notification")
}

func TestChannel_DisconnectDuringDialStaysClosed(t *testing.T) {
	// The upgrade is delayed so the channel sits in Connecting long enough
	// for a concurrent Disconnect; the late dial result must not reopen it.
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		keepOpen(conn)
	}))
	t.Cleanup(srv.Close)

	ch := NewChannel("ws" + strings.TrimPrefix(srv.URL, "http"))
	errCh := make(chan error, 1)
	go func() { errCh <- ch.Connect(context.Background()) }()

	require.Eventually(t, func() bool { return ch.State() == StateConnecting }, time.Second, 5*time.Millisecond)
	ch.Disconnect()

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("connect did not return after disconnect")
	}
	assert.Equal(t, StateClosed, ch.State())
	assert.ErrorIs(t, ch.Send(OutboundFrame{Question: "q"}), ErrNotOpen)
}

func TestChannel_ServerCloseFiresErrorAndCloseOnce(t *testing.T) {
	_, url := newWSServer(t, func(conn *websocket.Conn) {
		conn.Close()
	})

	var errs, closes atomic.Int32
	ch := NewChannel(url, func(o *Options) {
		o.OnError = func(error) { errs.Add(1) }
		o.OnClose = func() { closes.Add(1) }
	})
	require.NoError(t, ch.Connect(context.Background()))

	assert.Eventually(t, func() bool { return ch.State() == StateErrored }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), errs.Load())
	assert.Equal(t, int32(1), closes.Load())

	assert.ErrorIs(t, ch.Send(OutboundFrame{Question: "q"}), ErrNotOpen)
}

func TestChannel_SendDeliversFrame(t *testing.T) {
	received := make(chan OutboundFrame, 1)
	_, url := newWSServer(t, func(conn *websocket.Conn) {
		var f OutboundFrame
		if err := conn.ReadJSON(&f); err == nil {
			received <- f
		}
		keepOpen(conn)
	})

	ch := NewChannel(url)
	require.NoError(t, ch.Connect(context.Background()))
	defer ch.Disconnect()

	require.NoError(t, ch.Send(OutboundFrame{Question: "What are the working hour limits?", IncludeEvidence: true}))

	select {
	case f := <-received:
		assert.Equal(t, "What are the working hour limits?", f.Question)
		assert.True(t, f.IncludeEvidence)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the outbound frame")
	}
}
