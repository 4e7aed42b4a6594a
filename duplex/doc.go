// Package duplex implements the persistent bidirectional delivery path for
// LexChat: a websocket channel over which questions are sent and answers
// arrive as JSON frames.
//
// The channel is an independent capability alongside the request/response
// transport, not a subtype of it. Its lifecycle is
// Idle → Connecting → Open → Closing → Closed, with Errored reachable from
// Connecting and Open. A malformed inbound frame is logged and dropped, never
// fatal; sending on a channel that is not open signals an error instead of
// panicking; disconnecting is idempotent and releases the underlying
// connection exactly once.
//
// Submitter adapts the channel to the orchestrator's delivery strategy so
// the two paths stay interchangeable.
package duplex
