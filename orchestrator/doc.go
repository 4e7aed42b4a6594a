// Package orchestrator implements the query coordination layer for LexChat.
//
// The Orchestrator serves as the central hub for one conversation: it accepts
// a question, appends the user turn, builds a fresh history projection,
// dispatches the request over the selected delivery strategy, reconciles the
// evidence payload and appends the resulting assistant (or error) turn. It
// owns the busy/idle state machine that guarantees at most one submission is
// in flight per conversation, and it is the sole writer of the transcript.
//
// # Responsibilities (abridged)
//   - Submission lifecycle (validate, append, dispatch, merge, append)
//   - Failure conversion (classified transport errors become error turns)
//   - Query accounting (successful submission counter)
//   - Transcript ownership (single-writer discipline over the store)
package orchestrator
