// Package core provides the foundational domain types and interfaces used by
// LexChat. It defines the core abstractions for:
//
//   - Turns (immutable transcript entries: user questions, assistant answers,
//     error annotations)
//   - Conversations (append-only transcript containers with history projection)
//   - Evidence (retrieved passages, heterogeneous relevance scores and token
//     accounting attached to assistant turns)
//   - SystemStatus (point-in-time backend readiness snapshot)
//   - A pluggable store for conversation transcripts
//
// The package intentionally keeps implementation concerns (transports, the
// orchestration state machine, concrete stores) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
