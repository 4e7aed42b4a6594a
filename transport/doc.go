// Package transport implements the request/response client for the legal
// question-answering backend. It issues query and health-check calls, applies
// a fixed timeout (the backend runs generation in the loop and is presumed
// slow) and normalizes every failure into a small error taxonomy so callers
// never see raw transport errors.
//
// The client performs no conversation bookkeeping: it never mutates the
// transcript, which is owned exclusively by the orchestrator.
package transport
