package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a failed backend call. Every failure surfaced by this
// package carries exactly one kind; callers branch on the kind, not on the
// underlying transport error.
type ErrorKind int

const (
	// KindServiceUnavailable means the backend reported itself temporarily
	// down (HTTP 503).
	KindServiceUnavailable ErrorKind = iota
	// KindInternalServiceError means the backend reported a fault (other 5xx).
	KindInternalServiceError
	// KindTimeout means no response arrived within the configured bound.
	KindTimeout
	// KindUnreachable means no response reached the client at all.
	KindUnreachable
	// KindRejected means the backend returned a declared validation/detail
	// error; its detail text is passed through verbatim.
	KindRejected
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindInternalServiceError:
		return "internal_service_error"
	case KindTimeout:
		return "timeout"
	case KindUnreachable:
		return "unreachable"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Error is the classified failure type returned by Client and by the duplex
// submitter. Detail carries the backend-supplied message when one exists.
type Error struct {
	Kind   ErrorKind
	Detail string
	cause  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return e.Kind.String()
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.cause }

// UserMessage returns the fixed user-facing message for the kind. Rejected
// errors pass the backend detail through verbatim when present.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindServiceUnavailable:
		return "The answer service is temporarily unavailable. Please try again later."
	case KindInternalServiceError:
		return "The answer service reported an internal error. Please contact the administrator."
	case KindTimeout:
		return "The request timed out. Please check your network connection and try again."
	case KindUnreachable:
		return "Unable to reach the answer service. Please check that the backend is running."
	case KindRejected:
		if e.Detail != "" {
			return e.Detail
		}
		return "The answer service rejected the request."
	default:
		return "The request failed. Please try again."
	}
}

// AsError extracts a classified *Error from err, if any.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// classifyStatus maps a non-2xx HTTP status plus optional backend detail text
// to an error kind.
func classifyStatus(status int, detail string) *Error {
	switch {
	case status == http.StatusServiceUnavailable:
		return &Error{Kind: KindServiceUnavailable, Detail: detail}
	case status >= 500:
		return &Error{Kind: KindInternalServiceError, Detail: detail}
	default:
		return &Error{Kind: KindRejected, Detail: detail}
	}
}

// classifyTransport maps a client-side call failure (no HTTP response) to
// Timeout or Unreachable.
func classifyTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, cause: err}
	}
	return &Error{Kind: KindUnreachable, cause: err}
}
