// Package domain defines the entities and the error taxonomy shared by every
// component of the client.
//
// The taxonomy matters: a ValidationError never reached the network, a
// RequestError carries the server's application-level rejection verbatim, and
// a TransportError means no response was obtained at all. Callers branch with
// errors.As before touching any returned value.
package domain

import "fmt"

// ValidationError reports a local precondition failure. Operations fail fast
// with one of these before any network call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthError is a rejected sign-in. Message is the server-supplied reason.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// RequestError is an application-level rejection (HTTP 400 family) with the
// backend's human-readable message carried verbatim. It triggers no local
// state mutation.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request rejected (%d): %s", e.StatusCode, e.Message)
}

// TransportError means the request produced no response: connection refused,
// DNS failure, timeout. It is distinct from RequestError and must surface to
// the caller rather than being swallowed into a log line.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
