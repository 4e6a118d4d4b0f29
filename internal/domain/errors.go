// Package domain provides core types for the content revision agent.
package domain

import "fmt"

// ConfigurationError indicates missing or ambiguous credentials/configuration.
// Fatal, never retried: the user must fix their environment and rerun.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// AuthenticationError indicates credentials were rejected by the target site,
// or the login flow exceeded its timeout.
type AuthenticationError struct {
	Method  string // "terminus" or "browser"
	Reason  string
	Timeout bool
}

func (e *AuthenticationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("authentication timed out (%s): %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("authentication failed (%s): %s", e.Method, e.Reason)
}

// AuthorizationError indicates the session is authenticated but lacks
// permission for the attempted operation.
type AuthorizationError struct {
	Operation string
	Reason    string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized to %s: %s", e.Operation, e.Reason)
}

// NotFoundError indicates the target content identifier does not resolve.
type NotFoundError struct {
	Target string // e.g. "node/123"
}

func (e *NotFoundError) Error() string {
	return e.Target + " not found"
}

// NoMatchError indicates a find/replace target was absent from the current
// field value. This signals a caller input mistake, not a system failure:
// no revision is created.
type NoMatchError struct {
	Field string
	Find  string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("%q not found in field %q", e.Find, e.Field)
}

// ForbiddenTransitionError indicates an attempt to invoke a moderation
// transition reserved for human actors through the agent's interface.
type ForbiddenTransitionError struct {
	From       string
	Transition string
}

func (e *ForbiddenTransitionError) Error() string {
	return fmt.Sprintf("transition %q from state %q is not permitted for the agent", e.Transition, e.From)
}

// TransientIOError wraps a network or remote-execution hiccup that is safe
// to retry a bounded number of times before surfacing.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("transient failure during %s: %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error {
	return e.Err
}
