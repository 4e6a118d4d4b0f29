package auth

import (
	"strings"

	"github.com/savaslabs/drupal-editor-agent/internal/domain"
)

// authStderrPatterns contains substrings that indicate authentication
// failure when found in stderr output (checked case-insensitively).
var authStderrPatterns = []string{
	"machine token",
	"invalid credentials",
	"authentication required",
	"not logged in",
	"unauthenticated",
	"401",
}

// authzStderrPatterns indicate the session is valid but lacks permission
// for the attempted operation.
var authzStderrPatterns = []string{
	"access denied",
	"permission denied",
	"not authorized",
	"insufficient permission",
	"403",
}

// transientStderrPatterns indicate a network or remote-execution hiccup
// that is safe to retry.
var transientStderrPatterns = []string{
	"connection refused",
	"connection reset",
	"timed out",
	"temporarily unavailable",
	"could not resolve host",
	"network is unreachable",
	"502",
	"503",
	"504",
}

// classifyCommandFailure maps a failed terminus invocation onto the agent's
// error taxonomy by inspecting stderr. Only failures matching a transient
// pattern become TransientIOError (and therefore retryable); anything
// unmatched surfaces as-is.
func classifyCommandFailure(operation, stderr string, errFallback error) error {
	lower := strings.ToLower(stderr)

	for _, pattern := range authStderrPatterns {
		if strings.Contains(lower, pattern) {
			return &domain.AuthenticationError{Method: MethodTerminus, Reason: strings.TrimSpace(stderr)}
		}
	}

	for _, pattern := range authzStderrPatterns {
		if strings.Contains(lower, pattern) {
			return &domain.AuthorizationError{Operation: operation, Reason: strings.TrimSpace(stderr)}
		}
	}

	for _, pattern := range transientStderrPatterns {
		if strings.Contains(lower, pattern) {
			return &domain.TransientIOError{Op: operation, Err: errFallback}
		}
	}

	return errFallback
}
