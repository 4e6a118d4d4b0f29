package domain

import "errors"

// ExitCode represents the exit status of the agent process.
type ExitCode int

const (
	// ExitOK indicates the operation completed successfully.
	ExitOK ExitCode = 0
	// ExitError indicates a failure outside the known categories.
	ExitError ExitCode = 1
	// ExitConfiguration indicates missing or ambiguous configuration.
	ExitConfiguration ExitCode = 2
	// ExitAuthentication indicates rejected credentials or a login timeout.
	ExitAuthentication ExitCode = 3
	// ExitAuthorization indicates insufficient permission for the operation.
	ExitAuthorization ExitCode = 4
	// ExitNotFound indicates the target content does not exist.
	ExitNotFound ExitCode = 5
	// ExitNoMatch indicates a find/replace target was absent.
	ExitNoMatch ExitCode = 6
	// ExitForbiddenTransition indicates an attempted human-only moderation transition.
	ExitForbiddenTransition ExitCode = 7
	// ExitTransient indicates an I/O failure that persisted through retries.
	ExitTransient ExitCode = 8
	// ExitInterrupted indicates the run was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}

// CodeFor maps an error to its category exit code. A nil error maps to ExitOK.
func CodeFor(err error) ExitCode {
	if err == nil {
		return ExitOK
	}

	var (
		confErr      *ConfigurationError
		authErr      *AuthenticationError
		authzErr     *AuthorizationError
		notFoundErr  *NotFoundError
		noMatchErr   *NoMatchError
		forbiddenErr *ForbiddenTransitionError
		transientErr *TransientIOError
	)

	switch {
	case errors.As(err, &confErr):
		return ExitConfiguration
	case errors.As(err, &authErr):
		return ExitAuthentication
	case errors.As(err, &authzErr):
		return ExitAuthorization
	case errors.As(err, &notFoundErr):
		return ExitNotFound
	case errors.As(err, &noMatchErr):
		return ExitNoMatch
	case errors.As(err, &forbiddenErr):
		return ExitForbiddenTransition
	case errors.As(err, &transientErr):
		return ExitTransient
	default:
		return ExitError
	}
}
