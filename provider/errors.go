package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrConfiguration indicates invalid or incomplete configuration.
	// Fatal at startup: the process should not proceed without a valid
	// provider.
	ErrConfiguration = errors.New("invalid provider configuration")

	// ErrUnknownProvider indicates the requested selector is not one of
	// the registered backends.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrBackendUnavailable indicates the external executable could not
	// be launched at all (binary missing, spawn failure).
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrParse indicates the backend emitted a structured payload that
	// could not be decoded. Never coerced into a guessed Response.
	ErrParse = errors.New("unparseable backend output")
)

// Error wraps backend errors with context.
type Error struct {
	Provider string // selector name ("process", "network")
	Op       string // operation that failed ("run", "kill", "new")
	Err      error  // underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a wrapped provider error.
func NewError(provider, op string, err error) *Error {
	return &Error{Provider: provider, Op: op, Err: err}
}

// IsConfigurationError reports whether err is a startup-fatal
// configuration failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrUnknownProvider)
}
