// Package errors defines the failure taxonomy of a watch session and maps it to process exit codes.
package errors

import (
	"errors"
	"fmt"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// ConfigError is raised before any network activity: missing token path,
// unreadable token file, unresolvable repository, invalid settings.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TransportError means a request could not complete or was rejected by the API.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError means the workflow runs response was malformed or incomplete.
type ParseError struct {
	Op    string
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CancelledError ends a session that was stopped before a terminal state.
type CancelledError struct {
	Reason   string
	Attempts int
	Last     *models.WorkflowRun
	Err      error
}

func (e *CancelledError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("watch cancelled after %d attempt(s): %s [last state: %s]", e.Attempts, e.Reason, e.Last.Status)
	}
	return fmt.Sprintf("watch cancelled after %d attempt(s): %s", e.Attempts, e.Reason)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// UsageError wraps bad flags or arguments.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error chain to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var cancelled *CancelledError
	if errors.As(err, &cancelled) {
		return ExitCancelled
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	return ExitFailure
}

// IsFatal reports whether err belongs to the fatal taxonomy (config, transport, parse).
func IsFatal(err error) bool {
	var cfgErr *ConfigError
	var transportErr *TransportError
	var parseErr *ParseError
	return errors.As(err, &cfgErr) || errors.As(err, &transportErr) || errors.As(err, &parseErr)
}
