// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/api"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/config"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/storage"
	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/workflow"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitInvalidSignature indicates a verification that returned a negative verdict
	ExitInvalidSignature = 4
	// ExitNetworkError indicates the service could not be reached
	ExitNetworkError = 5
	// ExitBackendError indicates the service rejected the request
	ExitBackendError = 6
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out or was interrupted
	ExitTimeoutError = 8
)

// ErrSignatureInvalid is returned by verify when the service reports the
// signature as invalid. The call itself succeeded.
var ErrSignatureInvalid = errors.New("signature is invalid")

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "certs")
	Action  string // Action being performed (e.g., "forget")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents invalid command usage.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// NewCommandError creates a CommandError.
func NewCommandError(command, action, reason string, err error) *CommandError {
	return &CommandError{Command: command, Action: action, Reason: reason, Err: err}
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, value, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// NewUsageError creates a ValidationError with only a message.
func NewUsageError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// GetExitCode maps an error to its process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrSignatureInvalid) {
		return ExitInvalidSignature
	}
	if errors.Is(err, storage.ErrNotFound) {
		return ExitNotFoundError
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return ExitNotFoundError
	}

	var usage *ValidationError
	var invalid *operation.ValidationError
	if errors.As(err, &usage) || errors.As(err, &invalid) || errors.Is(err, operation.ErrCountryTooLong) {
		return ExitUsageError
	}

	var cfgErrs config.ValidateErrors
	var cfgErr config.ValidationError
	if errors.As(err, &cfgErrs) || errors.As(err, &cfgErr) {
		return ExitConfigError
	}

	if apiErr, ok := api.AsError(err); ok {
		switch apiErr.Type {
		case api.ErrTypeConnection:
			return ExitNetworkError
		case api.ErrTypeCanceled:
			return ExitTimeoutError
		case api.ErrTypeInvalidRequest:
			return ExitUsageError
		default:
			return ExitBackendError
		}
	}

	return ExitGeneralError
}

// DisplayError prints err to w, as a JSON envelope when asJSON is set.
func DisplayError(w io.Writer, command string, err error, asJSON bool) {
	if err == nil {
		return
	}
	if asJSON {
		_ = NewJSONErrorResponse(command, err).Write(w)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), message(err))
}

// message returns the text shown for err. Operation failures carry the
// translated message already; the transport detail is not repeated.
func message(err error) string {
	var opErr *workflow.OperationError
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	return err.Error()
}
