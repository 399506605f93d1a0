package cli

import (
	stderrors "errors"
	"fmt"

	"task-tracker/internal/errors"
	"task-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other
// errors. The original error stays reachable with errors.As.
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if message, ok := eh.message(err); ok {
		return &CommandError{Message: fmt.Sprintf("failed to %s: %s", operation, message), Err: err}
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func (eh *ErrorHandler) message(err error) (string, bool) {
	// Field errors read better than the wrapping AppError message
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.GetUserFriendlyMessage(), true
	}

	if _, ok := errors.AsAppError(err); ok {
		return errors.GetUserMessage(err), true
	}
	return "", false
}

// CommandError is a user-facing message that keeps the underlying error
type CommandError struct {
	Message string
	Err     error
}

func (e *CommandError) Error() string {
	return e.Message
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
