package cli

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: storage errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, invalid flag combinations,
	// or when the user needs to provide different arguments.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Task not found, column not found, checklist item not found.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: unreadable cover files, malformed data URIs.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Invalid label or priority values, bad due dates, empty titles.
	ExitValidation = 5
)

// ExitError carries the process exit code of a failed command. The message
// has already been reported to the user when it is returned.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exit wraps err with an exit code
func Exit(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCodeFor maps an error to the exit code documented above
func ExitCodeFor(err error) int {
	var ee *ExitError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, models.ErrTaskNotFound),
		errors.Is(err, models.ErrColumnNotFound),
		errors.Is(err, taskservice.ErrChecklistItemNotFound):
		return ExitNotFound
	case taskservice.IsValidationError(err):
		return ExitValidation
	case errors.Is(err, blobstore.ErrEmptyCover),
		errors.Is(err, blobstore.ErrMalformedDataURI):
		return ExitDataErr
	default:
		return ExitError
	}
}

// ErrorCode returns the machine readable code reported in JSON output
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, models.ErrTaskNotFound):
		return "TASK_NOT_FOUND"
	case errors.Is(err, models.ErrColumnNotFound):
		return "COLUMN_NOT_FOUND"
	case errors.Is(err, taskservice.ErrChecklistItemNotFound):
		return "CHECKLIST_ITEM_NOT_FOUND"
	case taskservice.IsValidationError(err):
		return "VALIDATION_ERROR"
	case errors.Is(err, models.ErrStorageWrite), errors.Is(err, models.ErrStorageRead):
		return "STORAGE_ERROR"
	case errors.Is(err, blobstore.ErrEmptyCover), errors.Is(err, blobstore.ErrMalformedDataURI):
		return "INVALID_DATA"
	default:
		return "ERROR"
	}
}
