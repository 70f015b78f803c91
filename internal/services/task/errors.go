package task

import (
	"errors"

	"github.com/thenoetrevino/tablo/internal/models"
)

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrTitleTooLong    = errors.New("task title cannot exceed 255 characters")
	ErrInvalidLabel    = errors.New("invalid label: must be one of Feature, Bug, Issue, Undefined")
	ErrInvalidPriority = errors.New("invalid priority: must be one of Low, Medium, High")
	ErrInvalidDueDate  = errors.New("invalid due date: must be YYYY-MM-DD")
	ErrInvalidOrder    = errors.New("invalid order: must list every task of the column exactly once")

	// Business logic errors
	ErrTaskNotFound          = models.ErrTaskNotFound
	ErrColumnNotFound        = models.ErrColumnNotFound
	ErrChecklistItemNotFound = errors.New("checklist item not found")
)

// IsValidationError reports whether err was caused by invalid input rather
// than missing entities or storage.
func IsValidationError(err error) bool {
	for _, target := range []error{ErrEmptyTitle, ErrTitleTooLong, ErrInvalidLabel, ErrInvalidPriority, ErrInvalidDueDate, ErrInvalidOrder} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
