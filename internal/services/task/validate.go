package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/models"
)

// validatedFields holds the parsed form of the enumerated request fields
type validatedFields struct {
	title    string
	dueDate  string
	label    models.Label
	priority models.Priority
}

// validateCreateTask validates a CreateTaskRequest
func validateCreateTask(req CreateTaskRequest) (validatedFields, error) {
	var f validatedFields

	if !req.ColumnID.Valid() {
		return f, fmt.Errorf("%w: %s", ErrColumnNotFound, req.ColumnID)
	}

	var err error
	if f.title, err = validateTitle(req.Title); err != nil {
		return f, err
	}
	if f.label, err = validateLabel(req.Label); err != nil {
		return f, err
	}
	if f.priority, err = validatePriority(req.Priority); err != nil {
		return f, err
	}
	if f.dueDate, err = validateDueDate(req.DueDate); err != nil {
		return f, err
	}
	if err = validateCover(req.Cover); err != nil {
		return f, err
	}
	return f, nil
}

// validateUpdateTask validates the fields present in an UpdateTaskRequest
func validateUpdateTask(req UpdateTaskRequest) (validatedFields, error) {
	var f validatedFields
	var err error

	if req.Title != nil {
		if f.title, err = validateTitle(*req.Title); err != nil {
			return f, err
		}
	}
	if req.Label != nil {
		if f.label, err = validateLabel(*req.Label); err != nil {
			return f, err
		}
	}
	if req.Priority != nil {
		if f.priority, err = validatePriority(*req.Priority); err != nil {
			return f, err
		}
	}
	if req.DueDate != nil {
		if f.dueDate, err = validateDueDate(*req.DueDate); err != nil {
			return f, err
		}
	}
	if req.CoverSet {
		if err = validateCover(req.Cover); err != nil {
			return f, err
		}
	}
	return f, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > models.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func validateLabel(s string) (models.Label, error) {
	label, ok := models.ParseLabel(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidLabel, s)
	}
	return label, nil
}

func validatePriority(s string) (models.Priority, error) {
	priority, ok := models.ParsePriority(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return priority, nil
}

func validateDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(models.DateLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDueDate, s)
	}
	return s, nil
}

// validateCover rejects a present cover with no bytes. A nil cover is valid.
func validateCover(cover *models.CoverPayload) error {
	if cover != nil && len(cover.Data) == 0 {
		return blobstore.ErrEmptyCover
	}
	return nil
}
