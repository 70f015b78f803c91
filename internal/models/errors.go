package models

import (
	"errors"
	"fmt"

	"github.com/thenoetrevino/tablo/internal/types"
)

// Domain-specific errors shared by the store and its adapters
var (
	// ErrColumnNotFound indicates an operation referenced a column outside the fixed set
	ErrColumnNotFound = errors.New("column not found")

	// ErrTaskNotFound indicates an operation referenced a missing or already removed task
	ErrTaskNotFound = errors.New("task not found")

	// ErrStorageWrite indicates a persistence backend rejected a write
	ErrStorageWrite = errors.New("storage write failed")

	// ErrStorageRead indicates a persistence backend could not be read
	ErrStorageRead = errors.New("storage read failed")
)

// StorageOp is the kind of storage access that failed
type StorageOp string

const (
	OpRead  StorageOp = "read"
	OpWrite StorageOp = "write"
)

// StorageError describes a failed backend access. It matches ErrStorageWrite or
// ErrStorageRead with errors.Is depending on Op.
type StorageError struct {
	Backend string // "blob" or "snapshot" plus the implementation, e.g. "blob/sqlite"
	Op      StorageOp
	TaskID  types.TaskID
	Err     error
}

func (e *StorageError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("%s %s for task %s: %v", e.Backend, e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the failed operation kind.
func (e *StorageError) Is(target error) bool {
	switch target {
	case ErrStorageWrite:
		return e.Op == OpWrite
	case ErrStorageRead:
		return e.Op == OpRead
	}
	return false
}

// WriteError wraps err as a storage write failure
func WriteError(backend string, taskID types.TaskID, err error) error {
	return &StorageError{Backend: backend, Op: OpWrite, TaskID: taskID, Err: err}
}

// ReadError wraps err as a storage read failure
func ReadError(backend string, taskID types.TaskID, err error) error {
	return &StorageError{Backend: backend, Op: OpRead, TaskID: taskID, Err: err}
}
