package events

import (
	"time"

	"github.com/thenoetrevino/tablo/internal/types"
)

// EventType indicates what kind of change occurred
type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskUpdated     EventType = "task_updated"
	EventTaskDeleted     EventType = "task_deleted"
	EventTaskMoved       EventType = "task_moved"
	EventColumnReordered EventType = "column_reordered"
	EventBoardReloaded   EventType = "board_reloaded"
)

// Event represents a committed board change
type Event struct {
	Type      EventType      `json:"type"`
	TaskID    types.TaskID   `json:"taskId,omitempty"`
	ColumnID  types.ColumnID `json:"columnId,omitempty"`
	Revision  uint64         `json:"revision"`  // board revision after the change
	Timestamp time.Time      `json:"timestamp"` // When the event occurred
}
