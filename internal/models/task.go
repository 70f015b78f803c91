package models

import (
	"strings"
	"time"

	"github.com/thenoetrevino/tablo/internal/types"
)

// Task represents a single card on the board
type Task struct {
	ID          types.TaskID    `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Assignee    []string        `json:"assignee"`
	DueDate     string          `json:"dueDate"` // ISO calendar date (YYYY-MM-DD) or empty
	Label       Label           `json:"label"`
	Priority    Priority        `json:"priority,omitempty"`
	Checklist   []ChecklistItem `json:"checklist"`
	Attachments []string        `json:"attachments"`
	CoverImage  string          `json:"coverImage,omitempty"` // data URI resolved from the blob store, never persisted in the snapshot
	ColumnID    types.ColumnID  `json:"columnId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ChecklistItem is a single entry of a task checklist
type ChecklistItem struct {
	ID   types.ChecklistItemID `json:"id"`
	Text string                `json:"text"`
	Done bool                  `json:"done"`
}

// CoverPayload is a binary cover image handed to the blob store.
// An empty MediaType is sniffed from Data.
type CoverPayload struct {
	MediaType string
	Data      []byte
}

// HasCover reports whether a cover image has been resolved for the task
func (t *Task) HasCover() bool {
	return t.CoverImage != ""
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.Assignee = append([]string(nil), t.Assignee...)
	c.Checklist = append([]ChecklistItem(nil), t.Checklist...)
	c.Attachments = append([]string(nil), t.Attachments...)
	return &c
}

// NormalizeAssignees trims names and removes empty entries and case-insensitive
// duplicates, keeping the first occurrence order.
func NormalizeAssignees(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
