package types

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID types give the opaque string identifiers of the board a name.
// They document what each string represents in the domain model.

// TaskID identifies a unique task on the board
type TaskID string

// ColumnID identifies one of the fixed workflow columns
type ColumnID string

// ChecklistItemID identifies an item within a task checklist
type ChecklistItemID string

// Fixed workflow columns, in board order
const (
	ColumnTodo   ColumnID = "todo"
	ColumnDoing  ColumnID = "doing"
	ColumnReview ColumnID = "review"
	ColumnDone   ColumnID = "done"
	ColumnRework ColumnID = "rework"
)

// ColumnIDs returns the closed set of column identifiers in board order.
func ColumnIDs() []ColumnID {
	return []ColumnID{ColumnTodo, ColumnDoing, ColumnReview, ColumnDone, ColumnRework}
}

// Valid reports whether id is one of the fixed columns.
func (id ColumnID) Valid() bool {
	for _, c := range ColumnIDs() {
		if c == id {
			return true
		}
	}
	return false
}

// Title returns the display title of a fixed column
func (id ColumnID) Title() string {
	switch id {
	case ColumnTodo:
		return "To Do"
	case ColumnDoing:
		return "Doing"
	case ColumnReview:
		return "Review"
	case ColumnDone:
		return "Done"
	case ColumnRework:
		return "Rework"
	default:
		return string(id)
	}
}

// ParseColumnID resolves user input ("todo", "To Do", "REVIEW") to a column id.
func ParseColumnID(s string) (ColumnID, bool) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	for _, c := range ColumnIDs() {
		if string(c) == normalized || strings.ToLower(strings.ReplaceAll(c.Title(), " ", "")) == normalized {
			return c, true
		}
	}
	return "", false
}

func (id TaskID) String() string {
	return string(id)
}

func (id ColumnID) String() string {
	return string(id)
}

// NewTaskID generates a task id of the form "<unix millis>-<random base36>".
func NewTaskID(now time.Time) TaskID {
	return TaskID(strconv.FormatInt(now.UnixMilli(), 10) + "-" + randomSuffix(6))
}

// NewChecklistItemID generates a checklist item id
func NewChecklistItemID() ChecklistItemID {
	return ChecklistItemID(uuid.NewString())
}

func randomSuffix(n int) string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the clock
		binary.LittleEndian.PutUint64(buf[:], uint64(time.Now().UnixNano()))
	}
	s := strconv.FormatUint(binary.LittleEndian.Uint64(buf[:]), 36)
	for len(s) < n {
		s = "0" + s
	}
	return s[len(s)-n:]
}
