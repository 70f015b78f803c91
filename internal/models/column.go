package models

import "github.com/thenoetrevino/tablo/internal/types"

// Column is a fixed workflow stage holding an ordered sequence of tasks.
// Columns are never created or destroyed at runtime; only Tasks mutates.
type Column struct {
	ID    types.ColumnID `json:"id"`
	Title string         `json:"title"`
	Tasks []*Task        `json:"tasks"`
}

// Board is the ordered set of all columns, the root of persisted state
type Board struct {
	Columns []*Column `json:"columns"`
}

// DefaultBoard returns the five fixed columns, empty, in board order.
func DefaultBoard() *Board {
	ids := types.ColumnIDs()
	b := &Board{Columns: make([]*Column, 0, len(ids))}
	for _, id := range ids {
		b.Columns = append(b.Columns, &Column{ID: id, Title: id.Title(), Tasks: []*Task{}})
	}
	return b
}

// Column returns the column with the given id, or nil
func (b *Board) Column(id types.ColumnID) *Column {
	for _, c := range b.Columns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// FindTask scans all columns for a task and returns its column and index.
func (b *Board) FindTask(id types.TaskID) (*Column, int, bool) {
	for _, c := range b.Columns {
		for i, t := range c.Tasks {
			if t.ID == id {
				return c, i, true
			}
		}
	}
	return nil, -1, false
}

// Tasks returns every task on the board in column order
func (b *Board) Tasks() []*Task {
	var out []*Task
	for _, c := range b.Columns {
		out = append(out, c.Tasks...)
	}
	return out
}

// TaskCount returns the number of tasks across all columns
func (b *Board) TaskCount() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Tasks)
	}
	return n
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	if b == nil {
		return nil
	}
	out := &Board{Columns: make([]*Column, 0, len(b.Columns))}
	for _, c := range b.Columns {
		nc := &Column{ID: c.ID, Title: c.Title, Tasks: make([]*Task, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			nc.Tasks = append(nc.Tasks, t.Clone())
		}
		out.Columns = append(out.Columns, nc)
	}
	return out
}

// RemoveAt splices the task at index i out of the column and returns it.
func (c *Column) RemoveAt(i int) *Task {
	t := c.Tasks[i]
	c.Tasks = append(c.Tasks[:i:i], c.Tasks[i+1:]...)
	return t
}

// InsertAt puts t back at index i, clamped to the column bounds.
func (c *Column) InsertAt(i int, t *Task) {
	if i < 0 {
		i = 0
	}
	if i >= len(c.Tasks) {
		c.Tasks = append(c.Tasks, t)
		return
	}
	c.Tasks = append(c.Tasks[:i], append([]*Task{t}, c.Tasks[i:]...)...)
}

// FilterOptions are the structured filter criteria of the visible projection.
// Each field is optional; set fields combine conjunctively.
type FilterOptions struct {
	Assignee string `json:"assignee" yaml:"assignee"`
	Label    string `json:"label" yaml:"label"`
	DueDate  string `json:"dueDate" yaml:"due_date"`
}

// IsZero reports whether no criterion is set
func (f FilterOptions) IsZero() bool {
	return f.Assignee == "" && f.Label == "" && f.DueDate == ""
}
