package snapshot

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/types"
)

// ErrMalformed is returned by Decode when a document cannot be parsed
var ErrMalformed = errors.New("malformed snapshot document")

// document is the persisted shape of a board: {"columns": [...]}.
// Cover images are deliberately absent; they live in the blob store.
type document struct {
	Columns []columnDocument `json:"columns"`
}

type columnDocument struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Tasks []taskDocument `json:"tasks"`
}

type taskDocument struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Assignee    assigneeList        `json:"assignee"`
	DueDate     string              `json:"dueDate"`
	Label       string              `json:"label"`
	Priority    string              `json:"priority,omitempty"`
	Checklist   []checklistDocument `json:"checklist"`
	Attachments []string            `json:"attachments"`
	ColumnID    string              `json:"columnId"`
	CreatedAt   string              `json:"createdAt"`
}

type checklistDocument struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// assigneeList accepts both the list form and the older single string form
// ("ana, bob") of the assignee field.
type assigneeList []string

func (a *assigneeList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := sonic.ConfigStd.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}
	var single string
	if err := sonic.ConfigStd.Unmarshal(data, &single); err != nil {
		return err
	}
	*a = strings.Split(single, ",")
	return nil
}

// Encode serializes the board without cover data.
func Encode(b *models.Board) ([]byte, error) {
	doc := document{Columns: make([]columnDocument, 0, len(b.Columns))}
	for _, c := range b.Columns {
		cd := columnDocument{ID: string(c.ID), Title: c.Title, Tasks: make([]taskDocument, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			cd.Tasks = append(cd.Tasks, taskToDocument(t))
		}
		doc.Columns = append(doc.Columns, cd)
	}
	return sonic.ConfigStd.Marshal(doc)
}

// Decode parses a document into a normalized board: the fixed columns in
// board order, unknown columns dropped, every task's ColumnID matching its
// column, and duplicate task ids kept only at their first occurrence.
// Dropped entries are logged to logger, or slog.Default when nil.
func Decode(data []byte, logger *slog.Logger) (*models.Board, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var doc document
	if err := sonic.ConfigStd.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrMalformed, err)
	}
	if doc.Columns == nil {
		return nil, ErrMalformed
	}

	board := models.DefaultBoard()
	seen := make(map[types.TaskID]struct{})
	for _, cd := range doc.Columns {
		col := board.Column(types.ColumnID(cd.ID))
		if col == nil {
			logger.Warn("dropping unknown column from snapshot", "column_id", cd.ID, "tasks", len(cd.Tasks))
			continue
		}
		for _, td := range cd.Tasks {
			t := documentToTask(td)
			if t.ID == "" {
				logger.Warn("dropping task without id from snapshot", "column_id", cd.ID)
				continue
			}
			if _, dup := seen[t.ID]; dup {
				logger.Warn("dropping duplicate task from snapshot", "task_id", t.ID)
				continue
			}
			seen[t.ID] = struct{}{}
			t.ColumnID = col.ID
			col.Tasks = append(col.Tasks, t)
		}
	}
	return board, nil
}

func taskToDocument(t *models.Task) taskDocument {
	td := taskDocument{
		ID:          string(t.ID),
		Title:       t.Title,
		Description: t.Description,
		Assignee:    assigneeList(nonNil(t.Assignee)),
		DueDate:     t.DueDate,
		Label:       string(t.Label),
		Priority:    string(t.Priority),
		Checklist:   make([]checklistDocument, 0, len(t.Checklist)),
		Attachments: nonNil(t.Attachments),
		ColumnID:    string(t.ColumnID),
	}
	if !t.CreatedAt.IsZero() {
		td.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	for _, item := range t.Checklist {
		td.Checklist = append(td.Checklist, checklistDocument{ID: string(item.ID), Text: item.Text, Done: item.Done})
	}
	return td
}

func documentToTask(td taskDocument) *models.Task {
	t := &models.Task{
		ID:          types.TaskID(td.ID),
		Title:       td.Title,
		Description: td.Description,
		Assignee:    models.NormalizeAssignees(td.Assignee),
		DueDate:     td.DueDate,
		Checklist:   make([]models.ChecklistItem, 0, len(td.Checklist)),
		Attachments: nonNil(td.Attachments),
		ColumnID:    types.ColumnID(td.ColumnID),
	}

	label, ok := models.ParseLabel(td.Label)
	if !ok {
		label = models.LabelUndefined
	}
	t.Label = label

	if priority, ok := models.ParsePriority(td.Priority); ok {
		t.Priority = priority
	}

	if td.CreatedAt != "" {
		if created, err := time.Parse(time.RFC3339Nano, td.CreatedAt); err == nil {
			t.CreatedAt = created
		}
	}

	for _, item := range td.Checklist {
		id := types.ChecklistItemID(item.ID)
		if id == "" {
			id = types.NewChecklistItemID()
		}
		t.Checklist = append(t.Checklist, models.ChecklistItem{ID: id, Text: item.Text, Done: item.Done})
	}
	return t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
