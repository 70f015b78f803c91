package task

import (
	"context"
	"fmt"
	"slices"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/events"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/notify"
	"github.com/thenoetrevino/tablo/internal/types"
)

// CreateTask appends a new task to a column and persists the board. A cover
// is stored only after the board is saved; if that write fails the created
// task is returned together with the storage error. A stored cover bumps the
// revision without another save so readers see it arrive.
func (s *service) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.failed("create task", err)
	}

	fields, err := validateCreateTask(req)
	if err != nil {
		return nil, s.failed("create task", err)
	}

	s.mu.RLock()
	id := s.newTaskIDLocked()
	s.mu.RUnlock()

	unlock, err := s.locks.Lock(ctx, id)
	if err != nil {
		return nil, s.failed("create task", err)
	}
	defer unlock()

	task := &models.Task{
		ID:          id,
		Title:       fields.title,
		Description: req.Description,
		Assignee:    models.NormalizeAssignees(req.Assignee),
		DueDate:     fields.dueDate,
		Label:       fields.label,
		Priority:    fields.priority,
		Checklist:   withItemIDs(req.Checklist),
		Attachments: nonNil(req.Attachments),
		ColumnID:    req.ColumnID,
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	col := s.board.Column(req.ColumnID)
	col.Tasks = append(col.Tasks, task)
	rev, err := s.commitLocked(ctx)
	if err != nil {
		col.RemoveAt(len(col.Tasks) - 1)
		s.mu.Unlock()
		s.notifier.Notify("Failed to create task", notify.Error, 0)
		return nil, err
	}
	s.mu.Unlock()

	s.metrics.IncTasksCreated()
	s.publish(events.EventTaskCreated, id, req.ColumnID, rev)
	s.logger.Debug("task created", "task_id", id, "column_id", req.ColumnID)

	if req.Cover != nil {
		if err := s.writeCover(ctx, id, req.Cover); err != nil {
			s.notifier.Notify("Task created, but its cover image could not be saved", notify.Error, 0)
			return s.snapshotTask(task), fmt.Errorf("failed to store cover: %w", err)
		}

		s.mu.Lock()
		s.revision++
		rev = s.revision
		s.mu.Unlock()
		s.publish(events.EventTaskUpdated, id, req.ColumnID, rev)
	}

	s.notifier.Notify("Task created", notify.Success, 0)
	return s.snapshotTask(task), nil
}

// UpdateTask merges the given fields into a task. An explicit cover change is
// written and re-read first; the fields are then applied and the board saved
// once. A failed save restores the previous field values.
func (s *service) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.failed("update task", err)
	}

	fields, err := validateUpdateTask(req)
	if err != nil {
		return nil, s.failed("update task", err)
	}

	unlock, err := s.locks.Lock(ctx, req.TaskID)
	if err != nil {
		return nil, s.failed("update task", err)
	}
	defer unlock()

	if !s.exists(req.TaskID) {
		return nil, s.failed("update task", fmt.Errorf("%w: %s", ErrTaskNotFound, req.TaskID))
	}

	if req.CoverSet {
		if err := s.writeCover(ctx, req.TaskID, req.Cover); err != nil {
			s.notifier.Notify("Failed to update cover image", notify.Error, 0)
			return nil, fmt.Errorf("failed to store cover: %w", err)
		}
	}

	s.mu.Lock()
	col, idx, ok := s.board.FindTask(req.TaskID)
	if !ok {
		// removed by a concurrent Reload
		s.mu.Unlock()
		return nil, s.failed("update task", fmt.Errorf("%w: %s", ErrTaskNotFound, req.TaskID))
	}
	task := col.Tasks[idx]
	old := *task
	applyUpdate(task, req, fields)

	rev, err := s.commitLocked(ctx)
	if err != nil {
		*task = old
		s.mu.Unlock()
		s.notifier.Notify("Failed to update task", notify.Error, 0)
		return nil, err
	}
	updated := task.Clone()
	s.mu.Unlock()

	s.metrics.IncTasksUpdated()
	s.publish(events.EventTaskUpdated, req.TaskID, updated.ColumnID, rev)
	s.notifier.Notify("Task updated", notify.Success, 0)
	return updated, nil
}

// DeleteTask removes a task, persists the board, then deletes its cover. A
// failed cover delete is reported as a warning; the deletion stands.
func (s *service) DeleteTask(ctx context.Context, taskID types.TaskID) error {
	if err := ctx.Err(); err != nil {
		return s.failed("delete task", err)
	}

	unlock, err := s.locks.Lock(ctx, taskID)
	if err != nil {
		return s.failed("delete task", err)
	}
	defer unlock()

	s.mu.Lock()
	col, idx, ok := s.board.FindTask(taskID)
	if !ok {
		s.mu.Unlock()
		return s.failed("delete task", fmt.Errorf("%w: %s", ErrTaskNotFound, taskID))
	}
	removed := col.RemoveAt(idx)
	rev, err := s.commitLocked(ctx)
	if err != nil {
		col.InsertAt(idx, removed)
		s.mu.Unlock()
		s.notifier.Notify("Failed to delete task", notify.Error, 0)
		return err
	}
	s.mu.Unlock()

	s.metrics.IncTasksDeleted()
	s.publish(events.EventTaskDeleted, taskID, col.ID, rev)

	if err := s.blobs.Put(ctx, taskID, nil); err != nil {
		s.metrics.IncCoverFailures()
		s.logger.Warn("failed to delete cover of deleted task", "task_id", taskID, "error", err)
		s.notifier.Notify("Task deleted, but its cover image could not be removed", notify.Warning, 0)
		return nil
	}

	s.notifier.Notify("Task deleted", notify.Success, 0)
	return nil
}

// MoveTask appends a task to the target column. An unknown task is a no-op;
// an unknown target is rejected before the task leaves its column.
func (s *service) MoveTask(ctx context.Context, taskID types.TaskID, target types.ColumnID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !target.Valid() {
		return fmt.Errorf("%w: %s", ErrColumnNotFound, target)
	}

	unlock, err := s.locks.Lock(ctx, taskID)
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	src, idx, ok := s.board.FindTask(taskID)
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("move of unknown task ignored", "task_id", taskID)
		return nil
	}
	dst := s.board.Column(target)

	task := src.RemoveAt(idx)
	prevColumn := task.ColumnID
	task.ColumnID = target
	dst.Tasks = append(dst.Tasks, task)

	rev, err := s.commitLocked(ctx)
	if err != nil {
		dst.RemoveAt(len(dst.Tasks) - 1)
		task.ColumnID = prevColumn
		src.InsertAt(idx, task)
		s.mu.Unlock()
		s.notifier.Notify("Failed to move task", notify.Error, 0)
		return err
	}
	s.mu.Unlock()

	s.metrics.IncTasksMoved()
	s.publish(events.EventTaskMoved, taskID, target, rev)
	return nil
}

// ReorderColumn rearranges a column's tasks. ordered must list every task of
// the column exactly once.
func (s *service) ReorderColumn(ctx context.Context, columnID types.ColumnID, ordered []types.TaskID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	col := s.board.Column(columnID)
	if col == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}

	reordered, err := permute(col.Tasks, ordered)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	prev := col.Tasks
	col.Tasks = reordered

	rev, err := s.commitLocked(ctx)
	if err != nil {
		col.Tasks = prev
		s.mu.Unlock()
		s.notifier.Notify("Failed to reorder tasks", notify.Error, 0)
		return err
	}
	s.mu.Unlock()

	s.metrics.IncColumnsReordered()
	s.publish(events.EventColumnReordered, "", columnID, rev)
	return nil
}

func (s *service) SetChecklistItemDone(ctx context.Context, taskID types.TaskID, itemID types.ChecklistItemID, done bool) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, taskID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	s.mu.Lock()
	col, idx, ok := s.board.FindTask(taskID)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	task := col.Tasks[idx]
	item := slices.IndexFunc(task.Checklist, func(c models.ChecklistItem) bool { return c.ID == itemID })
	if item < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrChecklistItemNotFound, itemID)
	}

	prev := task.Checklist
	task.Checklist = slices.Clone(prev)
	task.Checklist[item].Done = done

	rev, err := s.commitLocked(ctx)
	if err != nil {
		task.Checklist = prev
		s.mu.Unlock()
		return nil, err
	}
	updated := task.Clone()
	s.mu.Unlock()

	s.metrics.IncTasksUpdated()
	s.publish(events.EventTaskUpdated, taskID, col.ID, rev)
	return updated, nil
}

// ============================================================================
// HELPERS
// ============================================================================

// writeCover stores or removes a cover and reflects the stored value on the
// task. Callers hold the task lock.
func (s *service) writeCover(ctx context.Context, taskID types.TaskID, cover *models.CoverPayload) error {
	if err := s.blobs.Put(ctx, taskID, cover); err != nil {
		s.metrics.IncCoverFailures()
		return err
	}
	s.metrics.IncCoverWrites()

	uri := ""
	if cover != nil {
		uri = blobstore.Get(ctx, s.blobs, taskID, s.logger)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if col, idx, ok := s.board.FindTask(taskID); ok {
		col.Tasks[idx].CoverImage = uri
	}
	return nil
}

// failed reports a rejected mutation to the notifier and returns err unchanged
func (s *service) failed(action string, err error) error {
	s.notifier.Notify(fmt.Sprintf("Failed to %s: %v", action, err), notify.Error, 0)
	return err
}

func (s *service) exists(taskID types.TaskID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, _, ok := s.board.FindTask(taskID)
	return ok
}

// snapshotTask returns a copy of a live task taken under the read lock
func (s *service) snapshotTask(t *models.Task) *models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t.Clone()
}

func applyUpdate(t *models.Task, req UpdateTaskRequest, fields validatedFields) {
	if req.Title != nil {
		t.Title = fields.title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Assignee != nil {
		t.Assignee = models.NormalizeAssignees(*req.Assignee)
	}
	if req.DueDate != nil {
		t.DueDate = fields.dueDate
	}
	if req.Label != nil {
		t.Label = fields.label
	}
	if req.Priority != nil {
		t.Priority = fields.priority
	}
	if req.Checklist != nil {
		t.Checklist = withItemIDs(*req.Checklist)
	}
	if req.Attachments != nil {
		t.Attachments = nonNil(*req.Attachments)
	}
}

// permute orders tasks by ids, which must be a permutation of the task ids.
func permute(tasks []*models.Task, ids []types.TaskID) ([]*models.Task, error) {
	if len(ids) != len(tasks) {
		return nil, fmt.Errorf("%w: got %d ids for %d tasks", ErrInvalidOrder, len(ids), len(tasks))
	}

	byID := make(map[types.TaskID]*models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	out := make([]*models.Task, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s is not in the column or listed twice", ErrInvalidOrder, id)
		}
		delete(byID, id)
		out = append(out, t)
	}
	return out, nil
}

func withItemIDs(items []models.ChecklistItem) []models.ChecklistItem {
	out := make([]models.ChecklistItem, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			item.ID = types.NewChecklistItemID()
		}
		out = append(out, item)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
