package task

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/events"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/notify"
	"github.com/thenoetrevino/tablo/internal/query"
	"github.com/thenoetrevino/tablo/internal/types"
)

// ============================================================================
// LOAD TESTS
// ============================================================================

func TestNewService_DefaultBoardWithoutSnapshot(t *testing.T) {
	f := setupService(t)

	b := f.svc.Board()
	if len(b.Columns) != 5 || b.TaskCount() != 0 {
		t.Fatalf("Expected empty default board, got %d columns / %d tasks", len(b.Columns), b.TaskCount())
	}
	if f.svc.Revision() != 0 {
		t.Errorf("Expected revision 0, got %d", f.svc.Revision())
	}
}

func TestNewService_LoadsAndHydratesCovers(t *testing.T) {
	snaps := &memSnapshots{}
	blobs := newMemBlobs()
	seed := setupServiceWith(t, snaps, blobs)

	withCover, err := seed.svc.CreateTask(context.Background(), CreateTaskRequest{
		ColumnID: types.ColumnDoing,
		Title:    "has cover",
		Cover:    &models.CoverPayload{MediaType: "image/png", Data: pngHeader},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	plain := createTestTask(t, seed.svc, types.ColumnTodo, "no cover")

	f := setupServiceWith(t, snaps, blobs)

	got, err := f.svc.GetTask(context.Background(), withCover.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !strings.HasPrefix(got.CoverImage, "data:image/png;base64,") {
		t.Errorf("cover not hydrated, got %q", got.CoverImage)
	}

	got, _ = f.svc.GetTask(context.Background(), plain.ID)
	if got.CoverImage != "" {
		t.Errorf("task without cover got %q", got.CoverImage)
	}
}

func TestNewService_HydrationToleratesReadFailure(t *testing.T) {
	snaps := &memSnapshots{}
	blobs := newMemBlobs()
	seed := setupServiceWith(t, snaps, blobs)
	created, err := seed.svc.CreateTask(context.Background(), CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "cover",
		Cover:    &models.CoverPayload{Data: pngHeader},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	blobs.lookupErr = errors.New("io error")
	f := setupServiceWith(t, snaps, blobs)

	got, err := f.svc.GetTask(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.CoverImage != "" {
		t.Errorf("unreadable cover should be absent, got %q", got.CoverImage)
	}
}

func TestNewService_LoadFailure(t *testing.T) {
	_, err := NewService(context.Background(), Deps{
		Snapshots: &memSnapshots{loadErr: models.ReadError("snapshot/memory", "", errDiskFull)},
		Blobs:     newMemBlobs(),
	})
	if !errors.Is(err, models.ErrStorageRead) {
		t.Errorf("Expected ErrStorageRead, got %v", err)
	}
}

// ============================================================================
// CREATE TESTS
// ============================================================================

func TestCreateTask(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID:  types.ColumnTodo,
		Title:     "Fix login",
		Assignee:  []string{"Ana", " ana ", "Bob"},
		DueDate:   "2025-09-03",
		Label:     "bug",
		Priority:  "high",
		Checklist: []models.ChecklistItem{{Text: "repro"}},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if task.ID == "" || task.CreatedAt.IsZero() {
		t.Error("Expected generated id and creation time")
	}
	if task.ColumnID != types.ColumnTodo || task.Label != models.LabelBug || task.Priority != models.PriorityHigh {
		t.Errorf("unexpected task fields: %+v", task)
	}
	if len(task.Assignee) != 2 {
		t.Errorf("Expected deduplicated assignees, got %v", task.Assignee)
	}
	if task.Checklist[0].ID == "" {
		t.Error("Expected checklist item id to be generated")
	}
	if f.snaps.saveCount() != 1 {
		t.Errorf("Expected exactly one snapshot save, got %d", f.snaps.saveCount())
	}

	// visible through a search for "login"
	visible := query.New().Visible(f.svc.Board(), "login", models.FilterOptions{})
	if ids := columnIDs(visible, types.ColumnTodo); len(ids) != 1 || ids[0] != task.ID {
		t.Errorf("Expected created task in search results, got %v", ids)
	}

	// persisted
	if got := columnIDs(f.snaps.stored(t), types.ColumnTodo); len(got) != 1 || got[0] != task.ID {
		t.Errorf("snapshot does not contain the task: %v", got)
	}

	if kind, msg := f.notifier.last(); kind != notify.Success || msg != "Task created" {
		t.Errorf("Expected success notification, got %s %q", kind, msg)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateTaskRequest
		want error
	}{
		{"empty title", CreateTaskRequest{ColumnID: types.ColumnTodo, Title: "   "}, ErrEmptyTitle},
		{"title too long", CreateTaskRequest{ColumnID: types.ColumnTodo, Title: strings.Repeat("a", 256)}, ErrTitleTooLong},
		{"invalid label", CreateTaskRequest{ColumnID: types.ColumnTodo, Title: "x", Label: "chore"}, ErrInvalidLabel},
		{"invalid priority", CreateTaskRequest{ColumnID: types.ColumnTodo, Title: "x", Priority: "urgent"}, ErrInvalidPriority},
		{"invalid due date", CreateTaskRequest{ColumnID: types.ColumnTodo, Title: "x", DueDate: "03/09/2025"}, ErrInvalidDueDate},
		{"unknown column", CreateTaskRequest{ColumnID: "backlog", Title: "x"}, models.ErrColumnNotFound},
		{"empty cover", CreateTaskRequest{ColumnID: types.ColumnTodo, Title: "x", Cover: &models.CoverPayload{MediaType: "image/png"}}, blobstore.ErrEmptyCover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupService(t)
			_, err := f.svc.CreateTask(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if f.svc.Board().TaskCount() != 0 || f.snaps.saveCount() != 0 {
				t.Error("rejected create must not mutate or save")
			}
			if f.svc.Revision() != 0 {
				t.Errorf("rejected create must not bump the revision, got %d", f.svc.Revision())
			}
			if kind, _ := f.notifier.last(); kind != notify.Error {
				t.Errorf("Expected error notification, got %q", kind)
			}
		})
	}
}

func TestCreateTask_TitleLimitCountsCharacters(t *testing.T) {
	f := setupService(t)
	if _, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{ColumnID: types.ColumnTodo, Title: strings.Repeat("é", 255)}); err != nil {
		t.Errorf("255 characters should be accepted: %v", err)
	}
}

func TestCreateTask_WithCover(t *testing.T) {
	f := setupService(t)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "with cover",
		Cover:    &models.CoverPayload{Data: pngHeader},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if !task.HasCover() || !strings.HasPrefix(task.CoverImage, "data:image/png;base64,") {
		t.Errorf("Expected resolved cover, got %q", task.CoverImage)
	}
	if strings.Contains(string(f.snaps.data), "base64") {
		t.Error("cover data must not be written to the snapshot")
	}
	if f.snaps.saveCount() != 1 {
		t.Errorf("Expected one snapshot save, got %d", f.snaps.saveCount())
	}
}

func TestCreateTask_CoverFailureReturnsTask(t *testing.T) {
	f := setupService(t)
	f.blobs.setPutErr(errDiskFull)

	task, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "cover fails",
		Cover:    &models.CoverPayload{Data: pngHeader},
	})
	if !errors.Is(err, models.ErrStorageWrite) {
		t.Fatalf("Expected ErrStorageWrite, got %v", err)
	}
	if task == nil || task.HasCover() {
		t.Fatalf("Expected the created task without cover, got %+v", task)
	}
	if _, getErr := f.svc.GetTask(context.Background(), task.ID); getErr != nil {
		t.Error("task creation must stand when only the cover failed")
	}
	if kind, _ := f.notifier.last(); kind != notify.Error {
		t.Errorf("Expected error notification, got %s", kind)
	}
}

func TestCreateTask_SaveFailureRollsBack(t *testing.T) {
	f := setupService(t)
	createTestTask(t, f.svc, types.ColumnTodo, "existing")
	f.snaps.fail(errDiskFull)

	_, err := f.svc.CreateTask(context.Background(), CreateTaskRequest{ColumnID: types.ColumnTodo, Title: "lost"})
	if !errors.Is(err, models.ErrStorageWrite) {
		t.Fatalf("Expected ErrStorageWrite, got %v", err)
	}
	if n := len(f.svc.Board().Column(types.ColumnTodo).Tasks); n != 1 {
		t.Errorf("Expected rollback to 1 task, got %d", n)
	}
	if f.svc.Revision() != 1 {
		t.Errorf("failed save must not bump the revision, got %d", f.svc.Revision())
	}
	if m := f.svc.Metrics(); m.SnapshotFailures != 1 || m.TasksCreated != 1 {
		t.Errorf("unexpected metrics %+v", m)
	}
}

func TestCreateTask_UniqueIDs(t *testing.T) {
	f := setupService(t)
	seen := make(map[types.TaskID]bool)
	for i := 0; i < 200; i++ {
		task := createTestTask(t, f.svc, types.ColumnTodo, "t")
		if seen[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

// ============================================================================
// UPDATE TESTS
// ============================================================================

func TestUpdateTask_MergesFields(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID: types.ColumnTodo, Title: "old", Description: "keep me", Label: "Bug",
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{
		TaskID:   created.ID,
		Title:    strPtr("new"),
		Priority: strPtr("low"),
		Assignee: &[]string{"Cy"},
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}

	if updated.Title != "new" || updated.Priority != models.PriorityLow || updated.Assignee[0] != "Cy" {
		t.Errorf("fields not applied: %+v", updated)
	}
	if updated.Description != "keep me" || updated.Label != models.LabelBug {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.ID != created.ID || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("identity fields must not change")
	}
	if f.snaps.saveCount() != 2 {
		t.Errorf("Expected one save for create and one for update, got %d", f.snaps.saveCount())
	}
}

func TestUpdateTask_Errors(t *testing.T) {
	f := setupService(t)
	created := createTestTask(t, f.svc, types.ColumnTodo, "task")

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskRequest{TaskID: "missing", Title: strPtr("x")})
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}

	_, err = f.svc.UpdateTask(context.Background(), UpdateTaskRequest{TaskID: created.ID, Title: strPtr("")})
	if !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("Expected ErrEmptyTitle, got %v", err)
	}
	if !IsValidationError(err) {
		t.Error("ErrEmptyTitle should be a validation error")
	}
}

func TestUpdateTask_EmptyCoverRejected(t *testing.T) {
	f := setupService(t)
	created := createTestTask(t, f.svc, types.ColumnTodo, "task")

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskRequest{
		TaskID:   created.ID,
		Title:    strPtr("renamed"),
		CoverSet: true,
		Cover:    &models.CoverPayload{MediaType: "image/png", Data: []byte{}},
	})
	if !errors.Is(err, blobstore.ErrEmptyCover) {
		t.Fatalf("Expected ErrEmptyCover, got %v", err)
	}
	if f.blobs.has(created.ID) {
		t.Error("empty cover must not reach the blob store")
	}
	got, _ := f.svc.GetTask(context.Background(), created.ID)
	if got.Title != "task" {
		t.Errorf("rejected update must leave the title, got %q", got.Title)
	}
	if f.snaps.saveCount() != 1 || f.svc.Revision() != 1 {
		t.Errorf("rejected update must not save, got %d saves at revision %d", f.snaps.saveCount(), f.svc.Revision())
	}
}

func TestMutationFailuresNotify(t *testing.T) {
	tests := []struct {
		name string
		run  func(svc Service) error
		want error
	}{
		{"create in unknown column", func(svc Service) error {
			_, err := svc.CreateTask(context.Background(), CreateTaskRequest{ColumnID: "backlog", Title: "x"})
			return err
		}, models.ErrColumnNotFound},
		{"create with empty title", func(svc Service) error {
			_, err := svc.CreateTask(context.Background(), CreateTaskRequest{ColumnID: types.ColumnTodo, Title: ""})
			return err
		}, ErrEmptyTitle},
		{"update missing task", func(svc Service) error {
			_, err := svc.UpdateTask(context.Background(), UpdateTaskRequest{TaskID: "nonexistent", Title: strPtr("x")})
			return err
		}, models.ErrTaskNotFound},
		{"update with invalid label", func(svc Service) error {
			_, err := svc.UpdateTask(context.Background(), UpdateTaskRequest{TaskID: "nonexistent", Label: strPtr("chore")})
			return err
		}, ErrInvalidLabel},
		{"delete missing task", func(svc Service) error {
			return svc.DeleteTask(context.Background(), "nonexistent")
		}, models.ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupService(t)
			createTestTask(t, f.svc, types.ColumnTodo, "stays")

			err := tt.run(f.svc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			kind, msg := f.notifier.last()
			if kind != notify.Error {
				t.Errorf("Expected error notification, got %q %q", kind, msg)
			}
			if !strings.HasPrefix(msg, "Failed to ") {
				t.Errorf("Expected a failure message, got %q", msg)
			}
		})
	}
}

func TestUpdateTask_CoverSetAndRemove(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created := createTestTask(t, f.svc, types.ColumnTodo, "task")

	updated, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{
		TaskID:   created.ID,
		CoverSet: true,
		Cover:    &models.CoverPayload{MediaType: "image/jpeg", Data: []byte("jpeg")},
	})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if !strings.HasPrefix(updated.CoverImage, "data:image/jpeg;base64,") {
		t.Errorf("Expected jpeg cover, got %q", updated.CoverImage)
	}

	updated, err = f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: created.ID, CoverSet: true})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.HasCover() || f.blobs.has(created.ID) {
		t.Error("Expected cover removed from task and blob store")
	}
}

func TestUpdateTask_CoverFailureLeavesFields(t *testing.T) {
	f := setupService(t)
	created := createTestTask(t, f.svc, types.ColumnTodo, "task")
	f.blobs.setPutErr(errDiskFull)

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskRequest{
		TaskID:   created.ID,
		Title:    strPtr("renamed"),
		CoverSet: true,
		Cover:    &models.CoverPayload{Data: pngHeader},
	})
	if !errors.Is(err, models.ErrStorageWrite) {
		t.Fatalf("Expected ErrStorageWrite, got %v", err)
	}
	got, _ := f.svc.GetTask(context.Background(), created.ID)
	if got.Title != "task" {
		t.Errorf("fields must not change when the cover write fails, got %q", got.Title)
	}
}

func TestUpdateTask_SaveFailureRestores(t *testing.T) {
	f := setupService(t)
	created := createTestTask(t, f.svc, types.ColumnTodo, "original")
	f.snaps.fail(errDiskFull)

	_, err := f.svc.UpdateTask(context.Background(), UpdateTaskRequest{TaskID: created.ID, Title: strPtr("changed")})
	if !errors.Is(err, models.ErrStorageWrite) {
		t.Fatalf("Expected ErrStorageWrite, got %v", err)
	}

	got, _ := f.svc.GetTask(context.Background(), created.ID)
	if got.Title != "original" {
		t.Errorf("Expected rollback to original title, got %q", got.Title)
	}
}

// ============================================================================
// DELETE TESTS
// ============================================================================

func TestDeleteTask(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID: types.ColumnReview, Title: "bye", Cover: &models.CoverPayload{Data: pngHeader},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	if err := f.svc.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	if _, err := f.svc.GetTask(ctx, created.ID); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected task gone, got %v", err)
	}
	if f.blobs.has(created.ID) {
		t.Error("Expected cover blob to be cascade-deleted")
	}
	if f.snaps.stored(t).TaskCount() != 0 {
		t.Error("Expected deletion persisted")
	}
}

func TestDeleteTask_NotFound(t *testing.T) {
	f := setupService(t)
	createTestTask(t, f.svc, types.ColumnTodo, "stays")

	err := f.svc.DeleteTask(context.Background(), "missing")
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	if f.svc.Board().TaskCount() != 1 || f.snaps.saveCount() != 1 {
		t.Error("not-found delete must not mutate or save")
	}
}

func TestDeleteTask_CoverFailureIsWarning(t *testing.T) {
	f := setupService(t)
	created := createTestTask(t, f.svc, types.ColumnTodo, "task")
	f.blobs.setPutErr(errDiskFull)

	if err := f.svc.DeleteTask(context.Background(), created.ID); err != nil {
		t.Fatalf("deletion should stand, got %v", err)
	}
	if f.svc.Board().TaskCount() != 0 {
		t.Error("task should be deleted")
	}
	if kind, _ := f.notifier.last(); kind != notify.Warning {
		t.Errorf("Expected warning notification, got %s", kind)
	}
}

func TestDeleteTask_SaveFailureReinserts(t *testing.T) {
	f := setupService(t)
	a := createTestTask(t, f.svc, types.ColumnTodo, "a")
	b := createTestTask(t, f.svc, types.ColumnTodo, "b")
	c := createTestTask(t, f.svc, types.ColumnTodo, "c")
	f.snaps.fail(errDiskFull)

	if err := f.svc.DeleteTask(context.Background(), b.ID); !errors.Is(err, models.ErrStorageWrite) {
		t.Fatalf("Expected ErrStorageWrite, got %v", err)
	}
	got := columnIDs(f.svc.Board(), types.ColumnTodo)
	if len(got) != 3 || got[0] != a.ID || got[1] != b.ID || got[2] != c.ID {
		t.Errorf("Expected original order restored, got %v", got)
	}
}

// ============================================================================
// MOVE & REORDER TESTS
// ============================================================================

func TestMoveTask(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	a := createTestTask(t, f.svc, types.ColumnTodo, "a")
	createTestTask(t, f.svc, types.ColumnDone, "existing")

	if err := f.svc.MoveTask(ctx, a.ID, types.ColumnDone); err != nil {
		t.Fatalf("MoveTask failed: %v", err)
	}

	b := f.svc.Board()
	if len(b.Column(types.ColumnTodo).Tasks) != 0 {
		t.Error("Expected source column empty")
	}
	done := b.Column(types.ColumnDone).Tasks
	if len(done) != 2 || done[1].ID != a.ID || done[1].ColumnID != types.ColumnDone {
		t.Errorf("Expected task appended to done with rewritten columnId, got %v", columnIDs(b, types.ColumnDone))
	}
	assertContainment(t, b)
}

func TestMoveTask_UnknownColumnLeavesTaskInPlace(t *testing.T) {
	f := setupService(t)
	a := createTestTask(t, f.svc, types.ColumnDoing, "a")
	saves := f.snaps.saveCount()

	err := f.svc.MoveTask(context.Background(), a.ID, "archive")
	if !errors.Is(err, models.ErrColumnNotFound) {
		t.Fatalf("Expected ErrColumnNotFound, got %v", err)
	}
	if got := columnIDs(f.svc.Board(), types.ColumnDoing); len(got) != 1 || got[0] != a.ID {
		t.Errorf("task must stay in its column, got %v", got)
	}
	if f.snaps.saveCount() != saves {
		t.Error("rejected move must not save")
	}
}

func TestMoveTask_UnknownTaskIsNoop(t *testing.T) {
	f := setupService(t)
	saves := f.snaps.saveCount()

	if err := f.svc.MoveTask(context.Background(), "ghost", types.ColumnDone); err != nil {
		t.Errorf("Expected silent no-op, got %v", err)
	}
	if f.snaps.saveCount() != saves || f.svc.Revision() != 0 {
		t.Error("no-op move must not save or bump the revision")
	}
}

func TestMoveTask_SaveFailureRestoresPosition(t *testing.T) {
	f := setupService(t)
	a := createTestTask(t, f.svc, types.ColumnTodo, "a")
	b := createTestTask(t, f.svc, types.ColumnTodo, "b")
	f.snaps.fail(errDiskFull)

	if err := f.svc.MoveTask(context.Background(), a.ID, types.ColumnDone); !errors.Is(err, models.ErrStorageWrite) {
		t.Fatalf("Expected ErrStorageWrite, got %v", err)
	}
	board := f.svc.Board()
	got := columnIDs(board, types.ColumnTodo)
	if len(got) != 2 || got[0] != a.ID || got[1] != b.ID {
		t.Errorf("Expected original position restored, got %v", got)
	}
	assertContainment(t, board)
}

func TestReorderColumn(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	a := createTestTask(t, f.svc, types.ColumnTodo, "a")
	b := createTestTask(t, f.svc, types.ColumnTodo, "b")
	c := createTestTask(t, f.svc, types.ColumnTodo, "c")

	if err := f.svc.ReorderColumn(ctx, types.ColumnTodo, []types.TaskID{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("ReorderColumn failed: %v", err)
	}
	got := columnIDs(f.svc.Board(), types.ColumnTodo)
	if got[0] != c.ID || got[1] != a.ID || got[2] != b.ID {
		t.Errorf("unexpected order %v", got)
	}

	invalid := [][]types.TaskID{
		{a.ID, b.ID},
		{a.ID, a.ID, b.ID},
		{a.ID, b.ID, "other"},
	}
	for _, ids := range invalid {
		if err := f.svc.ReorderColumn(ctx, types.ColumnTodo, ids); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("ReorderColumn(%v): expected ErrInvalidOrder, got %v", ids, err)
		}
	}
	if err := f.svc.ReorderColumn(ctx, "nope", nil); !errors.Is(err, models.ErrColumnNotFound) {
		t.Errorf("Expected ErrColumnNotFound, got %v", err)
	}
}

// ============================================================================
// CHECKLIST TESTS
// ============================================================================

func TestSetChecklistItemDone(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	created, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID:  types.ColumnTodo,
		Title:     "list",
		Checklist: []models.ChecklistItem{{ID: "one", Text: "a"}, {ID: "two", Text: "b"}, {ID: "three", Text: "c"}},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated, err := f.svc.SetChecklistItemDone(ctx, created.ID, "two", true)
	if err != nil {
		t.Fatalf("SetChecklistItemDone failed: %v", err)
	}
	if !updated.Checklist[1].Done || ChecklistProgress(updated.Checklist) != 33 {
		t.Errorf("unexpected checklist %+v", updated.Checklist)
	}
	if created.Checklist[1].Done {
		t.Error("previously returned task must not change")
	}

	if _, err := f.svc.SetChecklistItemDone(ctx, created.ID, "four", true); !errors.Is(err, ErrChecklistItemNotFound) {
		t.Errorf("Expected ErrChecklistItemNotFound, got %v", err)
	}
	if _, err := f.svc.SetChecklistItemDone(ctx, "ghost", "one", true); !errors.Is(err, models.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestChecklistProgress(t *testing.T) {
	items := func(done ...bool) []models.ChecklistItem {
		out := make([]models.ChecklistItem, len(done))
		for i, d := range done {
			out[i].Done = d
		}
		return out
	}

	tests := []struct {
		items []models.ChecklistItem
		want  int
	}{
		{nil, 0},
		{items(false), 0},
		{items(true), 100},
		{items(true, false), 50},
		{items(true, false, false), 33},
		{items(true, true, false), 67},
		{items(true, true, true), 100},
	}
	for _, tt := range tests {
		if got := ChecklistProgress(tt.items); got != tt.want {
			t.Errorf("ChecklistProgress(%v) = %d, want %d", tt.items, got, tt.want)
		}
	}
}

// ============================================================================
// INVARIANT, EVENT & RELOAD TESTS
// ============================================================================

func TestContainmentAfterMixedOperations(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()

	var ids []types.TaskID
	for i, col := range types.ColumnIDs() {
		for j := 0; j <= i; j++ {
			ids = append(ids, createTestTask(t, f.svc, col, "task").ID)
		}
	}
	for i, id := range ids {
		target := types.ColumnIDs()[(i*3)%5]
		if err := f.svc.MoveTask(ctx, id, target); err != nil {
			t.Fatalf("MoveTask failed: %v", err)
		}
		if i%4 == 0 {
			if err := f.svc.DeleteTask(ctx, id); err != nil {
				t.Fatalf("DeleteTask failed: %v", err)
			}
		}
	}

	assertContainment(t, f.svc.Board())
	assertContainment(t, f.snaps.stored(t))
	if f.svc.Board().TaskCount() != f.snaps.stored(t).TaskCount() {
		t.Error("memory and snapshot disagree")
	}
}

func TestMutationsPublishEventsWithRevision(t *testing.T) {
	f := setupService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := f.bus.Subscribe(ctx)

	a := createTestTask(t, f.svc, types.ColumnTodo, "a")
	if _, err := f.svc.UpdateTask(ctx, UpdateTaskRequest{TaskID: a.ID, Title: strPtr("b")}); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.MoveTask(ctx, a.ID, types.ColumnDone); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteTask(ctx, a.ID); err != nil {
		t.Fatal(err)
	}

	want := []events.EventType{events.EventTaskCreated, events.EventTaskUpdated, events.EventTaskMoved, events.EventTaskDeleted}
	for i, typ := range want {
		ev := <-ch
		if ev.Type != typ || ev.Revision != uint64(i+1) || ev.TaskID != a.ID {
			t.Errorf("event %d: got %+v, want %s at revision %d", i, ev, typ, i+1)
		}
	}
	if f.svc.Revision() != 4 {
		t.Errorf("Expected revision 4, got %d", f.svc.Revision())
	}

	// a stored cover arrives as an update after the create
	b, err := f.svc.CreateTask(ctx, CreateTaskRequest{
		ColumnID: types.ColumnTodo,
		Title:    "covered",
		Cover:    &models.CoverPayload{Data: pngHeader},
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	for i, typ := range []events.EventType{events.EventTaskCreated, events.EventTaskUpdated} {
		ev := <-ch
		if ev.Type != typ || ev.Revision != uint64(i+5) || ev.TaskID != b.ID {
			t.Errorf("cover event %d: got %+v, want %s at revision %d", i, ev, typ, i+5)
		}
	}
	if f.svc.Revision() != 6 {
		t.Errorf("Expected revision 6 after the cover, got %d", f.svc.Revision())
	}
	if f.snaps.saveCount() != 5 {
		t.Errorf("cover arrival must not save the snapshot, got %d saves", f.snaps.saveCount())
	}
	if !f.svc.Board().Column(types.ColumnTodo).Tasks[0].HasCover() {
		t.Error("Expected the board to carry the cover after the update event")
	}
}

func TestReload(t *testing.T) {
	f := setupService(t)
	createTestTask(t, f.svc, types.ColumnTodo, "a")

	// another writer replaces the stored board
	other := models.DefaultBoard()
	if err := f.snaps.Save(context.Background(), other); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if f.svc.Board().TaskCount() != 0 {
		t.Error("Expected reloaded board to be empty")
	}
	if f.svc.Revision() != 2 {
		t.Errorf("Expected reload to bump revision to 2, got %d", f.svc.Revision())
	}
}

func TestMetrics(t *testing.T) {
	f := setupService(t)
	ctx := context.Background()
	a := createTestTask(t, f.svc, types.ColumnTodo, "a")
	_ = f.svc.MoveTask(ctx, a.ID, types.ColumnDoing)
	_ = f.svc.DeleteTask(ctx, a.ID)

	m := f.svc.Metrics()
	if m.TasksCreated != 1 || m.TasksMoved != 1 || m.TasksDeleted != 1 {
		t.Errorf("unexpected counters %+v", m)
	}
	if m.SnapshotSaves != 3 || m.Revision != 3 || m.TaskCount != 0 {
		t.Errorf("unexpected snapshot metrics %+v", m)
	}
}
