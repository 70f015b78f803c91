package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/events"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/notify"
	"github.com/thenoetrevino/tablo/internal/snapshot"
	"github.com/thenoetrevino/tablo/internal/types"
)

// Service defines all task-related business operations on the board
type Service interface {
	// Read operations
	Board() *models.Board
	Read(fn func(board *models.Board, revision uint64))
	Revision() uint64
	GetTask(ctx context.Context, taskID types.TaskID) (*models.Task, error)

	// Write operations
	CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error)
	UpdateTask(ctx context.Context, req UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID types.TaskID) error

	// Task movements
	MoveTask(ctx context.Context, taskID types.TaskID, target types.ColumnID) error
	ReorderColumn(ctx context.Context, columnID types.ColumnID, ordered []types.TaskID) error

	// Checklist
	SetChecklistItemDone(ctx context.Context, taskID types.TaskID, itemID types.ChecklistItemID, done bool) (*models.Task, error)

	// Reload replaces the in-memory board with the persisted one
	Reload(ctx context.Context) error

	Metrics() MetricsSnapshot
}

// CreateTaskRequest encapsulates all data needed to create a task
type CreateTaskRequest struct {
	ColumnID    types.ColumnID
	Title       string
	Description string
	Assignee    []string
	DueDate     string // YYYY-MM-DD or empty
	Label       string // empty means Undefined
	Priority    string // empty means none
	Checklist   []models.ChecklistItem
	Attachments []string
	Cover       *models.CoverPayload // Optional
}

// UpdateTaskRequest encapsulates all data needed to update a task
// Fields with pointers are optional - nil means don't update
type UpdateTaskRequest struct {
	TaskID      types.TaskID
	Title       *string
	Description *string
	Assignee    *[]string
	DueDate     *string
	Label       *string
	Priority    *string
	Checklist   *[]models.ChecklistItem
	Attachments *[]string

	// CoverSet marks Cover as explicitly given; a nil Cover then removes it
	CoverSet bool
	Cover    *models.CoverPayload
}

// Deps are the collaborators of the task store
type Deps struct {
	Snapshots snapshot.Store
	Blobs     blobstore.Store
	Events    events.Publisher // Optional
	Notifier  notify.Notifier  // Optional
	Logger    *slog.Logger     // Optional

	// HydrateConcurrency bounds parallel cover reads at load; 0 means 8
	HydrateConcurrency int

	// Now overrides the clock for ids and timestamps
	Now func() time.Time
}

// service implements Service interface
type service struct {
	// mu guards board and revision. It is held around in-memory mutation
	// plus the snapshot save, never across blob I/O.
	mu       sync.RWMutex
	board    *models.Board
	revision uint64

	// locks serializes operations on the same task across both storage phases
	locks *keyedMutex

	snapshots    snapshot.Store
	blobs        blobstore.Store
	events       events.Publisher
	notifier     notify.Notifier
	logger       *slog.Logger
	metrics      *Metrics
	now          func() time.Time
	hydrateLimit int
}

// NewService loads the persisted board, falling back to the default board,
// hydrates cover images and returns a ready store.
func NewService(ctx context.Context, deps Deps) (Service, error) {
	if deps.Snapshots == nil || deps.Blobs == nil {
		return nil, fmt.Errorf("task store requires snapshot and blob stores")
	}

	s := &service{
		locks:        newKeyedMutex(),
		snapshots:    deps.Snapshots,
		blobs:        deps.Blobs,
		events:       deps.Events,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		metrics:      NewMetrics(),
		now:          deps.Now,
		hydrateLimit: deps.HydrateConcurrency,
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.hydrateLimit <= 0 {
		s.hydrateLimit = 8
	}

	board, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.board = board
	return s, nil
}

// load reads the snapshot and resolves every task's cover. A missing or
// malformed document yields the default board.
func (s *service) load(ctx context.Context) (*models.Board, error) {
	board, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	if board == nil {
		s.logger.Info("no saved board, starting with the default columns")
		board = models.DefaultBoard()
	}

	if err := s.hydrateCovers(ctx, board); err != nil {
		return nil, err
	}
	s.logger.Info("board loaded", "tasks", board.TaskCount())
	return board, nil
}

// hydrateCovers reads covers concurrently through the lossy blob read; a
// failed read leaves the task without a cover.
func (s *service) hydrateCovers(ctx context.Context, board *models.Board) error {
	tasks := board.Tasks()
	covers := make([]string, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.hydrateLimit)
	for i, t := range tasks {
		g.Go(func() error {
			covers[i] = blobstore.Get(gctx, s.blobs, t.ID, s.logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, t := range tasks {
		t.CoverImage = covers[i]
	}
	return nil
}

// Board returns the live board. It is only safe to walk while no mutation
// runs; concurrent readers should use Read.
func (s *service) Board() *models.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board
}

// Read calls fn with the live board and its revision under the read lock.
// fn must not retain the board or call back into the store.
func (s *service) Read(fn func(board *models.Board, revision uint64)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.board, s.revision)
}

// Revision increases by one on every committed mutation
func (s *service) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

func (s *service) GetTask(ctx context.Context, taskID types.TaskID) (*models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	col, idx, ok := s.board.FindTask(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return col.Tasks[idx].Clone(), nil
}

func (s *service) Reload(ctx context.Context) error {
	board, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.board = board
	s.revision++
	rev := s.revision
	s.mu.Unlock()

	s.publish(events.EventBoardReloaded, "", "", rev)
	return nil
}

func (s *service) Metrics() MetricsSnapshot {
	snap := s.metrics.GetSnapshot()
	s.mu.RLock()
	snap.TaskCount = s.board.TaskCount()
	snap.Revision = s.revision
	s.mu.RUnlock()
	return snap
}

// ============================================================================
// HELPERS
// ============================================================================

// commitLocked saves the board and bumps the revision. Callers hold s.mu and
// undo their mutation when it fails.
func (s *service) commitLocked(ctx context.Context) (uint64, error) {
	if err := s.snapshots.Save(ctx, s.board); err != nil {
		s.metrics.IncSnapshotFailures()
		return 0, fmt.Errorf("failed to save board: %w", err)
	}
	s.metrics.IncSnapshotSaves()
	s.revision++
	return s.revision, nil
}

func (s *service) publish(kind events.EventType, taskID types.TaskID, columnID types.ColumnID, rev uint64) {
	s.events.Publish(events.Event{
		Type:      kind,
		TaskID:    taskID,
		ColumnID:  columnID,
		Revision:  rev,
		Timestamp: s.now(),
	})
}

// newTaskIDLocked returns an id not yet on the board. Callers hold s.mu for
// reading or writing.
func (s *service) newTaskIDLocked() types.TaskID {
	for {
		id := types.NewTaskID(s.now())
		if _, _, exists := s.board.FindTask(id); !exists {
			return id
		}
	}
}
