package task

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/tablo/internal/blobstore"
	"github.com/thenoetrevino/tablo/internal/events"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/notify"
	"github.com/thenoetrevino/tablo/internal/snapshot"
	"github.com/thenoetrevino/tablo/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

var errDiskFull = errors.New("disk full")

// memSnapshots keeps the encoded board in memory and can be told to fail.
type memSnapshots struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	failErr error
	loadErr error
}

func (m *memSnapshots) Load(context.Context) (*models.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.data == nil {
		return nil, nil
	}
	return snapshot.Decode(m.data, nil)
}

func (m *memSnapshots) Save(_ context.Context, b *models.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return models.WriteError("snapshot/memory", "", m.failErr)
	}
	data, err := snapshot.Encode(b)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

func (m *memSnapshots) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *memSnapshots) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *memSnapshots) stored(t *testing.T) *models.Board {
	t.Helper()
	b, err := m.Load(context.Background())
	if err != nil || b == nil {
		t.Fatalf("no stored board: %v", err)
	}
	return b
}

// memBlobs is an in-memory blob store with failure injection and an
// optional gate that blocks Put for one task.
type memBlobs struct {
	mu        sync.Mutex
	data      map[types.TaskID]string
	putErr    error
	lookupErr error
	deletes   int

	gateTask types.TaskID
	gate     chan struct{}
	entered  chan struct{}
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: make(map[types.TaskID]string)}
}

func (m *memBlobs) Put(ctx context.Context, id types.TaskID, p *models.CoverPayload) error {
	m.mu.Lock()
	gate, entered := m.gate, m.entered
	blocked := gate != nil && id == m.gateTask
	m.mu.Unlock()
	if blocked {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return models.WriteError("blob/memory", id, m.putErr)
	}
	if p == nil {
		delete(m.data, id)
		m.deletes++
		return nil
	}
	uri, err := blobstore.EncodeDataURI(p)
	if err != nil {
		return err
	}
	m.data[id] = uri
	return nil
}

func (m *memBlobs) Lookup(_ context.Context, id types.TaskID) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookupErr != nil {
		return "", false, models.ReadError("blob/memory", id, m.lookupErr)
	}
	uri, ok := m.data[id]
	return uri, ok, nil
}

func (m *memBlobs) Close() error { return nil }

func (m *memBlobs) has(id types.TaskID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok
}

func (m *memBlobs) setPutErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

// recordingNotifier keeps every notification for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []notify.Kind
	msgs  []string
}

func (r *recordingNotifier) Notify(message string, kind notify.Kind, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	r.msgs = append(r.msgs, message)
}

func (r *recordingNotifier) last() (notify.Kind, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.kinds) == 0 {
		return "", ""
	}
	return r.kinds[len(r.kinds)-1], r.msgs[len(r.msgs)-1]
}

type fixture struct {
	svc      Service
	snaps    *memSnapshots
	blobs    *memBlobs
	notifier *recordingNotifier
	bus      *events.Bus
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	return setupServiceWith(t, &memSnapshots{}, newMemBlobs())
}

func setupServiceWith(t *testing.T, snaps *memSnapshots, blobs *memBlobs) *fixture {
	t.Helper()
	f := &fixture{
		snaps:    snaps,
		blobs:    blobs,
		notifier: &recordingNotifier{},
		bus:      events.NewBus(64, nil),
	}
	svc, err := NewService(context.Background(), Deps{
		Snapshots: f.snaps,
		Blobs:     f.blobs,
		Events:    f.bus,
		Notifier:  f.notifier,
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	f.svc = svc
	t.Cleanup(f.bus.Close)
	return f
}

func createTestTask(t *testing.T, svc Service, column types.ColumnID, title string) *models.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{ColumnID: column, Title: title})
	if err != nil {
		t.Fatalf("CreateTask(%q) failed: %v", title, err)
	}
	return task
}

func columnIDs(b *models.Board, column types.ColumnID) []types.TaskID {
	var ids []types.TaskID
	for _, t := range b.Column(column).Tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

// assertContainment checks that every task sits in exactly one column and
// its ColumnID names that column.
func assertContainment(t *testing.T, b *models.Board) {
	t.Helper()
	seen := make(map[types.TaskID]types.ColumnID)
	for _, c := range b.Columns {
		for _, task := range c.Tasks {
			if prev, dup := seen[task.ID]; dup {
				t.Errorf("task %s appears in %s and %s", task.ID, prev, c.ID)
			}
			seen[task.ID] = c.ID
			if task.ColumnID != c.ID {
				t.Errorf("task %s has columnId %s but sits in %s", task.ID, task.ColumnID, c.ID)
			}
		}
	}
}

func strPtr(s string) *string { return &s }

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
