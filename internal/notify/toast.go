package notify

import (
	"sync"
	"time"
)

// Toast is a single active notification
type Toast struct {
	ID        uint64        `json:"id"`
	Message   string        `json:"message"`
	Kind      Kind          `json:"kind"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ToastQueue keeps the currently active toasts and expires each one after
// its duration.
type ToastQueue struct {
	mu              sync.Mutex
	toasts          []Toast
	timers          map[uint64]*time.Timer
	nextID          uint64
	defaultDuration time.Duration
	closed          bool
}

// NewToastQueue creates a queue. A non-positive defaultDuration uses
// DefaultDuration.
func NewToastQueue(defaultDuration time.Duration) *ToastQueue {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	return &ToastQueue{
		toasts:          []Toast{},
		timers:          make(map[uint64]*time.Timer),
		defaultDuration: defaultDuration,
	}
}

func (q *ToastQueue) Notify(message string, kind Kind, duration time.Duration) {
	q.Add(message, kind, duration)
}

// Add enqueues a toast and returns its id. Toasts added after Close are
// dropped and get id 0.
func (q *ToastQueue) Add(message string, kind Kind, duration time.Duration) uint64 {
	if duration <= 0 {
		duration = q.defaultDuration
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0
	}

	q.nextID++
	id := q.nextID
	q.toasts = append(q.toasts, Toast{
		ID:        id,
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: time.Now(),
	})
	q.timers[id] = time.AfterFunc(duration, func() { q.Dismiss(id) })
	return id
}

// Dismiss removes a toast before it expires. It reports whether the toast
// was still active.
func (q *ToastQueue) Dismiss(id uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i:i], q.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the toasts currently shown, oldest first
func (q *ToastQueue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast(nil), q.toasts...)
}

// Clear removes all toasts
func (q *ToastQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.clearLocked()
}

// Close stops all expiry timers. Later notifications are dropped.
func (q *ToastQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.clearLocked()
}

func (q *ToastQueue) clearLocked() {
	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.toasts = []Toast{}
}
