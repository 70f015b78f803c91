package task

import (
	"context"
	"sync"

	"github.com/thenoetrevino/tablo/internal/types"
)

// keyedMutex is a set of per-task locks. Entries exist only while someone
// holds or waits for them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[types.TaskID]*taskLock
}

type taskLock struct {
	sem  chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[types.TaskID]*taskLock)}
}

// Lock blocks until the lock for id is held or ctx ends. The returned
// function releases it.
func (k *keyedMutex) Lock(ctx context.Context, id types.TaskID) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[id]
	if !ok {
		l = &taskLock{sem: make(chan struct{}, 1)}
		k.locks[id] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-l.sem
				k.release(id, l)
			})
		}, nil
	case <-ctx.Done():
		k.release(id, l)
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) release(id types.TaskID, l *taskLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, id)
	}
}

// held returns the number of ids with holders or waiters
func (k *keyedMutex) held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
