// Package events fans committed board changes out to in-process listeners
// such as the HTTP event stream.
package events

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the per-subscriber queue length
const DefaultBufferSize = 32

type subscriber struct {
	ch        chan Event
	closeOnce sync.Once
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Bus delivers each published event to all current subscribers. A subscriber
// whose queue is full misses the event; Publish never blocks.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	bufferSize  int
	closed      bool
	done        chan struct{} // closed by Close
	watchers    sync.WaitGroup
	logger      *slog.Logger

	published atomic.Int64
	dropped   atomic.Int64
}

// NewBus creates a bus. A non-positive bufferSize uses DefaultBufferSize and
// a nil logger uses slog.Default.
func NewBus(bufferSize int, logger *slog.Logger) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		subscribers: make(map[*subscriber]struct{}),
		bufferSize:  bufferSize,
		done:        make(chan struct{}),
		logger:      logger,
	}
}

func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	b.published.Add(1)
	for s := range b.subscribers {
		// Non-blocking send - if subscriber is slow, skip
		select {
		case s.ch <- event:
		default:
			b.dropped.Add(1)
			b.logger.Debug("subscriber queue full, event dropped", "event_type", event.Type, "task_id", event.TaskID)
		}
	}
}

func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	s := &subscriber{ch: make(chan Event, b.bufferSize)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		s.close()
		return s.ch
	}
	b.subscribers[s] = struct{}{}
	b.watchers.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.watchers.Done()
		select {
		case <-ctx.Done():
			b.remove(s)
		case <-b.done:
			// Close already closed the channel
		}
	}()
	return s.ch
}

func (b *Bus) remove(s *subscriber) {
	b.mu.Lock()
	delete(b.subscribers, s)
	b.mu.Unlock()
	s.close()
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Published returns the number of events accepted by Publish
func (b *Bus) Published() int64 {
	return b.published.Load()
}

// Dropped returns the number of per-subscriber deliveries skipped because a
// queue was full
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel and waits for the subscription
// watchers to exit. Later publishes are ignored and later subscriptions
// receive an already closed channel.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.done)
	for s := range b.subscribers {
		s.close()
	}
	b.subscribers = make(map[*subscriber]struct{})
	b.mu.Unlock()

	b.watchers.Wait()
}
