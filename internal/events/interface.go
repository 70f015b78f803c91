package events

import "context"

// Publisher is the write side of the event stream. The task store depends on
// this interface so tests can observe or drop events.
type Publisher interface {
	// Publish hands the event to every subscriber without blocking
	Publish(event Event)
}

// Subscriber is the read side of the event stream.
type Subscriber interface {
	// Subscribe returns a channel of events that is closed when ctx ends
	Subscribe(ctx context.Context) <-chan Event
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(Event) {}

// Compile-time verification that the implementations satisfy the interfaces
var (
	_ Publisher  = (*Bus)(nil)
	_ Subscriber = (*Bus)(nil)
	_ Publisher  = Nop{}
)
