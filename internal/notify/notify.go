// Package notify carries transient user-facing messages about store
// operations: toasts for interactive frontends, log lines otherwise.
package notify

import (
	"log/slog"
	"time"
)

// DefaultDuration is how long a toast stays active when no duration is given
const DefaultDuration = 2500 * time.Millisecond

// Kind represents the severity of a notification
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// ParseKind resolves a kind name, defaulting to Info
func ParseKind(s string) Kind {
	switch Kind(s) {
	case Success, Error, Warning:
		return Kind(s)
	default:
		return Info
	}
}

// Notifier receives notifications. A zero duration means the default.
type Notifier interface {
	Notify(message string, kind Kind, duration time.Duration)
}

// Nop discards notifications
type Nop struct{}

func (Nop) Notify(string, Kind, time.Duration) {}

// LogNotifier writes notifications to a structured logger at a level
// matching their kind.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(message string, kind Kind, _ time.Duration) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	switch kind {
	case Error:
		logger.Error(message, "kind", kind)
	case Warning:
		logger.Warn(message, "kind", kind)
	default:
		logger.Info(message, "kind", kind)
	}
}

// Multi fans a notification out to several notifiers
type Multi []Notifier

func (m Multi) Notify(message string, kind Kind, duration time.Duration) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, kind, duration)
		}
	}
}

// Compile-time verification of the implementations
var (
	_ Notifier = Nop{}
	_ Notifier = LogNotifier{}
	_ Notifier = Multi(nil)
	_ Notifier = (*ToastQueue)(nil)
	_ Notifier = (*Printer)(nil)
)
