package server

import (
	"sync/atomic"
	"time"
)

// Metrics tracks API statistics using atomic operations for thread-safety
type Metrics struct {
	Requests         atomic.Int64
	Errors           atomic.Int64
	EventsSent       atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

func (m *Metrics) IncRequests() {
	m.Requests.Add(1)
}

func (m *Metrics) IncErrors() {
	m.Errors.Add(1)
}

func (m *Metrics) IncEventsSent() {
	m.EventsSent.Add(1)
}

// ClientConnected and ClientDisconnected track open event streams
func (m *Metrics) ClientConnected() {
	m.ConnectedClients.Add(1)
}

func (m *Metrics) ClientDisconnected() {
	m.ConnectedClients.Add(-1)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Requests         int64     `json:"requests"`
	Errors           int64     `json:"errors"`
	EventsSent       int64     `json:"events_sent"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:         m.Requests.Load(),
		Errors:           m.Errors.Load(),
		EventsSent:       m.EventsSent.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).String(),
	}
}
