package task

import (
	"sync/atomic"
	"time"
)

// Metrics tracks store statistics using atomic operations for thread-safety
type Metrics struct {
	TasksCreated     atomic.Int64
	TasksUpdated     atomic.Int64
	TasksDeleted     atomic.Int64
	TasksMoved       atomic.Int64
	ColumnsReordered atomic.Int64
	SnapshotSaves    atomic.Int64
	SnapshotFailures atomic.Int64
	CoverWrites      atomic.Int64
	CoverFailures    atomic.Int64
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

func (m *Metrics) IncTasksCreated()     { m.TasksCreated.Add(1) }
func (m *Metrics) IncTasksUpdated()     { m.TasksUpdated.Add(1) }
func (m *Metrics) IncTasksDeleted()     { m.TasksDeleted.Add(1) }
func (m *Metrics) IncTasksMoved()       { m.TasksMoved.Add(1) }
func (m *Metrics) IncColumnsReordered() { m.ColumnsReordered.Add(1) }
func (m *Metrics) IncSnapshotSaves()    { m.SnapshotSaves.Add(1) }
func (m *Metrics) IncSnapshotFailures() { m.SnapshotFailures.Add(1) }
func (m *Metrics) IncCoverWrites()      { m.CoverWrites.Add(1) }
func (m *Metrics) IncCoverFailures()    { m.CoverFailures.Add(1) }

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	TasksCreated     int64     `json:"tasks_created"`
	TasksUpdated     int64     `json:"tasks_updated"`
	TasksDeleted     int64     `json:"tasks_deleted"`
	TasksMoved       int64     `json:"tasks_moved"`
	ColumnsReordered int64     `json:"columns_reordered"`
	SnapshotSaves    int64     `json:"snapshot_saves"`
	SnapshotFailures int64     `json:"snapshot_failures"`
	CoverWrites      int64     `json:"cover_writes"`
	CoverFailures    int64     `json:"cover_failures"`
	TaskCount        int       `json:"task_count"`
	Revision         uint64    `json:"revision"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		TasksCreated:     m.TasksCreated.Load(),
		TasksUpdated:     m.TasksUpdated.Load(),
		TasksDeleted:     m.TasksDeleted.Load(),
		TasksMoved:       m.TasksMoved.Load(),
		ColumnsReordered: m.ColumnsReordered.Load(),
		SnapshotSaves:    m.SnapshotSaves.Load(),
		SnapshotFailures: m.SnapshotFailures.Load(),
		CoverWrites:      m.CoverWrites.Load(),
		CoverFailures:    m.CoverFailures.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).String(),
	}
}
