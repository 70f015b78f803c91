package models

// ============================================================================
// FIELD LIMITS
// ============================================================================

// MaxTitleLength is the maximum number of characters in a task title
const MaxTitleLength = 255

// DateLayout is the layout of Task.DueDate
const DateLayout = "2006-01-02"

// ============================================================================
// PERSISTENCE KEYS
// ============================================================================

// SnapshotKey is the fixed key the board document is stored under
const SnapshotKey = "task-board"
