package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/tablo/internal/database"
	"github.com/thenoetrevino/tablo/internal/models"
)

const sqliteBackend = "snapshot/sqlite"

// SQLiteStore keeps the board document in the snapshots table of the shared
// database, under a single key.
type SQLiteStore struct {
	db     *sql.DB
	key    string
	logger *slog.Logger
}

// NewSQLite creates a store on an open, migrated database. An empty key uses
// models.SnapshotKey. A nil logger uses slog.Default.
func NewSQLite(db *sql.DB, key string, logger *slog.Logger) *SQLiteStore {
	if key == "" {
		key = models.SnapshotKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{db: db, key: key, logger: logger}
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.Board, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, "SELECT document FROM snapshots WHERE key = ?", s.key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, models.ReadError(sqliteBackend, "", err)
	}

	board, err := Decode([]byte(doc), s.logger)
	if err != nil {
		s.logger.Warn("ignoring malformed board snapshot", "key", s.key, "error", err)
		return nil, nil
	}
	return board, nil
}

func (s *SQLiteStore) Save(ctx context.Context, board *models.Board) error {
	data, err := Encode(board)
	if err != nil {
		return models.WriteError(sqliteBackend, "", fmt.Errorf("encode: %w", err))
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (key, document, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET
				document = excluded.document,
				updated_at = excluded.updated_at
		`, s.key, string(data))
		return err
	})
	if err != nil {
		return models.WriteError(sqliteBackend, "", err)
	}
	return nil
}

// Compile-time verification that *SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
