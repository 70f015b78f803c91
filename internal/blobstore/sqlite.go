package blobstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/thenoetrevino/tablo/internal/database"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/types"
)

const sqliteBackend = "blob/sqlite"

// SQLiteStore keeps covers in the cover_images table of the shared database.
// The table is created by the database migrations.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a store on an open, migrated database. The database is
// owned by the caller; Close does not close it.
func NewSQLite(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Put(ctx context.Context, taskID types.TaskID, cover *models.CoverPayload) error {
	if cover == nil {
		err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "DELETE FROM cover_images WHERE task_id = ?", string(taskID))
			return err
		})
		if err != nil {
			return models.WriteError(sqliteBackend, taskID, err)
		}
		return nil
	}

	uri, err := EncodeDataURI(cover)
	if err != nil {
		return err
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cover_images (task_id, data, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(task_id) DO UPDATE SET
				data = excluded.data,
				updated_at = excluded.updated_at
		`, string(taskID), uri)
		return err
	})
	if err != nil {
		return models.WriteError(sqliteBackend, taskID, err)
	}
	return nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, taskID types.TaskID) (string, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM cover_images WHERE task_id = ?", string(taskID)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, models.ReadError(sqliteBackend, taskID, err)
	}
	return data, true, nil
}

// Close is a no-op; the database belongs to the caller.
func (s *SQLiteStore) Close() error {
	return nil
}

// Compile-time verification that *SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
