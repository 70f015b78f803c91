package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thenoetrevino/tablo/internal/models"
)

const fileBackend = "snapshot/file"

// FileStore keeps the board document in a single JSON file.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFile creates a store writing to path. The parent directory is created on
// the first save. A nil logger uses slog.Default.
func NewFile(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the location of the document
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(ctx context.Context) (*models.Board, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, models.ReadError(fileBackend, "", err)
	}

	board, err := Decode(data, s.logger)
	if err != nil {
		s.logger.Warn("ignoring malformed board snapshot", "path", s.path, "error", err)
		return nil, nil
	}
	return board, nil
}

// Save writes the document to a temporary file and renames it over the old
// one, so a crash mid-write never leaves a truncated document.
func (s *FileStore) Save(ctx context.Context, board *models.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(board)
	if err != nil {
		return models.WriteError(fileBackend, "", fmt.Errorf("encode: %w", err))
	}

	if err := writeAtomic(s.path, data); err != nil {
		return models.WriteError(fileBackend, "", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Compile-time verification that *FileStore implements Store
var _ Store = (*FileStore)(nil)
