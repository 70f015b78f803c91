// Package snapshot persists the whole board as a single document.
//
// Saves replace the prior document entirely; there is no partial or merge
// write. Loads return a nil board when no usable document exists, so callers
// fall back to the default board instead of failing startup.
package snapshot

import (
	"context"

	"github.com/thenoetrevino/tablo/internal/models"
)

// Store is whole-document persistence for board metadata.
type Store interface {
	// Load returns the stored board, or nil when the document is absent or
	// malformed. Only backend I/O failures are returned as errors.
	Load(ctx context.Context) (*models.Board, error)

	// Save replaces the stored document with board.
	Save(ctx context.Context, board *models.Board) error
}
