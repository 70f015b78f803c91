// Package blobstore persists one cover image per task, keyed by task id.
//
// Payloads are stored as self-describing data URIs so a record can be handed
// to a presentation layer as is. Writes are all-or-nothing; a failed write
// leaves the previously stored value in place.
package blobstore

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/types"
)

var (
	// ErrEmptyCover is returned when a payload without data is put
	ErrEmptyCover = errors.New("cover image is empty")

	// ErrMalformedDataURI is returned when a stored value cannot be decoded
	ErrMalformedDataURI = errors.New("malformed data URI")
)

// Store is durable key-addressed storage for cover images.
type Store interface {
	// Put writes cover for taskID, replacing any prior value.
	// A nil cover deletes the record; deleting a missing record is not an error.
	Put(ctx context.Context, taskID types.TaskID, cover *models.CoverPayload) error

	// Lookup returns the stored data URI. A missing record is ("", false, nil);
	// an unreadable one returns an error matching models.ErrStorageRead.
	Lookup(ctx context.Context, taskID types.TaskID) (string, bool, error)

	// Close releases the resources owned by the store
	Close() error
}

// Get resolves the cover for taskID, treating read failures as "no image".
// Covers are regenerable, so a failed read is logged and downgraded rather
// than surfaced to the caller. Use Store.Lookup to tell the two apart.
// A nil logger logs to slog.Default.
func Get(ctx context.Context, s Store, taskID types.TaskID, logger *slog.Logger) string {
	uri, _, err := s.Lookup(ctx, taskID)
	if err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("cover image unreadable, treating as absent", "task_id", taskID, "error", err)
		return ""
	}
	return uri
}

// EncodeDataURI encodes a payload as "data:<media type>;base64,<data>".
func EncodeDataURI(cover *models.CoverPayload) (string, error) {
	if cover == nil || len(cover.Data) == 0 {
		return "", ErrEmptyCover
	}

	mediaType := strings.TrimSpace(cover.MediaType)
	if mediaType == "" {
		mediaType = http.DetectContentType(cover.Data)
	}
	// parameters are separated by ';' without spaces inside a data URI
	mediaType = strings.ReplaceAll(mediaType, "; ", ";")

	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(cover.Data), nil
}

// DecodeDataURI reverses EncodeDataURI.
func DecodeDataURI(uri string) (*models.CoverPayload, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, ErrMalformedDataURI
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrMalformedDataURI
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, ErrMalformedDataURI
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Join(ErrMalformedDataURI, err)
	}
	if mediaType == "" {
		mediaType = "text/plain;charset=US-ASCII"
	}
	return &models.CoverPayload{MediaType: mediaType, Data: raw}, nil
}
