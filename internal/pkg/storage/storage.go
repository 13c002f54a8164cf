package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("file not found")

// FileStorage stores small state files under relative paths.
type FileStorage interface {
	// Put replaces the file at path atomically
	Put(ctx context.Context, path string, content io.Reader) error

	// Get opens the file at path; ErrNotFound if it does not exist
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
