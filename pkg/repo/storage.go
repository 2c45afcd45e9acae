package repo

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Storage persists config snapshots.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Write stores data with the given key.
	Write(ctx context.Context, key string, data []byte) error

	// Read retrieves data for the given key.
	// Returns os.ErrNotExist if the key does not exist.
	Read(ctx context.Context, key string) ([]byte, error)

	// List returns keys matching the given prefix, sorted descending (newest first).
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data for the given key, a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// OpenStorage returns a blob storage for bucket urls like gs://bucket and a filesystem storage otherwise
func OpenStorage(ctx context.Context, location, prefix string) (Storage, error) {
	switch {
	case location == "":
		return nil, errors.New("empty storage location")
	case strings.HasPrefix(location, "file://"):
		return NewFilesystemStorage(filepath.Join(strings.TrimPrefix(location, "file://"), prefix))
	case strings.Contains(location, "://"):
		return NewBlobStorage(ctx, location, prefix)
	default:
		return NewFilesystemStorage(filepath.Join(location, prefix))
	}
}
