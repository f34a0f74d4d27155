package storage

import "context"

// ProgressFunc receives upload progress as a percentage from 0 to 100.
// Implementations guarantee monotonically non-decreasing values and a
// final call with 100 on success.
type ProgressFunc func(percent int)

// System defines the blob storage operations interface.
// Implementations handle the underlying storage mechanism while providing
// a consistent API for storing and retrieving guide photos.
type System interface {
	// Store saves data at the specified key, reporting fractional progress
	// through the optional progress callback. If the key already exists,
	// its contents are overwritten. Parent directories are created as needed.
	// Returns ErrInvalidKey if the key is empty or contains path traversal.
	Store(ctx context.Context, key string, data []byte, progress ProgressFunc) error

	// Retrieve returns the data stored at the specified key.
	// Returns ErrNotFound if the key does not exist.
	Retrieve(ctx context.Context, key string) ([]byte, error)

	// Delete removes the data at the specified key.
	// Returns nil if the key does not exist (idempotent).
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every object stored under the given key
	// prefix. Removing an absent prefix is a no-op.
	DeletePrefix(ctx context.Context, prefix string) error

	// Validate checks if a key exists and is accessible.
	// Returns (true, nil) if the key exists and is readable.
	// Returns (false, nil) if the key does not exist.
	// Returns (false, error) for permission or system errors.
	Validate(ctx context.Context, key string) (bool, error)

	// URL returns the durable retrieval reference for a stored key.
	URL(key string) string

	// Key maps a durable reference produced by URL back to its storage
	// key. Returns false for references that do not belong to this store.
	Key(url string) (string, bool)

	// Start initializes the storage backing, creating the base
	// directory for filesystem storage.
	Start() error
}
