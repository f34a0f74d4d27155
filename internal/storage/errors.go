// Package storage provides blob storage for guide photos. It defines a
// System interface for upload, retrieval, and deletion of binary objects
// addressed by deterministic keys, and includes a filesystem implementation
// that maps keys to files under a configurable base path and serves them
// back over HTTP as durable URLs.
package storage

import "errors"

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrPermissionDenied indicates insufficient permissions to access the key.
	ErrPermissionDenied = errors.New("storage: permission denied")

	// ErrInvalidKey indicates the key is malformed or contains invalid characters.
	// This includes empty keys and path traversal attempts.
	ErrInvalidKey = errors.New("storage: invalid key")
)
