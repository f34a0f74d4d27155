// Package uploads orchestrates photo uploads for guide drafts and
// persisted guides: it resolves pending local blobs to durable storage
// references under a deterministic path scheme, reports per-entry
// progress, and handles the photo add/replace/delete flows.
package uploads

import (
	"errors"
	"net/http"

	"github.com/guideworks/guide-lab/internal/guides"
)

// Orchestration errors.
var (
	// ErrUploadFailed indicates one or more uploads in a batch failed.
	// Persistence is withheld; objects already uploaded are left in place.
	ErrUploadFailed = errors.New("photo upload failed")

	// ErrInvalidCollection indicates an unknown photo collection name.
	ErrInvalidCollection = errors.New("invalid photo collection")

	// ErrIndexOutOfRange indicates a photo index beyond the collection bounds.
	ErrIndexOutOfRange = errors.New("photo index out of range")

	// ErrInvalidFile indicates a missing or unreadable uploaded file.
	ErrInvalidFile = errors.New("invalid file")

	// ErrFileTooLarge indicates an upload beyond the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// MapHTTPStatus converts orchestration and guide errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUploadFailed) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrInvalidCollection) ||
		errors.Is(err, ErrIndexOutOfRange) ||
		errors.Is(err, ErrInvalidFile) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrFileTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return guides.MapHTTPStatus(err)
}
