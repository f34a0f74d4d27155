package guides

import (
	"errors"
	"net/http"
)

// Domain errors for guide operations.
var (
	ErrNotFound             = errors.New("guide not found")
	ErrDuplicate            = errors.New("guide already exists")
	ErrProductCodeRequired  = errors.New("product code required")
	ErrPendingUploads       = errors.New("guide has pending uploads")
	ErrTooManyProductPhotos = errors.New("at most 3 product photos allowed")
	ErrMissingReference     = errors.New("entry is missing a durable photo reference")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrProductCodeRequired) ||
		errors.Is(err, ErrTooManyProductPhotos) ||
		errors.Is(err, ErrMissingReference) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrPendingUploads) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
