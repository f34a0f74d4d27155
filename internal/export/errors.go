package export

import (
	"errors"
	"net/http"

	"github.com/guideworks/guide-lab/internal/guides"
)

var (
	// ErrRenderFailed indicates the PDF engine rejected the assembled document.
	ErrRenderFailed = errors.New("render failed")

	// ErrFetchFailed indicates a referenced image could not be retrieved.
	ErrFetchFailed = errors.New("image fetch failed")
)

// MapHTTPStatus maps export errors to HTTP status codes, delegating
// guide errors to the guides package.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRenderFailed):
		return http.StatusInternalServerError
	case errors.Is(err, ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return guides.MapHTTPStatus(err)
	}
}
