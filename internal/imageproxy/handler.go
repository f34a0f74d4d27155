// Package imageproxy relays stored images to browser clients as base64
// payloads, sidestepping canvas-tainting restrictions on cross-origin
// image data.
package imageproxy

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/guideworks/guide-lab/internal/export"
	"github.com/guideworks/guide-lab/pkg/handlers"
	"github.com/guideworks/guide-lab/pkg/routes"
)

// ErrMissingURL indicates the url query parameter was absent.
var ErrMissingURL = errors.New("url parameter required")

// Payload is the proxied image response.
type Payload struct {
	Base64      string `json:"base64"`
	ContentType string `json:"content_type"`
}

// Handler proxies image fetches through the server.
type Handler struct {
	fetcher *export.Fetcher
	logger  *slog.Logger
}

// NewHandler creates an image proxy handler.
func NewHandler(fetcher *export.Fetcher, logger *slog.Logger) *Handler {
	return &Handler{
		fetcher: fetcher,
		logger:  logger.With("handler", "imageproxy"),
	}
}

// Routes returns the image proxy route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/image",
		Description: "Image proxy",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Fetch},
		},
	}
}

func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingURL)
		return
	}

	data, contentType, err := h.fetcher.Fetch(r.Context(), url)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadGateway, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Payload{
		Base64:      base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	})
}
