package storage

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/guideworks/guide-lab/pkg/handlers"
	"github.com/guideworks/guide-lab/pkg/routes"
)

// Handler serves stored blobs over HTTP so durable URLs resolve.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a storage handler.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "storage"),
	}
}

// Routes returns the blob-serving route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/storage",
		Description: "Stored photo retrieval",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{key...}", Handler: h.Serve},
		},
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	data, err := h.sys.Retrieve(r.Context(), key)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, ErrInvalidKey) {
			status = http.StatusBadRequest
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	handlers.RespondBinary(w, http.StatusOK, http.DetectContentType(data), data)
}
