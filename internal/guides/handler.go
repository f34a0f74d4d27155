package guides

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/guideworks/guide-lab/pkg/handlers"
	"github.com/guideworks/guide-lab/pkg/routes"
)

// Cleaner removes the stored objects belonging to a deleted guide.
// Cleanup is best-effort; failures are logged and never fail the delete.
type Cleaner interface {
	CleanupGuide(ctx context.Context, productCode string) error
}

// Handler provides the read/update/delete HTTP endpoints for guides.
// Creation and photo mutation go through the upload orchestrator's
// handler, which owns the blob side of those flows.
type Handler struct {
	sys     System
	cleaner Cleaner
	logger  *slog.Logger
}

// NewHandler creates a guide handler.
func NewHandler(sys System, cleaner Cleaner, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		cleaner: cleaner,
		logger:  logger.With("handler", "guides"),
	}
}

// Routes returns the guide endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/guides",
		Description: "Guide records",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summaries)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	g, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	g, err := h.sys.Update(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, g)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	// The product code anchors the storage prefix, so it has to be
	// read before the record goes away.
	g, err := h.sys.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if h.cleaner != nil {
		if err := h.cleaner.CleanupGuide(r.Context(), g.ProductCode); err != nil {
			h.logger.Warn("guide storage cleanup failed",
				"id", id, "product_code", g.ProductCode, "error", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
