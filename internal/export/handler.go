package export

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/guideworks/guide-lab/internal/guides"
	"github.com/guideworks/guide-lab/pkg/handlers"
	"github.com/guideworks/guide-lab/pkg/routes"
)

// Handler exposes PDF export for persisted guides. Only fully-resolved,
// saved guides can be exported through this endpoint; draft previews
// happen client side against in-memory blobs.
type Handler struct {
	exporter *Exporter
	sys      guides.System
	logger   *slog.Logger
}

// NewHandler creates an export handler.
func NewHandler(exporter *Exporter, sys guides.System, logger *slog.Logger) *Handler {
	return &Handler{
		exporter: exporter,
		sys:      sys,
		logger:   logger.With("handler", "export"),
	}
}

// Routes returns the export endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/guides",
		Description: "Guide PDF export",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/export", Handler: h.Export},
		},
	}
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
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

	data, err := h.exporter.Export(r.Context(), g)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", g.ProductCode+".pdf"))
	handlers.RespondBinary(w, http.StatusOK, "application/pdf", data)
}
