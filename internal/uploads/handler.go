package uploads

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/guideworks/guide-lab/internal/guides"
	"github.com/guideworks/guide-lab/pkg/handlers"
	"github.com/guideworks/guide-lab/pkg/routes"
)

// Multipart field names for draft submission.
const (
	fieldProductCode      = "product_code"
	fieldProductPhotos    = "product_photos"
	fieldPartImages       = "part_images"
	fieldPartDescriptions = "part_descriptions"
	fieldStepImages       = "step_images"
	fieldStepDescriptions = "step_descriptions"
)

// Handler provides the HTTP endpoints that move photo bytes: draft
// submission (guide creation) and the photo add/replace/delete flows on
// persisted guides.
type Handler struct {
	orchestrator  *Orchestrator
	sys           guides.System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates an uploads handler.
func NewHandler(orchestrator *Orchestrator, sys guides.System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		orchestrator:  orchestrator,
		sys:           sys,
		logger:        logger.With("handler", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the upload endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/guides",
		Description: "Guide creation and photo management",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/{id}/photos/{collection}", Handler: h.AddPhoto},
			{Method: "PUT", Pattern: "/{id}/photos/{collection}/{index}", Handler: h.ReplacePhoto},
			{Method: "DELETE", Pattern: "/{id}/photos/{collection}/{index}", Handler: h.DeletePhoto},
		},
	}
}

// Create accepts a multipart draft submission, replays it through the
// draft state machine, resolves every pending photo to a durable
// reference, and persists the guide. Progress events stream under the
// session identifier returned in the X-Upload-Session header (clients
// may supply their own via the "session" query parameter and subscribe
// before submitting).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	session := r.URL.Query().Get("session")
	if session == "" {
		session = uuid.New().String()
	}

	draft, err := h.buildDraft(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	resolved, err := h.orchestrator.Resolve(r.Context(), session, draft)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	created, err := h.sys.Create(r.Context(), resolved)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("X-Upload-Session", session)
	handlers.RespondJSON(w, http.StatusCreated, created)
}

// buildDraft replays the multipart submission through the draft state
// machine, so the same admission rules apply as in an interactive
// editing session.
func (h *Handler) buildDraft(r *http.Request) (*guides.Draft, error) {
	draft := guides.NewDraft()
	draft.SetProductCode(r.FormValue(fieldProductCode))

	form := r.MultipartForm
	if form == nil {
		return draft, nil
	}

	productFiles, err := readFiles(form.File[fieldProductPhotos], h.maxUploadSize)
	if err != nil {
		return nil, err
	}
	draft.AddProductPhotos(productFiles)

	partFiles, err := readFiles(form.File[fieldPartImages], h.maxUploadSize)
	if err != nil {
		return nil, err
	}
	draft.AddPartImages(partFiles)
	for i, desc := range form.Value[fieldPartDescriptions] {
		draft.SetPartDescription(i, desc)
	}

	stepFiles, err := readFiles(form.File[fieldStepImages], h.maxUploadSize)
	if err != nil {
		return nil, err
	}
	stepDescs := form.Value[fieldStepDescriptions]
	for i, file := range stepFiles {
		draft.SelectStepCandidate(file)
		if i < len(stepDescs) {
			draft.SetStepDescription(stepDescs[i])
		}
		draft.SaveStep()
	}

	return draft, nil
}

func (h *Handler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	id, collection, _, err := h.pathParams(r, false)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	data, err := h.formFile(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	g, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if collection == CollectionStep {
		err = h.orchestrator.AddStep(r.Context(), g, data, r.FormValue("description"))
	} else {
		err = h.orchestrator.AddPhoto(r.Context(), g, collection, data)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.persist(w, r, g)
}

func (h *Handler) ReplacePhoto(w http.ResponseWriter, r *http.Request) {
	id, collection, index, err := h.pathParams(r, true)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	data, err := h.formFile(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	g, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if err := h.orchestrator.ReplacePhoto(r.Context(), g, collection, index, data); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.persist(w, r, g)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, collection, index, err := h.pathParams(r, true)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	g, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.orchestrator.DeletePhoto(r.Context(), g, collection, index)

	h.persist(w, r, g)
}

// persist writes the mutated guide record back as a full overwrite and
// responds with the stored state.
func (h *Handler) persist(w http.ResponseWriter, r *http.Request, g *guides.Guide) {
	updated, err := h.sys.Update(r.Context(), g.ID, guides.UpdateCommand{
		ProductCode:   g.ProductCode,
		ProductPhotos: g.ProductPhotos,
		PartImages:    g.PartImages,
		Steps:         g.Steps,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) pathParams(r *http.Request, wantIndex bool) (uuid.UUID, Collection, int, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, "", 0, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	collection, err := ParseCollection(r.PathValue("collection"))
	if err != nil {
		return uuid.Nil, "", 0, err
	}

	index := 0
	if wantIndex {
		index, err = strconv.Atoi(r.PathValue("index"))
		if err != nil {
			return uuid.Nil, "", 0, fmt.Errorf("%w: invalid index", ErrIndexOutOfRange)
		}
	}

	return id, collection, index, nil
}

func (h *Handler) formFile(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		return nil, ErrFileTooLarge
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, ErrInvalidFile
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		return nil, ErrFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, ErrInvalidFile
	}
	return data, nil
}

// readFiles loads every part of a multipart file list into pending
// image sources, preserving input order.
func readFiles(files []*multipart.FileHeader, maxSize int64) ([]guides.ImageSource, error) {
	sources := make([]guides.ImageSource, 0, len(files))

	for _, header := range files {
		if header.Size > maxSize {
			return nil, ErrFileTooLarge
		}

		file, err := header.Open()
		if err != nil {
			return nil, ErrInvalidFile
		}

		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, ErrInvalidFile
		}

		sources = append(sources, guides.ImageSource{
			Data:        data,
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	return sources, nil
}
