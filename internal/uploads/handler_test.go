package uploads

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/guideworks/guide-lab/internal/guides"
)

type fakeGuides struct {
	stored map[uuid.UUID]*guides.Guide
}

func newFakeGuides(stored ...*guides.Guide) *fakeGuides {
	f := &fakeGuides{stored: map[uuid.UUID]*guides.Guide{}}
	for _, g := range stored {
		f.stored[g.ID] = g
	}
	return f
}

func (f *fakeGuides) List(ctx context.Context) ([]guides.Summary, error) {
	return nil, nil
}

func (f *fakeGuides) Find(ctx context.Context, id uuid.UUID) (*guides.Guide, error) {
	g, ok := f.stored[id]
	if !ok {
		return nil, guides.ErrNotFound
	}
	return g, nil
}

func (f *fakeGuides) Create(ctx context.Context, g *guides.Guide) (*guides.Guide, error) {
	g.ID = uuid.New()
	f.stored[g.ID] = g
	return g, nil
}

func (f *fakeGuides) Update(ctx context.Context, id uuid.UUID, cmd guides.UpdateCommand) (*guides.Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	g, ok := f.stored[id]
	if !ok {
		return nil, guides.ErrNotFound
	}
	g.ProductCode = guides.NormalizeProductCode(cmd.ProductCode)
	g.ProductPhotos = cmd.ProductPhotos
	g.PartImages = cmd.PartImages
	g.Steps = cmd.Steps
	return g, nil
}

func (f *fakeGuides) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.stored, id)
	return nil
}

func newTestHandler(store *fakeStorage, sys guides.System) http.Handler {
	h := NewHandler(testOrchestrator(store), sys, testLogger(), 1<<20)

	mux := http.NewServeMux()
	for _, route := range h.Routes().Routes {
		mux.HandleFunc(route.Method+" /guides"+route.Pattern, route.Handler)
	}
	return mux
}

type draftForm struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newDraftForm() *draftForm {
	f := &draftForm{}
	f.writer = multipart.NewWriter(&f.buf)
	return f
}

func (f *draftForm) field(name, value string) {
	f.writer.WriteField(name, value)
}

func (f *draftForm) file(field, name, content string) {
	part, _ := f.writer.CreateFormFile(field, name)
	io.WriteString(part, content)
}

func (f *draftForm) request(method, target string) *http.Request {
	f.writer.Close()
	req := httptest.NewRequest(method, target, &f.buf)
	req.Header.Set("Content-Type", f.writer.FormDataContentType())
	return req
}

func TestHandler_Create(t *testing.T) {
	store := newFakeStorage()
	sys := newFakeGuides()
	mux := newTestHandler(store, sys)

	form := newDraftForm()
	form.field(fieldProductCode, "ab12")
	form.file(fieldProductPhotos, "front.png", "p1")
	form.file(fieldProductPhotos, "side.png", "p2")
	form.file(fieldPartImages, "frame.png", "f1")
	form.field(fieldPartDescriptions, "Gövde")
	form.file(fieldStepImages, "step1.png", "s1")
	form.field(fieldStepDescriptions, "attach the frame")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides?session=session-1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Upload-Session") != "session-1" {
		t.Errorf("expected the caller session to echo back, got %q", rec.Header().Get("X-Upload-Session"))
	}

	var created guides.Guide
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}

	if created.ProductCode != "AB12" {
		t.Errorf("expected normalized product code, got %q", created.ProductCode)
	}
	if len(created.ProductPhotos) != 2 || len(created.PartImages) != 1 || len(created.Steps) != 1 {
		t.Fatalf("unexpected collection sizes %+v", created)
	}
	if created.ProductPhotos[0] != "http://files/guides/AB12/product/ab12_product_1" {
		t.Errorf("unexpected product photo URL %q", created.ProductPhotos[0])
	}
	if created.PartImages[0].Description != "Gövde" {
		t.Errorf("unexpected part description %q", created.PartImages[0].Description)
	}
	if created.Steps[0].Description != "attach the frame" {
		t.Errorf("unexpected step description %q", created.Steps[0].Description)
	}

	if len(sys.stored) != 1 {
		t.Error("expected the guide to be persisted")
	}
	if string(store.objects["guides/AB12/step/ab12_step_1"]) != "s1" {
		t.Error("expected the step blob at its deterministic path")
	}
}

func TestHandler_Create_DropsProductOverflow(t *testing.T) {
	store := newFakeStorage()
	mux := newTestHandler(store, newFakeGuides())

	form := newDraftForm()
	form.field(fieldProductCode, "ab12")
	for _, name := range []string{"1.png", "2.png", "3.png", "4.png", "5.png"} {
		form.file(fieldProductPhotos, name, "p")
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var created guides.Guide
	json.NewDecoder(rec.Body).Decode(&created)
	if len(created.ProductPhotos) != guides.MaxProductPhotos {
		t.Errorf("expected overflow to drop silently, got %d photos", len(created.ProductPhotos))
	}
}

func TestHandler_Create_RequiresProductCode(t *testing.T) {
	mux := newTestHandler(newFakeStorage(), newFakeGuides())

	form := newDraftForm()
	form.file(fieldProductPhotos, "front.png", "p1")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_Create_GeneratesSession(t *testing.T) {
	mux := newTestHandler(newFakeStorage(), newFakeGuides())

	form := newDraftForm()
	form.field(fieldProductCode, "ab12")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get("X-Upload-Session") == "" {
		t.Error("expected a generated session identifier")
	}
}

func TestHandler_AddPhoto(t *testing.T) {
	store := newFakeStorage()
	g := persistedGuide()
	g.ID = uuid.New()
	sys := newFakeGuides(g)
	mux := newTestHandler(store, sys)

	form := newDraftForm()
	form.file("file", "extra.png", "p2")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides/"+g.ID.String()+"/photos/product"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated guides.Guide
	json.NewDecoder(rec.Body).Decode(&updated)
	if len(updated.ProductPhotos) != 2 {
		t.Errorf("expected 2 product photos after add, got %d", len(updated.ProductPhotos))
	}
}

func TestHandler_AddPhoto_InvalidCollection(t *testing.T) {
	g := persistedGuide()
	g.ID = uuid.New()
	mux := newTestHandler(newFakeStorage(), newFakeGuides(g))

	form := newDraftForm()
	form.file("file", "extra.png", "p")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides/"+g.ID.String()+"/photos/album"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_ReplacePhoto(t *testing.T) {
	store := newFakeStorage()
	g := persistedGuide()
	g.ID = uuid.New()
	mux := newTestHandler(store, newFakeGuides(g))

	form := newDraftForm()
	form.file("file", "better.png", "better")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("PUT", "/guides/"+g.ID.String()+"/photos/part/0"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if string(store.objects["guides/AB12/part/ab12_part_1"]) != "better" {
		t.Error("expected the replacement blob at its deterministic path")
	}
}

func TestHandler_DeletePhoto(t *testing.T) {
	store := newFakeStorage()
	g := persistedGuide()
	g.ID = uuid.New()
	sys := newFakeGuides(g)
	mux := newTestHandler(store, sys)

	req := httptest.NewRequest("DELETE", "/guides/"+g.ID.String()+"/photos/step/0", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated guides.Guide
	json.NewDecoder(rec.Body).Decode(&updated)
	if len(updated.Steps) != 0 {
		t.Errorf("expected the step to be removed, got %d", len(updated.Steps))
	}
	if len(store.deleted) != 1 {
		t.Errorf("expected one best-effort storage delete, got %v", store.deleted)
	}
}

func TestHandler_Create_BodyTooLarge(t *testing.T) {
	mux := newTestHandler(newFakeStorage(), newFakeGuides())

	// Each file sits under the per-file limit; together they exceed the
	// request cap.
	form := newDraftForm()
	form.field(fieldProductCode, "ab12")
	form.file(fieldProductPhotos, "front.png", strings.Repeat("x", 700*1024))
	form.file(fieldProductPhotos, "side.png", strings.Repeat("y", 700*1024))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides"))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestHandler_AddPhoto_GuideNotFound(t *testing.T) {
	mux := newTestHandler(newFakeStorage(), newFakeGuides())

	form := newDraftForm()
	form.file("file", "extra.png", "p")

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, form.request("POST", "/guides/"+uuid.NewString()+"/photos/product"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
