package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/guideworks/guide-lab/internal/config"
	"github.com/guideworks/guide-lab/internal/guides"
)

// A4 geometry in points, top-left origin.
const (
	pageWidth  = 595.0
	pageHeight = 842.0
	margin     = 50.0
	contentW   = pageWidth - 2*margin
)

// Cover section geometry.
const (
	coverTitleY  = 120.0
	coverPhotoY  = 220.0
	coverPhotoW  = 155.0
	coverPhotoH  = 200.0
	coverPhotoGX = 15.0
)

// Parts section geometry: a two column grid of captioned images.
const (
	partCols    = 2
	partCellW   = contentW / partCols
	partImageW  = 200.0
	partImageH  = 150.0
	partRowH    = 210.0
	partFirstY  = 110.0
	partCaption = 160.0
)

// Steps section geometry. Each step block is placed whole; a block that
// does not fit in the remaining space opens a new page.
const (
	stepFirstY  = 100.0
	stepBlockH  = 230.0
	stepImageW  = 200.0
	stepImageH  = 150.0
	stepTextGap = 24.0
)

const placeholderColor = "#E0E0E0"

// Exporter renders guide layouts to PDF. Remote images are fetched and
// embedded; a fetch failure degrades that image to a placeholder box
// rather than failing the whole document.
type Exporter struct {
	fetcher *Fetcher
	font    string
	logger  *slog.Logger
}

// New creates an exporter from export configuration.
func New(cfg *config.ExportConfig, logger *slog.Logger) *Exporter {
	return &Exporter{
		fetcher: NewFetcher(cfg.FetchTimeoutDuration()),
		font:    cfg.Font,
		logger:  logger.With("system", "export"),
	}
}

// Fetcher returns the exporter's image fetcher so collaborators can
// share its timeout policy.
func (e *Exporter) Fetcher() *Fetcher {
	return e.fetcher
}

// Export renders a persisted, fully-resolved guide. Every referenced
// image is fetched from durable storage and embedded.
func (e *Exporter) Export(ctx context.Context, g *guides.Guide) ([]byte, error) {
	return e.render(ctx, BuildLayout(g))
}

// Preview renders a draft locally, embedding pending blobs directly so
// a never-saved guide can be previewed without any uploads having
// happened. Entries already holding durable references are fetched.
func (e *Exporter) Preview(ctx context.Context, d *guides.Draft) ([]byte, error) {
	layout, err := BuildDraftLayout(d)
	if err != nil {
		return nil, err
	}
	return e.render(ctx, layout)
}

func (e *Exporter) render(ctx context.Context, layout Layout) ([]byte, error) {
	dir, err := os.MkdirTemp("", "guide-export-")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	defer os.RemoveAll(dir)

	files := e.materialize(ctx, dir, layout)

	doc, err := json.Marshal(e.compose(layout, files))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(doc), &buf, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	return buf.Bytes(), nil
}

// imageFiles holds per-section temp file paths parallel to the layout
// collections. An empty path renders as a placeholder box.
type imageFiles struct {
	product []string
	parts   []string
	steps   []string
}

func (e *Exporter) materialize(ctx context.Context, dir string, layout Layout) imageFiles {
	var files imageFiles
	n := 0

	for _, ref := range layout.ProductPhotos {
		files.product = append(files.product, e.materializeRef(ctx, dir, ref, &n))
	}
	for _, part := range layout.Parts {
		files.parts = append(files.parts, e.materializeRef(ctx, dir, part.Image, &n))
	}
	for _, step := range layout.Steps {
		files.steps = append(files.steps, e.materializeRef(ctx, dir, step.Image, &n))
	}

	return files
}

// materializeRef resolves one image reference to a temp file on disk,
// returning "" when the image is unavailable.
func (e *Exporter) materializeRef(ctx context.Context, dir string, ref ImageRef, n *int) string {
	data := ref.Data
	if len(data) == 0 && ref.URL != "" {
		fetched, _, err := e.fetcher.Fetch(ctx, ref.URL)
		if err != nil {
			e.logger.Warn("embedding image failed, rendering placeholder", "url", ref.URL, "error", err)
			return ""
		}
		data = fetched
	}
	if len(data) == 0 {
		return ""
	}

	ext := imageExtension(data)
	if ext == "" {
		e.logger.Warn("unsupported image format, rendering placeholder", "url", ref.URL)
		return ""
	}

	*n++
	path := filepath.Join(dir, fmt.Sprintf("image_%d%s", *n, ext))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		e.logger.Warn("staging image failed, rendering placeholder", "error", err)
		return ""
	}

	return path
}

func imageExtension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// pdfcpu create-JSON primitives.

type pdfDocument struct {
	Paper  string             `json:"paper"`
	Origin string             `json:"origin"`
	Pages  map[string]pdfPage `json:"pages"`
}

type pdfPage struct {
	Content pdfContent `json:"content"`
}

type pdfContent struct {
	Text  []pdfText  `json:"text,omitempty"`
	Image []pdfImage `json:"image,omitempty"`
	Box   []pdfBox   `json:"box,omitempty"`
}

type pdfFont struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type pdfText struct {
	Value     string     `json:"value"`
	Position  [2]float64 `json:"position"`
	Width     float64    `json:"width,omitempty"`
	Font      pdfFont    `json:"font"`
	Alignment string     `json:"alignment,omitempty"`
}

type pdfImage struct {
	Src      string     `json:"src"`
	Position [2]float64 `json:"position"`
	Width    float64    `json:"width,omitempty"`
	Height   float64    `json:"height,omitempty"`
}

type pdfBox struct {
	Position  [2]float64 `json:"position"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	FillColor string     `json:"fillColor"`
}

func (e *Exporter) compose(layout Layout, files imageFiles) pdfDocument {
	pages := map[string]pdfPage{
		"1": e.coverPage(layout, files.product),
	}

	next := 2
	for _, page := range e.partPages(layout.Parts, files.parts) {
		pages[strconv.Itoa(next)] = page
		next++
	}
	for _, page := range e.stepPages(layout.Steps, files.steps) {
		pages[strconv.Itoa(next)] = page
		next++
	}

	return pdfDocument{
		Paper:  "A4",
		Origin: "upperLeft",
		Pages:  pages,
	}
}

func (e *Exporter) coverPage(layout Layout, files []string) pdfPage {
	content := pdfContent{
		Text: []pdfText{{
			Value:     layout.ProductCode,
			Position:  [2]float64{margin, coverTitleY},
			Width:     contentW,
			Font:      pdfFont{Name: e.font, Size: 36},
			Alignment: "center",
		}},
	}

	x := margin
	for _, file := range files {
		content = e.placeImage(content, file, x, coverPhotoY, coverPhotoW, coverPhotoH)
		x += coverPhotoW + coverPhotoGX
	}

	return pdfPage{Content: content}
}

func (e *Exporter) partPages(parts []PartBlock, files []string) []pdfPage {
	var pages []pdfPage

	content := pdfContent{Text: []pdfText{e.sectionTitle(PartsTitle)}}
	y := partFirstY

	for i, part := range parts {
		if y+partRowH > pageHeight-margin {
			pages = append(pages, pdfPage{Content: content})
			content = pdfContent{}
			y = margin
		}

		x := margin + float64(i%partCols)*partCellW
		content = e.placeImage(content, files[i], x, y, partImageW, partImageH)
		content.Text = append(content.Text, pdfText{
			Value:    part.Caption,
			Position: [2]float64{x, y + partCaption},
			Width:    partImageW,
			Font:     pdfFont{Name: e.font, Size: 11},
		})

		if i%partCols == partCols-1 {
			y += partRowH
		}
	}

	return append(pages, pdfPage{Content: content})
}

func (e *Exporter) stepPages(steps []StepBlock, files []string) []pdfPage {
	var pages []pdfPage

	content := pdfContent{Text: []pdfText{e.sectionTitle(StepsTitle)}}
	y := stepFirstY

	for i, step := range steps {
		// A step never splits across pages; spill the whole block.
		if y+stepBlockH > pageHeight-margin {
			pages = append(pages, pdfPage{Content: content})
			content = pdfContent{}
			y = margin
		}

		content.Text = append(content.Text,
			pdfText{
				Value:    StepLabel(step.Number),
				Position: [2]float64{margin, y},
				Font:     pdfFont{Name: e.font, Size: 14},
			},
			pdfText{
				Value:    step.Description,
				Position: [2]float64{margin, y + stepTextGap},
				Width:    contentW,
				Font:     pdfFont{Name: e.font, Size: 11},
			},
		)
		content = e.placeImage(content, files[i], margin, y+2*stepTextGap, stepImageW, stepImageH)

		y += stepBlockH
	}

	return append(pages, pdfPage{Content: content})
}

func (e *Exporter) sectionTitle(value string) pdfText {
	return pdfText{
		Value:    value,
		Position: [2]float64{margin, margin},
		Font:     pdfFont{Name: e.font, Size: 20},
	}
}

func (e *Exporter) placeImage(content pdfContent, file string, x, y, w, h float64) pdfContent {
	if file == "" {
		content.Box = append(content.Box, pdfBox{
			Position:  [2]float64{x, y},
			Width:     w,
			Height:    h,
			FillColor: placeholderColor,
		})
		return content
	}

	content.Image = append(content.Image, pdfImage{
		Src:      file,
		Position: [2]float64{x, y},
		Width:    w,
		Height:   h,
	})
	return content
}
