// Package export maps fully-resolved guides onto a fixed three-section
// page layout and renders it to PDF through pdfcpu's declarative create
// API. The layout mapping is pure; rendering fetches and embeds every
// referenced image so the result has no external dependencies.
package export

import (
	"fmt"
	"strings"

	"github.com/guideworks/guide-lab/internal/guides"
)

// PartFallbackCaption is printed for parts without a description.
const PartFallbackCaption = "Parça İsmi Yok"

// Section titles.
const (
	PartsTitle = "Parçalar"
	StepsTitle = "Üretim Adımları"
)

// ImageRef points at the bytes for one rendered image: either in-memory
// data (local preview) or a durable URL to fetch and embed. A ref with
// neither renders as an empty placeholder.
type ImageRef struct {
	URL  string
	Data []byte
}

// PartBlock is one part image with its caption.
type PartBlock struct {
	Image   ImageRef
	Caption string
}

// StepBlock is one numbered assembly step. Number is 1-based and derived
// from array position. Step blocks are never split across page boundaries.
type StepBlock struct {
	Number      int
	Description string
	Image       ImageRef
}

// Layout is the fixed three-section document structure: a cover with the
// product code and up to three product photos, a parts section, and a
// numbered steps section.
type Layout struct {
	ProductCode   string
	ProductPhotos []ImageRef
	Parts         []PartBlock
	Steps         []StepBlock
}

// BuildLayout maps a fully-resolved guide onto the export layout.
// It is a pure function with no side effects.
func BuildLayout(g *guides.Guide) Layout {
	layout := Layout{ProductCode: g.ProductCode}

	for _, url := range g.ProductPhotos {
		if len(layout.ProductPhotos) == guides.MaxProductPhotos {
			break
		}
		layout.ProductPhotos = append(layout.ProductPhotos, ImageRef{URL: url})
	}

	for _, part := range g.PartImages {
		caption := part.Description
		if caption == "" {
			caption = PartFallbackCaption
		}
		layout.Parts = append(layout.Parts, PartBlock{
			Image:   ImageRef{URL: part.URL},
			Caption: caption,
		})
	}

	for i, step := range g.Steps {
		layout.Steps = append(layout.Steps, StepBlock{
			Number:      i + 1,
			Description: step.Description,
			Image:       ImageRef{URL: step.Image},
		})
	}

	return layout
}

// BuildDraftLayout maps a draft onto the export layout for local
// preview, reading image bytes directly from the draft's pending blobs.
// Entries already holding durable references keep their URLs and are
// fetched at render time.
func BuildDraftLayout(d *guides.Draft) (Layout, error) {
	if strings.TrimSpace(d.ProductCode) == "" {
		return Layout{}, guides.ErrProductCodeRequired
	}

	layout := Layout{ProductCode: guides.NormalizeProductCode(d.ProductCode)}

	for _, photo := range d.ProductPhotos {
		layout.ProductPhotos = append(layout.ProductPhotos, sourceRef(photo))
	}

	for _, part := range d.PartImages {
		caption := part.Description
		if caption == "" {
			caption = PartFallbackCaption
		}
		layout.Parts = append(layout.Parts, PartBlock{
			Image:   sourceRef(part.Source),
			Caption: caption,
		})
	}

	for i, step := range d.Steps {
		layout.Steps = append(layout.Steps, StepBlock{
			Number:      i + 1,
			Description: step.Description,
			Image:       sourceRef(step.Source),
		})
	}

	return layout, nil
}

func sourceRef(s guides.ImageSource) ImageRef {
	return ImageRef{URL: s.URL, Data: s.Data}
}

// StepLabel formats the printed heading of a step block.
func StepLabel(number int) string {
	return fmt.Sprintf("%d. Adım", number)
}
