// Package guides provides the assembly-guide domain: the persisted Guide
// record, the in-memory Draft editing state machine, and Postgres-backed
// persistence.
package guides

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxProductPhotos is the cap on product photos per guide.
const MaxProductPhotos = 3

// PartImage is a labeled part photograph.
type PartImage struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Step is one numbered assembly step. Step numbering is 1-based and
// derived from array position; it is never stored.
type Step struct {
	Image       string `json:"image"`
	Description string `json:"description"`
}

// Guide is the persisted unit: a fully-resolved assembly guide in which
// every photo reference is a durable URL.
type Guide struct {
	ID            uuid.UUID   `json:"id"`
	ProductCode   string      `json:"product_code"`
	ProductPhotos []string    `json:"product_photos"`
	PartImages    []PartImage `json:"part_images"`
	Steps         []Step      `json:"steps"`
	CreatedAt     time.Time   `json:"created_at"`
}

// Summary is the list projection of a guide.
type Summary struct {
	ID                uuid.UUID `json:"id"`
	ProductCode       string    `json:"product_code"`
	ProductPhotoCount int       `json:"product_photo_count"`
	PartCount         int       `json:"part_count"`
	StepCount         int       `json:"step_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// UpdateCommand contains the mutable fields of a guide. Updates are a
// full overwrite of these fields; created_at and identity never change.
type UpdateCommand struct {
	ProductCode   string      `json:"product_code"`
	ProductPhotos []string    `json:"product_photos"`
	PartImages    []PartImage `json:"part_images"`
	Steps         []Step      `json:"steps"`
}

// Validate checks the command against the guide record invariants.
func (c *UpdateCommand) Validate() error {
	if strings.TrimSpace(c.ProductCode) == "" {
		return ErrProductCodeRequired
	}
	if len(c.ProductPhotos) > MaxProductPhotos {
		return ErrTooManyProductPhotos
	}
	for _, url := range c.ProductPhotos {
		if url == "" {
			return ErrMissingReference
		}
	}
	for _, part := range c.PartImages {
		if part.URL == "" {
			return ErrMissingReference
		}
	}
	for _, step := range c.Steps {
		if step.Image == "" {
			return ErrMissingReference
		}
	}
	return nil
}

// NormalizeProductCode canonicalizes a product code for storage.
func NormalizeProductCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
