package guides

import (
	"encoding/json"
	"fmt"

	"github.com/guideworks/guide-lab/pkg/repository"
)

// guideColumns is the projection shared by every single-guide query.
const guideColumns = "id, product_code, product_photos, part_images, steps, created_at"

func scanGuide(s repository.Scanner) (Guide, error) {
	var g Guide
	var photos, parts, steps []byte

	if err := s.Scan(&g.ID, &g.ProductCode, &photos, &parts, &steps, &g.CreatedAt); err != nil {
		return g, err
	}

	if err := json.Unmarshal(photos, &g.ProductPhotos); err != nil {
		return g, fmt.Errorf("decode product_photos: %w", err)
	}
	if err := json.Unmarshal(parts, &g.PartImages); err != nil {
		return g, fmt.Errorf("decode part_images: %w", err)
	}
	if err := json.Unmarshal(steps, &g.Steps); err != nil {
		return g, fmt.Errorf("decode steps: %w", err)
	}

	return g, nil
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sum Summary
	err := s.Scan(
		&sum.ID, &sum.ProductCode,
		&sum.ProductPhotoCount, &sum.PartCount, &sum.StepCount,
		&sum.CreatedAt,
	)
	return sum, err
}

// encodeCollections marshals the three ordered collections for JSONB
// storage, normalizing nil slices to empty arrays.
func encodeCollections(photos []string, parts []PartImage, steps []Step) ([]byte, []byte, []byte, error) {
	if photos == nil {
		photos = []string{}
	}
	if parts == nil {
		parts = []PartImage{}
	}
	if steps == nil {
		steps = []Step{}
	}

	photosJSON, err := json.Marshal(photos)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode product_photos: %w", err)
	}
	partsJSON, err := json.Marshal(parts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode part_images: %w", err)
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("encode steps: %w", err)
	}

	return photosJSON, partsJSON, stepsJSON, nil
}
