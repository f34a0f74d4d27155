package uploads

import (
	"context"

	"github.com/guideworks/guide-lab/internal/guides"
)

// AddPhoto uploads a new photo into the product or part collection of a
// persisted guide and appends its durable reference to the in-memory
// record. The caller persists the updated record afterwards.
func (o *Orchestrator) AddPhoto(ctx context.Context, g *guides.Guide, c Collection, data []byte) error {
	switch c {
	case CollectionProduct:
		if len(g.ProductPhotos) >= guides.MaxProductPhotos {
			return guides.ErrTooManyProductPhotos
		}
		key := ObjectKey(g.ProductCode, c, len(g.ProductPhotos)+1)
		url, err := o.upload(ctx, "", key, data)
		if err != nil {
			return err
		}
		g.ProductPhotos = append(g.ProductPhotos, url)
		return nil

	case CollectionPart:
		key := ObjectKey(g.ProductCode, c, len(g.PartImages)+1)
		url, err := o.upload(ctx, "", key, data)
		if err != nil {
			return err
		}
		g.PartImages = append(g.PartImages, guides.PartImage{URL: url})
		return nil

	case CollectionStep:
		return o.AddStep(ctx, g, data, "")

	default:
		return ErrInvalidCollection
	}
}

// AddStep uploads a new step image and appends a step with the given
// description to the in-memory record.
func (o *Orchestrator) AddStep(ctx context.Context, g *guides.Guide, data []byte, description string) error {
	key := ObjectKey(g.ProductCode, CollectionStep, len(g.Steps)+1)
	url, err := o.upload(ctx, "", key, data)
	if err != nil {
		return err
	}
	g.Steps = append(g.Steps, guides.Step{Image: url, Description: description})
	return nil
}

// ReplacePhoto swaps the photo at index within a collection of a
// persisted guide: the old object behind the entry's stored reference
// is deleted best-effort (failures are logged and never block), the new
// blob is uploaded to the same path, and only then is the in-memory
// record updated.
//
// The key is derived from the stored URL, not recomputed from the
// index: earlier deletes shift positions, so an entry's path suffix no
// longer matches its slot.
func (o *Orchestrator) ReplacePhoto(ctx context.Context, g *guides.Guide, c Collection, index int, data []byte) error {
	if !indexInRange(g, c, index) {
		return ErrIndexOutOfRange
	}

	key, ok := o.storage.Key(entryURL(g, c, index))
	if ok {
		if err := o.storage.Delete(ctx, key); err != nil {
			o.logger.Warn("failed to delete old photo", "key", key, "error", err)
		}
	} else {
		// Entry references an object outside our store; nothing to
		// delete, upload to the slot's deterministic path.
		key = ObjectKey(g.ProductCode, c, index+1)
	}

	url, err := o.upload(ctx, "", key, data)
	if err != nil {
		return err
	}

	switch c {
	case CollectionProduct:
		g.ProductPhotos[index] = url
	case CollectionPart:
		g.PartImages[index].URL = url
	case CollectionStep:
		g.Steps[index].Image = url
	}
	return nil
}

// DeletePhoto removes the entry at index from a collection of a
// persisted guide, issuing a best-effort delete for the object behind
// the entry's stored reference. Out-of-range indexes are a silent no-op.
func (o *Orchestrator) DeletePhoto(ctx context.Context, g *guides.Guide, c Collection, index int) {
	if !indexInRange(g, c, index) {
		return
	}

	if key, ok := o.storage.Key(entryURL(g, c, index)); ok {
		if err := o.storage.Delete(ctx, key); err != nil {
			o.logger.Warn("failed to delete photo", "key", key, "error", err)
		}
	}

	switch c {
	case CollectionProduct:
		g.ProductPhotos = append(g.ProductPhotos[:index], g.ProductPhotos[index+1:]...)
	case CollectionPart:
		g.PartImages = append(g.PartImages[:index], g.PartImages[index+1:]...)
	case CollectionStep:
		g.Steps = append(g.Steps[:index], g.Steps[index+1:]...)
	}
}

// entryURL returns the stored durable reference at index. Callers
// check the index first.
func entryURL(g *guides.Guide, c Collection, index int) string {
	switch c {
	case CollectionProduct:
		return g.ProductPhotos[index]
	case CollectionPart:
		return g.PartImages[index].URL
	case CollectionStep:
		return g.Steps[index].Image
	default:
		return ""
	}
}

func indexInRange(g *guides.Guide, c Collection, index int) bool {
	if index < 0 {
		return false
	}
	switch c {
	case CollectionProduct:
		return index < len(g.ProductPhotos)
	case CollectionPart:
		return index < len(g.PartImages)
	case CollectionStep:
		return index < len(g.Steps)
	default:
		return false
	}
}
