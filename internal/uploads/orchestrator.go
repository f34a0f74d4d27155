package uploads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/guideworks/guide-lab/internal/guides"
	"github.com/guideworks/guide-lab/internal/progress"
	"github.com/guideworks/guide-lab/internal/storage"
)

// Orchestrator uploads every pending blob of a draft to object storage
// and assembles the fully-resolved guide record. Uploads for distinct
// entries run concurrently; the resolved guide is only assembled after
// every upload settles.
type Orchestrator struct {
	storage storage.System
	broker  *progress.Broker
	logger  *slog.Logger
}

// NewOrchestrator creates an upload orchestrator.
func NewOrchestrator(store storage.System, broker *progress.Broker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		storage: store,
		broker:  broker,
		logger:  logger.With("system", "uploads"),
	}
}

// pendingUpload is one blob awaiting transfer. apply writes the durable
// URL into the resolved guide; each task owns a distinct target slot, so
// apply needs no synchronization.
type pendingUpload struct {
	key   string
	data  []byte
	apply func(url string)
}

// Resolve uploads every pending entry of the draft under the
// deterministic path scheme, publishing per-entry progress events to the
// session stream, and returns the fully-resolved guide ready for
// persistence. All started uploads are allowed to settle; if any member
// fails, the batch fails with ErrUploadFailed and no compensating deletes
// are issued for the members that succeeded.
func (o *Orchestrator) Resolve(ctx context.Context, session string, d *guides.Draft) (*guides.Guide, error) {
	if strings.TrimSpace(d.ProductCode) == "" {
		return nil, guides.ErrProductCodeRequired
	}

	code := d.ProductCode
	resolved := &guides.Guide{
		ID:            d.ID,
		ProductCode:   guides.NormalizeProductCode(code),
		ProductPhotos: make([]string, len(d.ProductPhotos)),
		PartImages:    make([]guides.PartImage, len(d.PartImages)),
		Steps:         make([]guides.Step, len(d.Steps)),
	}

	var pending []pendingUpload

	for i, photo := range d.ProductPhotos {
		idx := i
		if photo.Pending() {
			pending = append(pending, pendingUpload{
				key:   ObjectKey(code, CollectionProduct, idx+1),
				data:  photo.Data,
				apply: func(url string) { resolved.ProductPhotos[idx] = url },
			})
		} else {
			resolved.ProductPhotos[idx] = photo.URL
		}
	}

	for i, part := range d.PartImages {
		idx := i
		resolved.PartImages[idx].Description = part.Description
		if part.Source.Pending() {
			pending = append(pending, pendingUpload{
				key:   ObjectKey(code, CollectionPart, idx+1),
				data:  part.Source.Data,
				apply: func(url string) { resolved.PartImages[idx].URL = url },
			})
		} else {
			resolved.PartImages[idx].URL = part.Source.URL
		}
	}

	for i, step := range d.Steps {
		idx := i
		resolved.Steps[idx].Description = step.Description
		if step.Source.Pending() {
			pending = append(pending, pendingUpload{
				key:   ObjectKey(code, CollectionStep, idx+1),
				data:  step.Source.Data,
				apply: func(url string) { resolved.Steps[idx].Image = url },
			})
		} else {
			resolved.Steps[idx].Image = step.Source.URL
		}
	}

	if err := o.uploadAll(ctx, session, pending); err != nil {
		return nil, err
	}

	return resolved, nil
}

// CleanupGuide removes every stored object under the guide's storage
// prefix. Called after a guide record is deleted; failures leave
// orphaned objects behind, which is acceptable.
func (o *Orchestrator) CleanupGuide(ctx context.Context, productCode string) error {
	prefix := GuidePrefix(productCode)
	if err := o.storage.DeletePrefix(ctx, prefix); err != nil {
		return fmt.Errorf("cleanup %s: %w", prefix, err)
	}
	o.logger.Info("guide storage cleaned", "prefix", prefix)
	return nil
}

// uploadAll fans out one goroutine per pending blob and waits for every
// one to settle before reporting the batch outcome.
func (o *Orchestrator) uploadAll(ctx context.Context, session string, pending []pendingUpload) error {
	if len(pending) == 0 {
		return nil
	}

	results := make(chan error, len(pending))
	var wg sync.WaitGroup

	for _, task := range pending {
		wg.Go(func() {
			url, err := o.upload(ctx, session, task.key, task.data)
			if err != nil {
				results <- fmt.Errorf("upload %s: %w", task.key, err)
				return
			}
			task.apply(url)
			results <- nil
		})
	}

	wg.Wait()
	close(results)

	var errs []error
	for err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		o.logger.Error("upload batch failed",
			"session", session, "failed", len(errs), "total", len(pending))
		return fmt.Errorf("%w: %w", ErrUploadFailed, errors.Join(errs...))
	}

	o.logger.Info("upload batch complete", "session", session, "count", len(pending))
	return nil
}

// upload transfers one blob, forwarding monotonically non-decreasing
// progress events keyed by the storage object name.
func (o *Orchestrator) upload(ctx context.Context, session, key string, data []byte) (string, error) {
	last := -1
	report := func(percent int) {
		if percent <= last {
			return
		}
		last = percent
		o.broker.Publish(progress.Event{
			Session: session,
			Key:     key,
			Percent: percent,
		})
	}

	if err := o.storage.Store(ctx, key, data, report); err != nil {
		return "", err
	}

	return o.storage.URL(key), nil
}
