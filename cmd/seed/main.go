// Command seed populates the database and object store with a sample
// guide, exercising the same draft and upload paths the API uses.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/guideworks/guide-lab/internal/config"
	"github.com/guideworks/guide-lab/internal/database"
	"github.com/guideworks/guide-lab/internal/guides"
	"github.com/guideworks/guide-lab/internal/progress"
	"github.com/guideworks/guide-lab/internal/storage"
	"github.com/guideworks/guide-lab/internal/uploads"
	"github.com/guideworks/guide-lab/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Default().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Finalize(); err != nil {
		logging.Default().Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(&cfg.Logging)

	db, err := database.Open(&cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	if err := store.Start(); err != nil {
		logger.Error("failed to start storage", "error", err)
		os.Exit(1)
	}

	sys := guides.New(db, logger)
	orchestrator := uploads.NewOrchestrator(store, progress.NewBroker(), logger)

	g, err := seedGuide(context.Background(), sys, orchestrator)
	if err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeded sample guide", "id", g.ID, "product_code", g.ProductCode)
}

func seedGuide(ctx context.Context, sys guides.System, orchestrator *uploads.Orchestrator) (*guides.Guide, error) {
	draft := guides.NewDraft()
	draft.SetProductCode("demo-100")

	draft.AddProductPhotos([]guides.ImageSource{
		fixture("front.png", color.RGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff}),
		fixture("side.png", color.RGBA{R: 0x6f, G: 0xb0, B: 0x5e, A: 0xff}),
	})

	draft.AddPartImages([]guides.ImageSource{
		fixture("frame.png", color.RGBA{R: 0xd9, G: 0x8a, B: 0x4a, A: 0xff}),
		fixture("bolts.png", color.RGBA{R: 0x8a, G: 0x8a, B: 0x8a, A: 0xff}),
	})
	draft.SetPartDescription(0, "Gövde")

	steps := []struct {
		name        string
		fill        color.RGBA
		description string
	}{
		{"step-1.png", color.RGBA{R: 0xc9, G: 0x5e, B: 0x5e, A: 0xff}, "Gövdeyi düz bir zemine yerleştirin."},
		{"step-2.png", color.RGBA{R: 0x5e, G: 0x5e, B: 0xc9, A: 0xff}, "Cıvataları köşelerden sıkın."},
	}
	for _, step := range steps {
		draft.SelectStepCandidate(fixture(step.name, step.fill))
		draft.SetStepDescription(step.description)
		draft.SaveStep()
	}

	resolved, err := orchestrator.Resolve(ctx, uuid.New().String(), draft)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads: %w", err)
	}

	g, err := sys.Create(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("persist guide: %w", err)
	}

	return g, nil
}

// fixture renders a small solid-color PNG as an in-memory upload.
func fixture(name string, fill color.RGBA) guides.ImageSource {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	png.Encode(&buf, img)

	return guides.ImageSource{
		Data:        buf.Bytes(),
		Name:        name,
		ContentType: "image/png",
	}
}
