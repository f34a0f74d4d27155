package guides

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/guideworks/guide-lab/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a Postgres-backed guide persistence system.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "guides"),
	}
}

func (r *repo) List(ctx context.Context) ([]Summary, error) {
	q := `SELECT id, product_code,
		jsonb_array_length(product_photos),
		jsonb_array_length(part_images),
		jsonb_array_length(steps),
		created_at
	FROM guides
	ORDER BY created_at DESC`

	summaries, err := repository.QueryMany(ctx, r.db, q, nil, scanSummary)
	if err != nil {
		return nil, fmt.Errorf("query guides: %w", err)
	}

	if summaries == nil {
		summaries = []Summary{}
	}
	return summaries, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Guide, error) {
	q := fmt.Sprintf("SELECT %s FROM guides WHERE id = $1", guideColumns)

	g, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanGuide)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &g, nil
}

func (r *repo) Create(ctx context.Context, g *Guide) (*Guide, error) {
	cmd := UpdateCommand{
		ProductCode:   g.ProductCode,
		ProductPhotos: g.ProductPhotos,
		PartImages:    g.PartImages,
		Steps:         g.Steps,
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	photos, parts, steps, err := encodeCollections(g.ProductPhotos, g.PartImages, g.Steps)
	if err != nil {
		return nil, err
	}

	id := uuid.New()

	// created_at is assigned by the database and never written afterwards.
	q := fmt.Sprintf(`INSERT INTO guides (id, product_code, product_photos, part_images, steps)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s`, guideColumns)

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Guide, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			id, NormalizeProductCode(g.ProductCode), photos, parts, steps,
		}, scanGuide)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("guide created", "id", created.ID, "product_code", created.ProductCode)
	return &created, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Guide, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	photos, parts, steps, err := encodeCollections(cmd.ProductPhotos, cmd.PartImages, cmd.Steps)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`UPDATE guides
		SET product_code = $1, product_photos = $2, part_images = $3, steps = $4
		WHERE id = $5
		RETURNING %s`, guideColumns)

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Guide, error) {
		return repository.QueryOne(ctx, tx, q, []any{
			NormalizeProductCode(cmd.ProductCode), photos, parts, steps, id,
		}, scanGuide)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("guide updated", "id", updated.ID, "product_code", updated.ProductCode)
	return &updated, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := `DELETE FROM guides WHERE id = $1`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		if errors.Is(repository.MapError(err, ErrNotFound, ErrDuplicate), ErrNotFound) {
			return nil
		}
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("guide deleted", "id", id)
	return nil
}
