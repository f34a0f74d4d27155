package guides

import (
	"context"

	"github.com/google/uuid"
)

// System defines the guide persistence operations. The store is the
// durable source of truth; updates replace the mutable fields wholesale
// with last-writer-wins semantics.
type System interface {
	// List returns summaries of every stored guide, newest first.
	List(ctx context.Context) ([]Summary, error)

	// Find returns the guide with the given identity, or ErrNotFound.
	Find(ctx context.Context, id uuid.UUID) (*Guide, error)

	// Create persists a new guide, assigning its identity and
	// server-side creation timestamp, and returns the stored record.
	Create(ctx context.Context, g *Guide) (*Guide, error)

	// Update overwrites the mutable fields of the guide at id and
	// returns the stored record. Fails with ErrNotFound if absent.
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Guide, error)

	// Delete removes the guide record. Deleting an absent guide is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}
