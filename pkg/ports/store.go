package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// RunStore defines the interface for persisting finished runs.
type RunStore interface {
	// Save persists the record under record.ID, replacing any previous value.
	Save(ctx context.Context, record *domain.RunRecord) error

	// Load retrieves a run by ID.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, id string) (*domain.RunRecord, error)

	// Delete removes a run. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored runs.
	List(ctx context.Context) ([]string, error)
}
