package driven

import (
	"context"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

// ManifestStore persists recorded item checksums per root.
type ManifestStore interface {
	// Replace swaps the recorded entries for root with entries.
	Replace(ctx context.Context, root string, entries []domain.ManifestEntry) error

	// List returns the recorded entries for root, sorted by key.
	List(ctx context.Context, root string) ([]domain.ManifestEntry, error)

	// Get returns one entry or domain.ErrNotFound.
	Get(ctx context.Context, root, key string) (*domain.ManifestEntry, error)
}
