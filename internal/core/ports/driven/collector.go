package driven

import (
	"context"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

// Collector walks a directory tree and returns enriched items.
type Collector interface {
	// Collect performs a fresh walk of root. Any parse error aborts the
	// whole collection; no partial results are returned.
	Collect(ctx context.Context, root string) ([]domain.Item, error)
}
