package driving

import (
	"context"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// SiteSource loads items and layouts and reports changes to them.
type SiteSource interface {
	// LoadItems collects every item under the content root.
	LoadItems(ctx context.Context) ([]domain.Item, error)

	// LoadLayouts collects every layout under the layouts root.
	LoadLayouts(ctx context.Context) ([]domain.Item, error)

	// ItemChanges starts a change stream over the content root.
	ItemChanges() (driven.ChangeStream, error)

	// LayoutChanges starts a change stream over the layouts root.
	LayoutChanges() (driven.ChangeStream, error)

	// Status compares the current items with the recorded manifest.
	Status(ctx context.Context) ([]domain.ItemStatus, error)

	// Record collects items and stores their checksums as the manifest.
	Record(ctx context.Context) (int, error)
}
