package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
	"github.com/custodia-labs/sitesource/internal/core/ports/driving"
	"github.com/custodia-labs/sitesource/internal/logger"
)

// Ensure SiteSource implements the interface.
var _ driving.SiteSource = (*SiteSource)(nil)

// errNoManifest is returned by Status and Record without a manifest store.
var errNoManifest = errors.New("manifest store not configured")

// SiteSource loads a site's items and layouts and watches them for changes.
type SiteSource struct {
	collector driven.Collector
	watcher   driven.ChangeWatcher
	manifest  driven.ManifestStore

	contentRoot string
	layoutsRoot string
}

// NewSiteSource creates a site source over the roots named in settings.
// watcher and manifest may be nil when changes or status are not needed.
func NewSiteSource(
	collector driven.Collector,
	watcher driven.ChangeWatcher,
	manifest driven.ManifestStore,
	settings domain.Settings,
) *SiteSource {
	return &SiteSource{
		collector:   collector,
		watcher:     watcher,
		manifest:    manifest,
		contentRoot: settings.ContentRoot(),
		layoutsRoot: settings.LayoutsRoot(),
	}
}

// LoadItems collects every item under the content root.
func (s *SiteSource) LoadItems(ctx context.Context) ([]domain.Item, error) {
	return s.load(ctx, domain.RootItems, s.contentRoot)
}

// LoadLayouts collects every layout under the layouts root.
func (s *SiteSource) LoadLayouts(ctx context.Context) ([]domain.Item, error) {
	return s.load(ctx, domain.RootLayouts, s.layoutsRoot)
}

func (s *SiteSource) load(ctx context.Context, kind domain.RootKind, root string) ([]domain.Item, error) {
	logger.Section("Loading " + kind.String())
	items, err := s.collector.Collect(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	logger.Debug("Loaded %d %s from %s", len(items), kind, root)
	return items, nil
}

// ItemChanges starts a change stream over the content root.
func (s *SiteSource) ItemChanges() (driven.ChangeStream, error) {
	return s.changes(domain.RootItems, s.contentRoot)
}

// LayoutChanges starts a change stream over the layouts root.
func (s *SiteSource) LayoutChanges() (driven.ChangeStream, error) {
	return s.changes(domain.RootLayouts, s.layoutsRoot)
}

func (s *SiteSource) changes(kind domain.RootKind, root string) (driven.ChangeStream, error) {
	if s.watcher == nil {
		return nil, fmt.Errorf("watch %s: watcher not configured", kind)
	}
	stream, err := s.watcher.Start(root, kind)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", kind, err)
	}
	return stream, nil
}

// Status compares the current items with the recorded manifest.
// Results are sorted by key; recorded items that no longer exist are
// reported as removed.
func (s *SiteSource) Status(ctx context.Context) ([]domain.ItemStatus, error) {
	if s.manifest == nil {
		return nil, fmt.Errorf("status: %w", errNoManifest)
	}

	items, err := s.LoadItems(ctx)
	if err != nil {
		return nil, err
	}
	recorded, err := s.manifest.List(ctx, domain.RootItems.String())
	if err != nil {
		return nil, fmt.Errorf("status: list manifest: %w", err)
	}

	byKey := make(map[string]domain.ManifestEntry, len(recorded))
	for _, e := range recorded {
		byKey[e.Key] = e
	}

	statuses := make([]domain.ItemStatus, 0, len(items)+len(recorded))
	for _, item := range items {
		state := domain.StateAdded
		if prev, ok := byKey[item.Key]; ok {
			state = domain.CompareEntry(domain.EntryFromItem(item), prev)
			delete(byKey, item.Key)
		}
		statuses = append(statuses, domain.ItemStatus{Key: item.Key, State: state})
	}
	for key := range byKey {
		statuses = append(statuses, domain.ItemStatus{Key: key, State: domain.StateRemoved})
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Key < statuses[j].Key })
	return statuses, nil
}

// Record collects items and stores their checksums as the new manifest.
// It returns the number of recorded items.
func (s *SiteSource) Record(ctx context.Context) (int, error) {
	if s.manifest == nil {
		return 0, fmt.Errorf("record: %w", errNoManifest)
	}

	items, err := s.LoadItems(ctx)
	if err != nil {
		return 0, err
	}

	entries := make([]domain.ManifestEntry, len(items))
	for i, item := range items {
		entries[i] = domain.EntryFromItem(item)
	}
	if err := s.manifest.Replace(ctx, domain.RootItems.String(), entries); err != nil {
		return 0, fmt.Errorf("record: %w", err)
	}

	logger.Info("Recorded %d items", len(entries))
	return len(entries), nil
}
