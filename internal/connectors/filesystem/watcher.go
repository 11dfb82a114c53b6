package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.ChangeWatcher = (*Watcher)(nil)

// Watcher starts change streams backed by a Registry.
type Watcher struct {
	registry *Registry
}

// NewWatcher creates a watcher on registry, or on the shared registry
// when registry is nil.
func NewWatcher(registry *Registry) *Watcher {
	if registry == nil {
		registry = SharedRegistry()
	}
	return &Watcher{registry: registry}
}

// Start begins watching root. Every change below root, including in
// directories created later, signals the returned stream.
//
// The caller must Stop the stream on every exit path; an unstopped stream
// keeps the OS watch alive.
func (w *Watcher) Start(root string, kind domain.RootKind) (driven.ChangeStream, error) {
	s, err := w.StartStream(root, kind)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// StartStream is Start returning the concrete stream type.
func (w *Watcher) StartStream(root string, kind domain.RootKind) (*ChangeStream, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	return w.registry.subscribe(filepath.Clean(abs), kind)
}
