package driven

import (
	"iter"

	"github.com/custodia-labs/sitesource/internal/core/domain"
)

// ChangeStream is a live sequence of change events over one root.
// Callers must call Stop exactly once on every exit path; dropping a
// stream without stopping it leaks the underlying OS watch.
type ChangeStream interface {
	// Next blocks until an event arrives or the stream ends.
	// It returns false once the stream is stopped or terminated.
	Next() (domain.ChangeEvent, bool)

	// Events exposes the underlying channel for select-based consumers.
	// The channel is closed when the stream ends.
	Events() <-chan domain.ChangeEvent

	// All returns an iterator over the remaining events.
	All() iter.Seq[domain.ChangeEvent]

	// Stop ends the stream and releases its watch. Safe to call more than once.
	Stop()
}

// ChangeWatcher starts change streams.
type ChangeWatcher interface {
	// Start begins watching root and returns a stream tagged with kind.
	Start(root string, kind domain.RootKind) (ChangeStream, error)
}
