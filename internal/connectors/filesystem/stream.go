package filesystem

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/core/ports/driven"
)

// Ensure ChangeStream implements the interface.
var _ driven.ChangeStream = (*ChangeStream)(nil)

// ChangeStream delivers change events for one watched root.
//
// Each stream holds at most one pending event: a signal that arrives while
// an earlier one is still unread is absorbed into it. Consumers re-scan the
// root on every event, so nothing is lost.
type ChangeStream struct {
	kind domain.RootKind
	root string

	mu     sync.Mutex
	ch     chan domain.ChangeEvent
	closed bool

	stopped  atomic.Bool
	stopOnce sync.Once
	release  func(*ChangeStream)
}

func newChangeStream(root string, kind domain.RootKind, release func(*ChangeStream)) *ChangeStream {
	return &ChangeStream{
		kind:    kind,
		root:    root,
		ch:      make(chan domain.ChangeEvent, 1),
		release: release,
	}
}

// Root returns the absolute path being watched.
func (s *ChangeStream) Root() string {
	return s.root
}

// Kind returns the root kind events are tagged with.
func (s *ChangeStream) Kind() domain.RootKind {
	return s.kind
}

// Next blocks until an event arrives or the stream ends.
func (s *ChangeStream) Next() (domain.ChangeEvent, bool) {
	if s.stopped.Load() {
		return domain.ChangeEvent{}, false
	}
	ev, ok := <-s.ch
	if !ok || s.stopped.Load() {
		return domain.ChangeEvent{}, false
	}
	return ev, true
}

// Events returns the channel events are delivered on.
// It is closed when the stream is stopped or its root goes away.
func (s *ChangeStream) Events() <-chan domain.ChangeEvent {
	return s.ch
}

// All returns an iterator that yields events until the stream ends.
func (s *ChangeStream) All() iter.Seq[domain.ChangeEvent] {
	return func(yield func(domain.ChangeEvent) bool) {
		for {
			ev, ok := s.Next()
			if !ok || !yield(ev) {
				return
			}
		}
	}
}

// Stop ends the stream and drops its reference on the root watch.
func (s *ChangeStream) Stop() {
	s.stopOnce.Do(func() {
		s.stopped.Store(true)
		s.finish(true)
		if s.release != nil {
			s.release(s)
		}
	})
}

// signal queues an event unless one is already pending.
func (s *ChangeStream) signal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- domain.ChangeEvent{Kind: domain.ChangeUnknown, Root: s.kind}:
	default:
	}
}

// finish closes the channel. When drain is set a pending event is dropped
// first; otherwise it stays readable ahead of the end of the stream.
func (s *ChangeStream) finish(drain bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if drain {
		select {
		case <-s.ch:
		default:
		}
	}
	s.closed = true
	close(s.ch)
}
