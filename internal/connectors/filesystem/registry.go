package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sitesource/internal/core/domain"
	"github.com/custodia-labs/sitesource/internal/logger"
)

// DefaultDebounce is the window in which raw filesystem events are merged.
const DefaultDebounce = 50 * time.Millisecond

var (
	sharedOnce     sync.Once
	sharedRegistry *Registry
)

// SharedRegistry returns the process-wide registry.
func SharedRegistry() *Registry {
	sharedOnce.Do(func() {
		sharedRegistry = NewRegistry(DefaultDebounce)
	})
	return sharedRegistry
}

// Registry owns the OS-level watches. There is at most one fsnotify watch
// per absolute root; it is created by the first stream on that root and
// released when the last one stops.
type Registry struct {
	mu       sync.Mutex
	roots    map[string]*rootWatch
	debounce time.Duration
	closed   bool
}

// NewRegistry creates a registry. Raw events on a root are merged until
// debounce passes without another one; zero disables merging.
func NewRegistry(debounce time.Duration) *Registry {
	if debounce < 0 {
		debounce = 0
	}
	return &Registry{
		roots:    make(map[string]*rootWatch),
		debounce: debounce,
	}
}

// Len returns the number of roots with a live OS watch.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roots)
}

// Close ends every stream and releases all watches.
// Later subscriptions fail with domain.ErrWatcherClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	r.closed = true
	watches := make([]*rootWatch, 0, len(r.roots))
	for _, w := range r.roots {
		watches = append(watches, w)
	}
	r.mu.Unlock()

	for _, w := range watches {
		w.terminate("registry closed")
		w.wg.Wait()
	}
	return nil
}

// subscribe returns a new stream on root, starting the OS watch if needed.
func (r *Registry) subscribe(root string, kind domain.RootKind) (*ChangeStream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, domain.ErrWatcherClosed
	}

	w, ok := r.roots[root]
	if !ok {
		var err error
		w, err = r.open(root)
		if err != nil {
			return nil, err
		}
		r.roots[root] = w
		logger.Debug("Watching %s", root)
	}

	s := newChangeStream(root, kind, func(s *ChangeStream) { r.unsubscribe(w, s) })
	w.mu.Lock()
	w.subs[s] = struct{}{}
	w.mu.Unlock()
	return s, nil
}

// unsubscribe drops s from w and tears the watch down after the last stream.
func (r *Registry) unsubscribe(w *rootWatch, s *ChangeStream) {
	r.mu.Lock()
	w.mu.Lock()
	delete(w.subs, s)
	last := len(w.subs) == 0 && !w.ended
	if last {
		w.ended = true
		if r.roots[w.path] == w {
			delete(r.roots, w.path)
		}
	}
	w.mu.Unlock()
	r.mu.Unlock()

	if !last {
		return
	}
	close(w.done)
	w.wg.Wait()
	logger.Debug("Stopped watching %s", w.path)
}

// open starts an OS watch on root and every directory below it.
// Caller must hold r.mu.
func (r *Registry) open(root string) (*rootWatch, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("watch %s: %w", root, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory: %w", root, domain.ErrInvalidInput)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &rootWatch{
		registry: r,
		path:     root,
		fsw:      fsw,
		debounce: r.debounce,
		subs:     make(map[*ChangeStream]struct{}),
		done:     make(chan struct{}),
	}
	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// rootWatch is one fsnotify watcher shared by every stream on a root.
type rootWatch struct {
	registry *Registry
	path     string
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu    sync.Mutex
	subs  map[*ChangeStream]struct{}
	ended bool

	done chan struct{}
	wg   sync.WaitGroup
}

// addTree watches dir and its non-hidden subdirectories.
func (w *rootWatch) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.path && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

func (w *rootWatch) run() {
	defer w.wg.Done()
	defer func() {
		if err := w.fsw.Close(); err != nil {
			logger.Warn("Closing watch on %s: %v", w.path, err)
		}
	}()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.terminate("event channel closed")
				return
			}
			if !w.relevant(event) {
				continue
			}
			if event.Name == w.path && event.Has(fsnotify.Remove|fsnotify.Rename) {
				w.broadcast()
				w.terminate("root removed")
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if w.debounce <= 0 {
				w.broadcast()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-fire:
			timer, fire = nil, nil
			w.broadcast()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.terminate("error channel closed")
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				// Events were dropped; a re-scan covers them.
				w.broadcast()
				continue
			}
			logger.Warn("Watch on %s failed: %v", w.path, err)
			w.terminate(err.Error())
			return
		}
	}
}

// relevant filters out permission changes and hidden files.
func (w *rootWatch) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if event.Name == w.path {
		return true
	}
	rel, err := filepath.Rel(w.path, event.Name)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if isHidden(part) {
			return false
		}
	}
	return true
}

// broadcast signals every subscribed stream.
func (w *rootWatch) broadcast() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for s := range w.subs {
		s.signal()
	}
}

// terminate ends every stream on the root without draining pending events
// and removes the watch from the registry. run closes the OS watch on exit.
func (w *rootWatch) terminate(reason string) {
	r := w.registry
	r.mu.Lock()
	w.mu.Lock()
	if w.ended {
		w.mu.Unlock()
		r.mu.Unlock()
		return
	}
	w.ended = true
	if r.roots[w.path] == w {
		delete(r.roots, w.path)
	}
	subs := w.subs
	w.subs = make(map[*ChangeStream]struct{})
	w.mu.Unlock()
	r.mu.Unlock()

	close(w.done)
	for s := range subs {
		s.finish(false)
	}
	logger.Debug("Watch on %s ended: %s", w.path, reason)
}
