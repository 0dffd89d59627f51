package sources

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloadable is a source whose definition file can be re-parsed in place.
// All file-backed sources in this package implement it.
type Reloadable interface {
	Path() string
	Reload() error
}

// Watcher reloads file-backed sources when their definition files change,
// so task listings stay current without re-registering sources.
type Watcher struct {
	fw     *fsnotify.Watcher
	logger *zap.Logger

	mu      sync.RWMutex
	sources map[string]Reloadable
	closed  bool

	done chan struct{}
}

// NewWatcher creates a watcher and starts its event loop.
func NewWatcher(logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Watcher{
		fw:      fw,
		logger:  logger,
		sources: make(map[string]Reloadable),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch registers a source for reload when its file changes.
func (w *Watcher) Watch(src Reloadable) error {
	path := filepath.Clean(src.Path())

	w.mu.Lock()
	w.sources[path] = src
	w.mu.Unlock()

	// Watch the containing directory: editors commonly replace files via
	// rename, which drops a watch on the file itself.
	return w.fw.Add(filepath.Dir(path))
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.done
	return err
}

// loop dispatches filesystem events to source reloads.
func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.reload(filepath.Clean(event.Name))

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("task file watcher error", zap.Error(err))
		}
	}
}

// reload re-parses the source registered for path, if any.
func (w *Watcher) reload(path string) {
	w.mu.RLock()
	src, ok := w.sources[path]
	w.mu.RUnlock()
	if !ok {
		return
	}

	if err := src.Reload(); err != nil {
		w.logger.Warn("task source reload failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	w.logger.Debug("task source reloaded", zap.String("path", path))
}
