// Package watch monitors the artifact files with fsnotify and invokes a
// handler when one changes. Events are debounced (editors often trigger
// multiple writes per save) and handler runs are serialized.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/waxworks/shellac/pkg/errors"
	"github.com/waxworks/shellac/pkg/logging"
)

// DefaultDebounce is the debounce interval used when none is configured.
const DefaultDebounce = 250 * time.Millisecond

// Handler is called with the absolute path of a changed artifact file.
type Handler func(path string)

// Watcher monitors a set of artifact files.
type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	files   map[string]bool // absolute paths of the watched files
	done    chan struct{}
	stopped bool
}

// New creates a watcher. A non-positive debounce uses DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapResource("create", "watcher", "", err)
	}

	return &Watcher{
		fw:       fw,
		debounce: debounce,
		files:    make(map[string]bool),
		done:     make(chan struct{}),
	}, nil
}

// Watch starts monitoring the given files and calls onChange for each
// debounced change. Parent directories are watched rather than the files
// themselves; editors that replace files on save would otherwise detach
// the watch.
func (w *Watcher) Watch(paths []string, onChange Handler) error {
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.WrapIO("watch", path, err)
		}
		w.mu.Lock()
		w.files[abs] = true
		w.mu.Unlock()
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := w.fw.Add(dir); err != nil {
			return errors.WrapIO("watch", dir, err)
		}
	}

	go w.loop(onChange)
	return nil
}

// loop drains fsnotify events, debouncing per file.
func (w *Watcher) loop(onChange Handler) {
	lastSeen := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			w.mu.Lock()
			watched := w.files[path]
			w.mu.Unlock()
			if !watched {
				continue
			}

			now := time.Now()
			if last, seen := lastSeen[path]; seen && now.Sub(last) < w.debounce {
				continue
			}
			lastSeen[path] = now

			logging.Debug().Str("path", path).Str("op", event.Op.String()).Msg("Artifact changed")
			onChange(path)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logging.Warn().Err(err).Msg("Watcher error")

		case <-w.done:
			return
		}
	}
}

// Stop stops watching. Safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
