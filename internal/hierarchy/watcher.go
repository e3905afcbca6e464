package hierarchy

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-validates a definitions file whenever it changes on disk.
// It never mutates a live registry: registration happens once at
// bootstrap, so the watcher only reports whether the edited file would
// compose cleanly on the next start.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	// OnResult receives the outcome of each re-validation. A nil error
	// means the definitions are structurally sound.
	OnResult func(path string, err error)
}

// NewWatcher creates a watcher for the definitions file at path.
func NewWatcher(path string, onResult func(path string, err error)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory, not the file: editors that write via rename
	// would otherwise drop the watch after the first save.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, watcher: fsw, OnResult: onResult}, nil
}

// Run blocks, re-validating the file on every write until the watcher is
// closed.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			_, err := Load(w.path)
			if w.OnResult != nil {
				w.OnResult(w.path, err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.OnResult != nil {
				w.OnResult(w.path, fmt.Errorf("watch error: %w", err))
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
