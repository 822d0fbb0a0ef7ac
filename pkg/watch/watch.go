// Package watch notices changes to source files.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"src.jotdown.dev/pkg/logutil"
)

var logger = logutil.GetLogger("watch")

// DefaultDebounce is how long a Watcher waits after the last change to a file
// before reporting it. Editors often write a file in several steps.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to a set of files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func(paths []string)
}

// New creates a Watcher for the given files. When Run is active, onChange is
// called with the changed files, in sorted order, once no file has changed
// for the debounce duration.
func New(files []string, debounce time.Duration, onChange func(paths []string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &Watcher{watcher: watcher, files: map[string]bool{},
		debounce: debounce, onChange: onChange}
	dirs := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	// Watching the directory catches editors that replace the file by
	// renaming.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run delivers changes until ctx is done or the underlying watcher fails.
// It returns nil when ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	pending := map[string]bool{}
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.files[event.Name] || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			logger.Debug("file event", "file", event.Name, "op", event.Op)
			pending[event.Name] = true
			timer = time.After(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer:
			timer = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)
			logger.Info("files changed", "files", paths)
			w.onChange(paths)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
