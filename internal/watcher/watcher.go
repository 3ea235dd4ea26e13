// Package watcher re-runs a callback when lab sources change on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches a set of files for changes
type Watcher struct {
	paths    []string
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a new file watcher
func New(paths []string, logger *slog.Logger) *Watcher {
	return &Watcher{
		paths:    paths,
		debounce: defaultDebounce,
		logger:   logger,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch calls onChange with the path of each changed file. It blocks until
// ctx is cancelled. onChange runs on the calling goroutine, one change at a
// time, so it may use state that is not safe for concurrent use.
func (w *Watcher) Watch(ctx context.Context, onChange func(path string)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// Directories are watched so files replaced by editors are still seen
	watchedDirs := make(map[string]bool)
	files := make(map[string]string)
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		dir := filepath.Dir(abs)
		if !watchedDirs[dir] {
			if err := fw.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			watchedDirs[dir] = true
		}
		files[abs] = p
		w.logger.Info("watching for changes", "path", p)
	}

	timers := make(map[string]*time.Timer)
	fired := make(chan string)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			p, watched := files[abs]
			if !watched || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer, exists := timers[abs]; exists {
				timer.Stop()
			}
			timers[abs] = time.AfterFunc(w.debounce, func() {
				select {
				case fired <- p:
				case <-ctx.Done():
				}
			})

		case p := <-fired:
			w.logger.Info("file changed", "path", p)
			onChange(p)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
