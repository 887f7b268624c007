// Package watch triggers rebuilds when the content directory changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AtRiskMedia/quartzgo/internal/infrastructure/observability/logging"
)

// Watcher watches a directory tree and calls onChange once per burst of
// file events, after the tree has been quiet for the debounce interval.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(ctx context.Context) error
	logger   *logging.ChanneledLogger
}

func NewWatcher(dir string, debounce time.Duration, onChange func(ctx context.Context) error, logger *logging.ChanneledLogger) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Failures of onChange are logged and do
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.dir); err != nil {
		return err
	}
	w.logger.Watch().Info("Watching content", "dir", w.dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	pending := 0

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						w.logger.Watch().Warn("Failed to watch new directory", "dir", event.Name, "error", err.Error())
					}
				}
			}
			w.logger.Watch().Debug("Content changed", "path", event.Name, "op", event.Op.String())
			pending++
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Watch().Error("Watcher error", "error", err.Error())

		case <-timer.C:
			w.logger.Watch().Info("Rebuilding after changes", "events", pending)
			pending = 0
			if err := w.onChange(ctx); err != nil {
				w.logger.Watch().Error("Rebuild failed", "error", err.Error())
			}
		}
	}
}

// relevant drops permission-only changes and editor scratch files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	return !strings.HasPrefix(base, ".#") && !strings.HasSuffix(base, "~") && !strings.HasSuffix(base, ".swp")
}

// addTree watches root and every directory below it; fsnotify is not recursive.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}
