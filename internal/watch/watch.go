// Package watch triggers a callback when any of a set of files or
// directories changes, after a quiet period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"autofix/internal/logging"
)

// ErrNothingToWatch is returned when none of the given paths can be watched.
var ErrNothingToWatch = errors.New("no watchable paths")

// Watcher coalesces filesystem events on its targets.
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	logger   *slog.Logger
}

// New registers watches for paths. Files are watched through their parent
// directory so editors that replace files on save are still seen. Empty paths
// are ignored.
func New(paths []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: debounce,
		logger:   logging.NewComponentLogger(logger, "watch"),
	}

	watched := make(map[string]bool)
	add := func(dir string) error {
		if watched[dir] {
			return nil
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		watched[dir] = true
		return nil
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			w.dirs[abs] = true
			err = add(abs)
		default:
			w.files[abs] = true
			err = add(filepath.Dir(abs))
		}
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if len(watched) == 0 {
		_ = fw.Close()
		return nil, ErrNothingToWatch
	}
	return w, nil
}

// Close releases the underlying watches.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls fn once after each burst of changes, when no further change has
// arrived for the debounce period. Errors from fn are logged and watching
// continues. Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
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
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected",
				logging.Path(event.Name),
				logging.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))

		case <-fire:
			fire = nil
			if err := fn(ctx); err != nil {
				w.logger.Error("rebuild failed", logging.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.files[event.Name] || w.dirs[event.Name] || w.dirs[filepath.Dir(event.Name)]
}

// Run watches paths until ctx is cancelled, calling fn after each quiet
// period that follows a change.
func Run(ctx context.Context, paths []string, debounce time.Duration, fn func(context.Context) error, logger *slog.Logger) error {
	w, err := New(paths, debounce, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, fn)
}
