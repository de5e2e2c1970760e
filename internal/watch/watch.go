// Package watch observes the collection document on disk. Publishing is a
// manual step — a human downloads the exported JSON and replaces the file by
// hand — so the watcher is what keeps a long-running server in step with it.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce coalesces the burst of events a file replacement produces.
const debounce = 200 * time.Millisecond

// ChangedFunc is called after the watched document settles following a change.
type ChangedFunc func()

// File watches the collection document at path until ctx is cancelled and
// calls onChange (debounced) whenever the file is written, replaced, or
// removed. The parent directory is watched rather than the file itself, so
// replace-by-rename does not silently detach the watch.
func File(ctx context.Context, path string, logger *slog.Logger, onChange ChangedFunc) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("file", target))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			logger.Info("watcher: document changed", slog.String("file", target))
			if onChange != nil {
				onChange()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
