// Package watch re-runs the update operation whenever the container image
// changes on disk. It lets an operator drop a new firmware image into place
// and have the medium converge without re-invoking the CLI.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/klatu-labs/wincloner/internal/cloner"
	"github.com/klatu-labs/wincloner/pkg/log"
)

// Updater runs one update pass from the container at path.
// *cloner.Engine satisfies it.
type Updater interface {
	Update(path string) (cloner.Stats, error)
}

// Watcher monitors one container image via fsnotify and triggers updates.
type Watcher struct {
	updater  Updater
	path     string
	debounce time.Duration
	log      log.Logger

	mu    sync.Mutex
	timer *time.Timer

	// updateMu serializes update passes. The engine reuses its scratch
	// buffers across operations and is not safe for concurrent use, and a
	// rearmed debounce timer can fire while a previous pass is still
	// running.
	updateMu sync.Mutex
}

// New creates a watcher for the container image at path.
func New(updater Updater, path string, debounce time.Duration, logger log.Logger) *Watcher {
	return &Watcher{
		updater:  updater,
		path:     path,
		debounce: debounce,
		log:      logger,
	}
}

// Run blocks until ctx is cancelled, running one update up front and one
// after each (debounced) change to the image. Update failures are logged
// and watching continues; the next image change retries.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and download tools
	// typically replace the file, which would invalidate a file watch.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.runUpdate()

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleUpdate()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", log.Err(err))
		}
	}
}

// scheduleUpdate arms the debounce timer, restarting it if already armed.
func (w *Watcher) scheduleUpdate() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.runUpdate)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) runUpdate() {
	w.updateMu.Lock()
	defer w.updateMu.Unlock()

	st, err := w.updater.Update(w.path)
	if err != nil {
		w.log.Error("update failed", log.String("container", w.path), log.Err(err))
		return
	}
	w.log.Info("image synchronized",
		log.String("container", w.path),
		log.Int("rewritten", st.Rewritten),
		log.Int("unchanged", st.Unchanged),
		log.Int("skipped", st.Skipped),
	)
}
