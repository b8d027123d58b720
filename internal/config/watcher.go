package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/logging"
)

// DefaultDebounce is how long the watcher waits after the last file event
// before reloading. Editors and our own atomic save emit bursts of events.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a file-backed Store when its file changes on disk.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onReload func(error)

	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
	stopped bool
}

// NewWatcher starts watching the directory holding the store's file.
// The directory is watched rather than the file because Save replaces the
// file with a rename, which would end a watch on the old inode.
// onReload, if non-nil, is called after every reload and with the error
// when a change could not be applied (IsConflict while the store has
// unsaved changes). File events that leave the content as last saved,
// including the store's own saves, are not reported.
func NewWatcher(store *Store, debounce time.Duration, onReload func(error)) (*Watcher, error) {
	if store.FilePath() == "" {
		return nil, fmt.Errorf("store has no backing file to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(store.FilePath())
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		store:    store,
		watcher:  fsw,
		debounce: debounce,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.loop()

	logging.Info("Watching config file for changes", zap.String("path", store.FilePath()))
	return w, nil
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.store.FilePath())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn("Config watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	changed, err := w.store.ReloadFromDisk()
	switch {
	case IsConflict(err):
		logging.Warn("Config file changed on disk, keeping unsaved changes",
			zap.String("path", w.store.FilePath()),
		)
	case err != nil:
		logging.Warn("Failed to reload config after file change",
			zap.String("path", w.store.FilePath()),
			zap.Error(err),
		)
	case !changed:
		return
	default:
		logging.Info("Config file changed on disk, reloaded", zap.String("path", w.store.FilePath()))
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	w.watcher.Close()
}
