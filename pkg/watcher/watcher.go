// Package watcher notifies the viewer when the report bundle on disk
// changes, so the table can be reloaded without restarting.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a bundle re-export
// produces into one notification.
const DefaultDebounce = 200 * time.Millisecond

// BundleWatcher watches a report bundle directory and delivers debounced
// change notifications on C.
type BundleWatcher struct {
	dir     string
	watcher *fsnotify.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	lastEvent time.Time
	debounce  time.Duration

	// C receives one empty struct per coalesced bundle change. The
	// channel is buffered; a notification arriving while a reload is
	// still pending is dropped, not queued.
	C chan struct{}
}

// New creates a watcher for the bundle directory. Call Start to begin
// receiving notifications and Stop to release the inotify handle.
func New(dir string) (*BundleWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &BundleWatcher{
		dir:      dir,
		watcher:  w,
		ctx:      ctx,
		cancel:   cancel,
		debounce: DefaultDebounce,
		C:        make(chan struct{}, 1),
	}, nil
}

// SetDebounce overrides the coalescing window. Must be called before
// Start.
func (w *BundleWatcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start begins watching the bundle directory for changes.
func (w *BundleWatcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch bundle dir: %w", err)
	}
	go w.watchLoop()
	return nil
}

// Stop shuts the watcher down. C is not closed; pending receives simply
// stop arriving.
func (w *BundleWatcher) Stop() {
	w.cancel()
	w.watcher.Close()
}

func (w *BundleWatcher) watchLoop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Only react to write/create events (not chmod, etc) on
			// regular files in the bundle.
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) == "" {
				continue
			}

			now := time.Now()
			if now.Sub(w.lastEvent) < w.debounce {
				continue
			}
			w.lastEvent = now

			select {
			case w.C <- struct{}{}:
			default:
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
