package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/rewired-gh/lottostat/internal/logger"
)

// Watcher reloads a game whenever its result file changes on disk. Remote
// sources are not watched.
//
// Editors and downloaders tend to write a file in several steps, so reloads are
// debounced: a game is reloaded once no event for its file arrived for the
// debounce interval.
type Watcher struct {
	loader   *Loader
	debounce time.Duration
	onReload func(game string, report ParseReport, err error)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a watcher for every source of l. onReload, when non-nil, is
// called after each reload attempt.
func NewWatcher(l *Loader, debounce time.Duration, onReload func(game string, report ParseReport, err error)) *Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		loader:   l,
		debounce: debounce,
		onReload: onReload,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	// Watch directories rather than files so atomic replace-by-rename is seen.
	files := make(map[string]string)
	dirs := make(map[string]bool)
	for _, src := range w.loader.Sources() {
		if isRemote(src.Path) {
			continue
		}
		abs, absErr := filepath.Abs(src.Path)
		if absErr != nil {
			return fmt.Errorf("failed to resolve %s: %w", src.Path, absErr)
		}
		files[abs] = src.Game.Name
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.Debug("Watching %s for result file changes", dir)
	}

	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, absErr := filepath.Abs(event.Name)
			if absErr != nil {
				continue
			}
			if game, watched := files[abs]; watched {
				w.schedule(ctx, game)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error: %v", watchErr)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, game string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, exists := w.timers[game]; exists {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.timers[game] != timer {
			// superseded by a later event
			w.mu.Unlock()
			return
		}
		delete(w.timers, game)
		w.mu.Unlock()

		report, err := w.loader.Reload(ctx, game)
		if err != nil {
			logger.Warn("Failed to reload %s: %v", game, err)
		}
		if w.onReload != nil {
			w.onReload(game, report, err)
		}
	})
	w.timers[game] = timer
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for game, t := range w.timers {
		t.Stop()
		delete(w.timers, game)
	}
}
