package tour

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher keeps the latest valid tour of a file, reloading it when the
// file changes. A broken edit keeps the previous tour.
type Watcher struct {
	path     string
	log      *zap.Logger
	debounce time.Duration

	mu       sync.RWMutex
	current  *Tour
	handlers []func(*Tour)
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	reloads  int
}

// NewWatcher loads path once and prepares to watch it.
func NewWatcher(path string, log *zap.Logger) (*Watcher, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		path:     path,
		log:      log,
		debounce: 200 * time.Millisecond,
		current:  t,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Current returns the latest valid tour.
func (w *Watcher) Current() *Tour {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reloads returns how many times the tour was replaced.
func (w *Watcher) Reloads() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.reloads
}

// OnChange registers fn to run after every successful reload.
func (w *Watcher) OnChange(fn func(*Tour)) {
	w.mu.Lock()
	w.handlers = append(w.handlers, fn)
	w.mu.Unlock()
}

// Start watches the directory of the tour file, so editors that replace
// the file by renaming are noticed too. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tour: watch %s: %w", w.path, err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("tour: watch %s: %w", w.path, err)
	}
	w.watcher = fw
	w.running = true
	go w.run(ctx)
	w.log.Info("watching tour file", zap.String("path", w.path))
	return nil
}

// Stop ends watching and waits for the watch goroutine to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.log.Warn("closing tour watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce rapid saves
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("tour watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

// reload parses the file again and publishes the result if it is usable.
func (w *Watcher) reload() {
	t, err := Load(w.path)
	if err != nil {
		w.log.Warn("tour reload failed, keeping previous tour", zap.Error(err))
		return
	}
	for _, issue := range t.Issues {
		w.log.Warn("tour content problem", zap.String("issue", issue.String()))
	}

	w.mu.Lock()
	w.current = t
	w.reloads++
	handlers := make([]func(*Tour), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.log.Info("tour reloaded", zap.Int("scenes", len(t.Scenes)))
	for _, fn := range handlers {
		fn(t)
	}
}
