package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/vi-arcade/core"
)

// DefaultDebounce coalesces the burst of events one editor save produces
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads the config file when it changes and hands the result to a callback.
// The parent directory is watched so atomic-rename saves are seen.
type Watcher struct {
	path     string
	onChange func(*Config)
	debounce time.Duration

	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for path; onChange runs on the watcher goroutine
func NewWatcher(path string, onChange func(*Config)) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Name implements Service
func (w *Watcher) Name() string {
	return "config"
}

// Dependencies implements Service
func (w *Watcher) Dependencies() []string {
	return nil
}

// Init implements Service
// args: time.Duration debounce (optional); other types are ignored
func (w *Watcher) Init(args ...any) error {
	for _, arg := range args {
		if d, ok := arg.(time.Duration); ok && d > 0 {
			w.debounce = d
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("config watcher %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw
	return nil
}

// Start implements Service
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if w.fsw == nil {
		return fmt.Errorf("config watcher: not initialized")
	}
	w.running = true
	core.Go(w.loop)
	return nil
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[config] watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		log.Printf("[config] reload failed, keeping previous settings: %v", err)
		return
	}
	log.Printf("[config] reloaded %s (theme=%s)", w.path, cfg.Theme)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Stop implements Service
func (w *Watcher) Stop() error {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	if w.fsw != nil {
		err := w.fsw.Close()
		w.fsw = nil
		return err
	}
	return nil
}
