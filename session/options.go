package session

import (
	"os"
	"time"

	"github.com/lixenwraith/vi-arcade/status"
	"github.com/lixenwraith/vi-arcade/terminal"
	"github.com/lixenwraith/vi-arcade/theme"
)

type options struct {
	backend      terminal.Backend
	themes       *theme.Context
	tracker      *BufferTracker
	clock        terminal.Clock
	releaseDelay time.Duration
	syncOutput   bool
	signals      bool
	exit         func(code int)
	stats        *status.Registry
}

func defaultOptions() options {
	return options{
		syncOutput: true,
		signals:    true,
		exit:       os.Exit,
	}
}

// Option configures a Session
type Option func(*options)

// WithBackend sets the terminal backend (default: process stdin/stdout)
func WithBackend(b terminal.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithTheme sets the theme context consulted on every write
func WithTheme(c *theme.Context) Option {
	return func(o *options) { o.themes = c }
}

// WithTracker sets the buffer tracker (default: DefaultTracker)
func WithTracker(t *BufferTracker) Option {
	return func(o *options) { o.tracker = t }
}

// WithClock sets the clock driving key-release timers
func WithClock(c terminal.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithReleaseDelay sets the synthetic keyup delay
func WithReleaseDelay(d time.Duration) Option {
	return func(o *options) { o.releaseDelay = d }
}

// WithSyncOutput toggles the synchronized-output bracket around writes
func WithSyncOutput(enabled bool) Option {
	return func(o *options) { o.syncOutput = enabled }
}

// WithSignals toggles SIGINT/SIGTERM/SIGHUP handling
func WithSignals(enabled bool) Option {
	return func(o *options) { o.signals = enabled }
}

// WithExit replaces the process exit used after Ctrl-C or a signal
func WithExit(fn func(code int)) Option {
	return func(o *options) { o.exit = fn }
}

// WithStats sets the metrics registry (default: a fresh one per session)
func WithStats(r *status.Registry) Option {
	return func(o *options) { o.stats = r }
}
