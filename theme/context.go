package theme

import (
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vi-arcade/sgr"
)

// Context holds the active theme for a session. Last writer wins.
type Context struct {
	current atomic.Pointer[Theme]

	mu        sync.Mutex
	listeners []func(Theme)
}

// NewContext creates a context holding t
func NewContext(t Theme) *Context {
	c := &Context{}
	c.current.Store(&t)
	return c
}

// Current returns the active theme; a nil context reports the default theme
func (c *Context) Current() Theme {
	if c == nil {
		t, _ := Builtin(DefaultName)
		return t
	}
	return *c.current.Load()
}

// Set replaces the active theme and notifies subscribers
func (c *Context) Set(t Theme) {
	c.current.Store(&t)

	c.mu.Lock()
	snapshot := make([]func(Theme), len(c.listeners))
	copy(snapshot, c.listeners)
	c.mu.Unlock()

	for _, fn := range snapshot {
		fn(t)
	}
}

// Subscribe registers fn for theme changes
func (c *Context) Subscribe(fn func(Theme)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Transform returns the SGR remap for the theme, nil when output needs none
func (t Theme) Transform() sgr.Transform {
	switch t.Kind() {
	case KindLight:
		return sgr.NewLight(t.Background.Background, t.Highlight)
	case KindDark:
		return sgr.NewDark(t.Background.Background)
	default:
		return nil
	}
}
