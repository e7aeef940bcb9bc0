package main

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lixenwraith/vi-arcade/session"
	"github.com/lixenwraith/vi-arcade/terminal"
	"github.com/lixenwraith/vi-arcade/theme"
)

const viewerLogLines = 12

// viewer is the built-in screen shown when no program is given: held keys and
// recent key events, drawn with a black panel so the theme remap is visible.
type viewer struct {
	sess   *session.Session
	themes *theme.Context

	// Key listeners and theme reloads run on different goroutines
	mu      sync.Mutex
	held    map[string]bool
	events  []string
	stopped bool
}

func runViewer(sess *session.Session, themes *theme.Context) {
	if sess == nil {
		return
	}
	if !sess.EnterAltScreen("viewer") {
		return
	}
	defer sess.ExitAltScreen("viewer")

	v := &viewer{sess: sess, themes: themes, held: make(map[string]bool)}
	defer v.stop()

	quit := make(chan struct{})
	var once sync.Once

	keys := sess.OnKey(func(ev terminal.KeyEvent) {
		v.record(ev)
		v.draw()
		if ev.DomEvent.Type == terminal.KeyDown && (ev.Key == "q" || ev.Key == terminal.KeyEscape) {
			once.Do(func() { close(quit) })
		}
	})
	defer keys.Dispose()
	resizes := sess.OnResize(func(session.Size) { v.draw() })
	defer resizes.Dispose()

	themes.Subscribe(func(theme.Theme) { v.draw() })

	v.draw()
	select {
	case <-quit:
	case <-sess.Done():
	}
}

// stop ends drawing; the theme subscription outlives the viewer
func (v *viewer) stop() {
	v.mu.Lock()
	v.stopped = true
	v.mu.Unlock()
}

func (v *viewer) record(ev terminal.KeyEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch ev.DomEvent.Type {
	case terminal.KeyDown:
		v.held[ev.Key] = true
	case terminal.KeyUp:
		delete(v.held, ev.Key)
	}

	line := fmt.Sprintf("%-7s %-12q code=%-11s keyCode=%d", ev.DomEvent.Type, ev.Key, ev.DomEvent.Code, ev.DomEvent.KeyCode)
	v.events = append(v.events, line)
	if len(v.events) > viewerLogLines {
		v.events = v.events[len(v.events)-viewerLogLines:]
	}
}

func (v *viewer) draw() {
	if v.sess.Closed() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.stopped {
		return
	}

	cols, rows := v.sess.Cols(), v.sess.Rows()
	th := v.themes.Current()

	held := make([]string, 0, len(v.held))
	for k := range v.held {
		held = append(held, fmt.Sprintf("%q", k))
	}
	sort.Strings(held)

	lines := []string{
		fmt.Sprintf("vi-arcade  theme=%s (%s)  %dx%d", th.Name, th.Kind(), cols, rows),
		"press keys; q or Escape quits, Ctrl-C exits",
		"",
		"held: " + strings.Join(held, " "),
		v.sess.Stats().String(),
		"",
	}
	lines = append(lines, v.events...)

	var sb strings.Builder
	sb.WriteString(terminal.Home)
	for i, line := range lines {
		if i >= rows {
			break
		}
		if len(line) > cols {
			line = line[:cols]
		}
		// Black panel and white text are what the light remap rewrites
		sb.WriteString("\x1b[48;2;0;0;0m\x1b[38;2;255;255;255m")
		sb.WriteString(line)
		sb.WriteString(strings.Repeat(" ", cols-len(line)))
		sb.WriteString(terminal.SGRReset)
		if i < len(lines)-1 && i < rows-1 {
			sb.WriteString("\r\n")
		}
	}
	sb.WriteString("\x1b[J")
	v.sess.WriteString(sb.String())
}
