package main

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/vi-arcade/session"
	"github.com/lixenwraith/vi-arcade/terminal"
	"github.com/lixenwraith/vi-arcade/theme"
)

type screenBackend struct {
	mu    sync.Mutex
	out   strings.Builder
	input chan []byte
}

func (b *screenBackend) Init() error                      { return nil }
func (b *screenBackend) Fini()                            {}
func (b *screenBackend) IsTerminal() bool                 { return false }
func (b *screenBackend) Size() (int, int, error)          { return 60, 20, nil }
func (b *screenBackend) SetResizeHandler(func(w, h int)) {}

func (b *screenBackend) Write(p []byte) error {
	b.mu.Lock()
	b.out.Write(p)
	b.mu.Unlock()
	return nil
}

func (b *screenBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case c := <-b.input:
		return c, nil
	case <-stopCh:
		return nil, nil
	}
}

func (b *screenBackend) output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.String()
}

func newViewerSession(t *testing.T, themeName string) (*session.Session, *theme.Context, *screenBackend) {
	t.Helper()
	th, _ := theme.Builtin(themeName)
	themes := theme.NewContext(th)
	b := &screenBackend{input: make(chan []byte, 8)}
	sess, err := session.New(
		session.WithBackend(b),
		session.WithTheme(themes),
		session.WithTracker(session.NewBufferTracker(nil)),
		session.WithSyncOutput(false),
		session.WithSignals(false),
		session.WithExit(func(int) {}),
	)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess, themes, b
}

func TestViewer_RecordTracksHeldKeys(t *testing.T) {
	v := &viewer{held: make(map[string]bool)}

	v.record(terminal.NewKeyEvent("a", terminal.KeyDown))
	v.record(terminal.NewKeyEvent(terminal.KeyArrowUp, terminal.KeyDown))
	if !v.held["a"] || !v.held[terminal.KeyArrowUp] {
		t.Fatalf("Expected both keys held, got %v", v.held)
	}

	v.record(terminal.NewKeyEvent("a", terminal.KeyUp))
	if v.held["a"] {
		t.Error("Expected keyup to release a")
	}
	if len(v.events) != 3 {
		t.Errorf("Expected 3 logged events, got %d", len(v.events))
	}
}

func TestViewer_EventLogBounded(t *testing.T) {
	v := &viewer{held: make(map[string]bool)}
	for i := 0; i < viewerLogLines*3; i++ {
		v.record(terminal.NewKeyEvent("x", terminal.KeyDown))
	}
	if len(v.events) != viewerLogLines {
		t.Errorf("Expected %d events kept, got %d", viewerLogLines, len(v.events))
	}
}

func TestViewer_QuitOnQ(t *testing.T) {
	sess, themes, b := newViewerSession(t, "sand")

	done := make(chan struct{})
	go func() {
		runViewer(sess, themes)
		close(done)
	}()

	// Wait for the first frame before sending input
	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(b.output(), "theme=sand") {
		if time.Now().After(deadline) {
			t.Fatal("Expected initial frame")
		}
		time.Sleep(5 * time.Millisecond)
	}
	b.input <- []byte("q")

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected viewer to return on q")
	}

	out := b.output()
	if !strings.HasPrefix(out, terminal.AltScreenEnterSeq) {
		t.Errorf("Expected alt screen enter first, got %q", out[:min(len(out), 32)])
	}
	if !strings.HasSuffix(out, terminal.AltScreenExitSeq) {
		t.Errorf("Expected alt screen exit last")
	}
	// Black panel remapped to the sand background
	if strings.Contains(out, "\x1b[48;2;0;0;0m") || !strings.Contains(out, "\x1b[48;2;245;230;211m") {
		t.Error("Expected panel background remapped to theme")
	}
	if sess.Tracker().Len() != 0 {
		t.Errorf("Expected no active buffers, got %d", sess.Tracker().Len())
	}
}
