// @focus: #session { facade, lifecycle }
package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/google/uuid"

	"github.com/lixenwraith/vi-arcade/core"
	"github.com/lixenwraith/vi-arcade/sgr"
	"github.com/lixenwraith/vi-arcade/status"
	"github.com/lixenwraith/vi-arcade/terminal"
	"github.com/lixenwraith/vi-arcade/theme"
)

// ErrClosed is returned by writes after the session is closed
var ErrClosed = errors.New("session: closed")

// Size is a terminal dimension pair
type Size struct {
	Cols, Rows int
}

// Session is the terminal handle games draw to and read keys from.
//
// Input is dispatched on one goroutine: per chunk, keydown to OnKey listeners,
// then the raw chunk to OnData listeners, then the keyup timer is armed.
// Write may be called from any goroutine.
type Session struct {
	id      string
	backend terminal.Backend
	themes  *theme.Context
	tracker *BufferTracker
	sync    bool
	exit    func(code int)

	// Output, guarded by writeMu
	writeMu   sync.Mutex
	stream    *sgr.Stream
	theme     theme.Theme
	themeSet  bool
	transform sgr.Transform

	stats   *status.Registry
	metrics sessionMetrics

	keys    listeners[terminal.KeyEvent]
	data    listeners[string]
	resizes listeners[Size]

	// Dispatch goroutine only
	releases *terminal.ReleaseScheduler

	inputCh  chan []byte
	resizeCh chan Size
	postCh   chan func()
	stopCh   chan struct{}
	doneCh   chan struct{}
	sigCh    chan os.Signal

	closed    atomic.Bool
	closeOnce sync.Once
}

// sessionMetrics caches registry pointers used on hot paths
type sessionMetrics struct {
	writes, bytesOut       *atomic.Int64
	chunks, keyDown, keyUp *atomic.Int64
	theme, lastKey         *status.Label
}

func newSessionMetrics(r *status.Registry) sessionMetrics {
	return sessionMetrics{
		writes:   r.Counter("writes"),
		bytesOut: r.Counter("bytes_out"),
		chunks:   r.Counter("input_chunks"),
		keyDown:  r.Counter("keydown"),
		keyUp:    r.Counter("keyup"),
		theme:    r.Label("theme"),
		lastKey:  r.Label("last_key"),
	}
}

// New opens a session: raw mode when attached to a tty, input reader,
// dispatch loop and signal handlers
func New(opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = terminal.NewBackend()
	}
	if o.tracker == nil {
		o.tracker = DefaultTracker
	}
	if o.exit == nil {
		o.exit = os.Exit
	}
	if o.stats == nil {
		o.stats = status.NewRegistry()
	}

	if err := o.backend.Init(); err != nil {
		return nil, fmt.Errorf("session init: %w", err)
	}

	s := &Session{
		id:       uuid.NewString(),
		backend:  o.backend,
		themes:   o.themes,
		tracker:  o.tracker,
		sync:     o.syncOutput,
		exit:     o.exit,
		stats:    o.stats,
		metrics:  newSessionMetrics(o.stats),
		stream:   sgr.NewStream(nil),
		inputCh:  make(chan []byte, 64),
		resizeCh: make(chan Size, 4),
		postCh:   make(chan func()),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	s.keys.name = "key"
	s.data.name = "data"
	s.resizes.name = "resize"
	s.releases = terminal.NewReleaseScheduler(o.releaseDelay, o.clock, s.post)

	s.backend.SetResizeHandler(func(w, h int) {
		select {
		case s.resizeCh <- Size{Cols: w, Rows: h}:
		case <-s.stopCh:
		}
	})

	if o.signals {
		s.sigCh = make(chan os.Signal, 1)
		signal.Notify(s.sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		core.Go(s.signalLoop)
	}

	core.Go(s.readLoop)
	core.Go(s.dispatchLoop)

	log.Printf("[session %s] opened (tty=%v, sync=%v)", s.id, s.backend.IsTerminal(), s.sync)
	return s, nil
}

// ID returns the session identifier used in logs
func (s *Session) ID() string {
	return s.id
}

// Write renders p: SGR remap for the current theme, then the synchronized-output bracket
func (s *Session) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	// cleanup may have run while we waited; nothing lands after the restore
	if s.closed.Load() {
		return 0, ErrClosed
	}

	text := s.rewrite(string(p))
	if text == "" {
		return len(p), nil
	}
	if s.sync {
		text = terminal.Frame(text)
	}
	if err := s.backend.Write([]byte(text)); err != nil {
		return 0, fmt.Errorf("session write: %w", err)
	}
	s.metrics.writes.Add(1)
	s.metrics.bytesOut.Add(int64(len(text)))
	return len(p), nil
}

// WriteString is Write for strings
func (s *Session) WriteString(text string) (int, error) {
	return s.Write([]byte(text))
}

// rewrite applies the theme remap; caller holds writeMu
func (s *Session) rewrite(text string) string {
	th := s.themes.Current()
	if !s.themeSet || th != s.theme {
		s.theme = th
		s.themeSet = true
		s.transform = th.Transform()
		s.metrics.theme.Store(th.Name)
	}

	if s.transform == nil {
		if s.stream.Pending() > 0 {
			// Theme switched away from a remap mid-sequence
			return s.stream.Flush() + text
		}
		return text
	}
	s.stream.SetTransform(s.transform)
	return s.stream.Rewrite(text)
}

// writeRaw bypasses remap and framing, for control sequences.
// A held partial SGR tail is written first so it cannot follow the sequence.
func (s *Session) writeRaw(seq string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if tail := s.stream.Flush(); tail != "" {
		seq = tail + seq
	}
	return s.backend.Write([]byte(seq))
}

// Cols returns the live terminal width, 80 when unavailable
func (s *Session) Cols() int {
	w, _ := terminal.SizeOrDefault(s.backend)
	return w
}

// Rows returns the live terminal height, 24 when unavailable
func (s *Session) Rows() int {
	_, h := terminal.SizeOrDefault(s.backend)
	return h
}

// OnKey subscribes to keydown and synthetic keyup events
func (s *Session) OnKey(fn func(terminal.KeyEvent)) *Subscription {
	return s.keys.add(fn)
}

// OnData subscribes to raw input chunks
func (s *Session) OnData(fn func(string)) *Subscription {
	return s.data.add(fn)
}

// OnResize subscribes to terminal size changes
func (s *Session) OnResize(fn func(Size)) *Subscription {
	return s.resizes.add(fn)
}

// Element is non-nil while the session is open and accepting writes
func (s *Session) Element() terminal.Backend {
	if s == nil || s.closed.Load() {
		return nil
	}
	return s.backend
}

// Closed reports whether cleanup has run
func (s *Session) Closed() bool {
	return s.closed.Load()
}

// Done is closed once cleanup has completed
func (s *Session) Done() <-chan struct{} {
	return s.doneCh
}

// Stats returns the session's counters and labels
func (s *Session) Stats() *status.Registry {
	return s.stats
}

// Tracker returns the buffer tracker this session reports to
func (s *Session) Tracker() *BufferTracker {
	return s.tracker
}

// EnterAltScreen claims the alternate buffer through the session's tracker
func (s *Session) EnterAltScreen(reason string) bool {
	return s.tracker.Enter(s, reason)
}

// ExitAltScreen releases the alternate buffer through the session's tracker
func (s *Session) ExitAltScreen(reason string) bool {
	return s.tracker.Exit(s, reason)
}

// Close restores the terminal. Safe to call multiple times and from listeners.
func (s *Session) Close() error {
	s.cleanup("close")
	return nil
}

// cleanup runs exactly once across Close, Ctrl-C and signal paths
func (s *Session) cleanup(reason string) {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stopCh)

		if s.sigCh != nil {
			signal.Stop(s.sigCh)
		}

		s.backend.Fini()

		s.writeMu.Lock()
		// A held partial sequence is dropped rather than merged into the restore
		s.stream.Flush()
		if err := s.backend.Write([]byte(terminal.RestoreSeq)); err != nil {
			log.Printf("[session %s] restore write failed: %v", s.id, err)
		}
		s.writeMu.Unlock()

		s.tracker.Remove(s)
		log.Printf("[session %s] closed (%s): %s", s.id, reason, s.stats)
		close(s.doneCh)
	})
}

// interrupt is the Ctrl-C path; it runs on the reader goroutine
func (s *Session) interrupt() {
	log.Printf("[session %s] ctrl-c", s.id)
	s.cleanup("interrupt")
	s.exit(0)
}

func (s *Session) signalLoop() {
	select {
	case sig := <-s.sigCh:
		log.Printf("[session %s] signal %v", s.id, sig)
		s.cleanup("signal " + sig.String())
		code := 1
		if n, ok := sig.(syscall.Signal); ok {
			code = 128 + int(n)
		}
		s.exit(code)
	case <-s.stopCh:
	}
}

// readLoop forwards input chunks to the dispatch goroutine.
// Ctrl-C is handled here so it works even if a listener blocks dispatch.
func (s *Session) readLoop() {
	for {
		chunk, err := s.backend.Read(s.stopCh)
		if err != nil {
			if !s.closed.Load() {
				log.Printf("[session %s] input read failed: %v", s.id, err)
			}
			return
		}
		if chunk == nil {
			return
		}
		if terminal.IsInterrupt(chunk) {
			s.interrupt()
			return
		}

		select {
		case s.inputCh <- chunk:
		case <-s.stopCh:
			return
		}
	}
}

func (s *Session) dispatchLoop() {
	defer s.releases.CancelAll()

	for {
		select {
		case <-s.stopCh:
			return
		case chunk := <-s.inputCh:
			s.handleChunk(chunk)
		case sz := <-s.resizeCh:
			s.resizes.dispatch(sz)
		case fn := <-s.postCh:
			fn()
		}
	}
}

func (s *Session) handleChunk(chunk []byte) {
	text := string(chunk)
	key := terminal.DecodeKey(text)
	s.metrics.chunks.Add(1)
	s.metrics.keyDown.Add(1)
	s.metrics.lastKey.Store(key)

	s.keys.dispatch(terminal.NewKeyEvent(key, terminal.KeyDown))
	s.data.dispatch(text)

	if s.closed.Load() {
		return
	}
	s.releases.Press(key, s.release)
}

func (s *Session) release(key string) {
	s.metrics.keyUp.Add(1)
	s.keys.dispatch(terminal.NewKeyEvent(key, terminal.KeyUp))
}

// post hands a timer completion to the dispatch goroutine
func (s *Session) post(fn func()) {
	select {
	case s.postCh <- fn:
	case <-s.stopCh:
	}
}
