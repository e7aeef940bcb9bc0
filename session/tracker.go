package session

import (
	"log"
	"runtime"
	"sync"
	"time"
	"weak"

	"github.com/lixenwraith/vi-arcade/terminal"
)

// BufferState describes an active alternate-buffer claim
type BufferState struct {
	Reason    string
	EnteredAt time.Time
}

type bufferEntry struct {
	id    string // session id, for diagnostics after collection
	state BufferState
}

// BufferTracker records which sessions hold the alternate screen buffer.
// Sessions are referenced weakly: tracking never keeps one alive. An entry
// exists only while its session holds the buffer, and is dropped on exit,
// close or collection.
type BufferTracker struct {
	mu      sync.Mutex
	clock   terminal.Clock
	entries map[weak.Pointer[Session]]*bufferEntry
	// Sessions with a collection cleanup registered, mapped to their id
	watched map[weak.Pointer[Session]]string
}

// DefaultTracker is shared by sessions that do not supply their own
var DefaultTracker = NewBufferTracker(nil)

// NewBufferTracker creates a tracker; a nil clock uses the system clock
func NewBufferTracker(clock terminal.Clock) *BufferTracker {
	if clock == nil {
		clock = terminal.SystemClock{}
	}
	return &BufferTracker{
		clock:   clock,
		entries: make(map[weak.Pointer[Session]]*bufferEntry),
		watched: make(map[weak.Pointer[Session]]string),
	}
}

// Enter switches s to the alternate buffer, hides the cursor and clears the screen.
// Fails for a nil or closed session, or if s already holds the buffer.
func (t *BufferTracker) Enter(s *Session, reason string) bool {
	if s == nil || s.Closed() {
		log.Printf("[buffer] enter %q rejected: session is nil or closed", reason)
		return false
	}

	key := weak.Make(s)

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		log.Printf("[buffer] enter %q ignored: session %s already active for %q since %s",
			reason, e.id, e.state.Reason, e.state.EnteredAt.Format(time.RFC3339))
		return false
	}
	if _, ok := t.watched[key]; !ok {
		t.watched[key] = s.id
		runtime.AddCleanup(s, t.collect, key)
	}

	if err := s.writeRaw(terminal.AltScreenEnterSeq); err != nil {
		log.Printf("[buffer] enter %q on session %s: write failed: %v", reason, s.id, err)
	}
	t.entries[key] = &bufferEntry{id: s.id, state: BufferState{Reason: reason, EnteredAt: t.clock.Now()}}
	return true
}

// Exit leaves the alternate buffer and shows the cursor. Fails if s is not active.
func (t *BufferTracker) Exit(s *Session, reason string) bool {
	if s == nil {
		log.Printf("[buffer] exit %q rejected: nil session", reason)
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	key := weak.Make(s)
	e, ok := t.entries[key]
	if !ok {
		log.Printf("[buffer] exit %q ignored: session %s is not active", reason, s.id)
		return false
	}
	delete(t.entries, key)

	if err := s.writeRaw(terminal.AltScreenExitSeq); err != nil {
		log.Printf("[buffer] exit %q on session %s: write failed: %v", reason, e.id, err)
	}
	log.Printf("[buffer] session %s exit %q (entered for %q)", e.id, reason, e.state.Reason)
	return true
}

// ForceExit writes the exit sequence and clears state whatever the tracked
// state is. For recovery paths that cannot trust it. Fails for a nil or
// closed session, after dropping any stale entry.
func (t *BufferTracker) ForceExit(s *Session, reason string) bool {
	if s == nil {
		log.Printf("[buffer] force exit %q rejected: nil session", reason)
		return false
	}

	key := weak.Make(s)

	t.mu.Lock()
	defer t.mu.Unlock()

	held := "<none>"
	if e, ok := t.entries[key]; ok {
		held = e.state.Reason
		delete(t.entries, key)
	}

	if s.Closed() {
		log.Printf("[buffer] force exit %q rejected: session %s is closed (held by %q)", reason, s.id, held)
		return false
	}
	log.Printf("[buffer] WARNING: force exit %q on session %s (held by %q)", reason, s.id, held)

	if err := s.writeRaw(terminal.AltScreenExitSeq); err != nil {
		log.Printf("[buffer] force exit on session %s: write failed: %v", s.id, err)
	}
	return true
}

// State returns the active claim for s, if any
func (t *BufferTracker) State(s *Session) (BufferState, bool) {
	if s == nil {
		return BufferState{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[weak.Make(s)]
	if !ok {
		return BufferState{}, false
	}
	return e.state, true
}

// Remove forgets s; called from the session's own close path
func (t *BufferTracker) Remove(s *Session) {
	if s == nil {
		return
	}
	key := weak.Make(s)
	t.mu.Lock()
	delete(t.entries, key)
	delete(t.watched, key)
	t.mu.Unlock()
}

// Len returns the number of sessions holding the alternate buffer
func (t *BufferTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// watching returns the number of sessions with a collection cleanup registered
func (t *BufferTracker) watching() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.watched)
}

// collect drops the entry of a garbage-collected session
func (t *BufferTracker) collect(key weak.Pointer[Session]) {
	t.mu.Lock()
	e, ok := t.entries[key]
	delete(t.entries, key)
	delete(t.watched, key)
	t.mu.Unlock()

	if ok {
		log.Printf("[buffer] session %s collected while holding buffer for %q", e.id, e.state.Reason)
	}
}
