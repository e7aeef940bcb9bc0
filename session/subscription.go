package session

import (
	"log"
	"runtime/debug"
	"sync"
)

// Subscription is returned by the On* methods; Dispose removes the listener
type Subscription struct {
	once    sync.Once
	dispose func()
}

// Dispose stops further deliveries. A dispatch already in progress completes.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(s.dispose)
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

// listeners is an ordered subscriber list; dispatch iterates a snapshot
type listeners[T any] struct {
	name    string
	mu      sync.Mutex
	nextID  uint64
	entries []listener[T]
}

func (l *listeners[T]) add(fn func(T)) *Subscription {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listener[T]{id: id, fn: fn})
	l.mu.Unlock()

	return &Subscription{dispose: func() { l.remove(id) }}
}

func (l *listeners[T]) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) snapshot() []listener[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	out := make([]listener[T], len(l.entries))
	copy(out, l.entries)
	return out
}

// dispatch delivers v to every listener; a panicking listener is logged and skipped
func (l *listeners[T]) dispatch(v T) {
	for _, e := range l.snapshot() {
		l.call(e.fn, v)
	}
}

func (l *listeners[T]) call(fn func(T), v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[session] %s listener panicked: %v\n%s", l.name, r, debug.Stack())
		}
	}()
	fn(v)
}
