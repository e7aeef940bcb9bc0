package terminal

import "time"

// DefaultReleaseDelay bridges one input chunk while staying under typical
// key-repeat intervals, so a held key reads as continuously pressed
const DefaultReleaseDelay = 50 * time.Millisecond

// heldKey is the single pending release for one logical key
type heldKey struct {
	timer Timer
	gen   uint64
}

// ReleaseScheduler synthesizes keyup events: a raw byte stream only reports presses.
// Every press (re)arms one timer per logical key; repeats coalesce into a single release.
//
// Press, CancelAll and Pending must be called from the dispatch goroutine. Timer
// completions are handed to post, which must run them on that same goroutine.
type ReleaseScheduler struct {
	delay   time.Duration
	clock   Clock
	post    func(func())
	pending map[string]*heldKey
	gen     uint64
}

// NewReleaseScheduler creates a scheduler. A nil clock uses SystemClock;
// a nil post runs completions directly on the timer goroutine.
func NewReleaseScheduler(delay time.Duration, clock Clock, post func(func())) *ReleaseScheduler {
	if delay <= 0 {
		delay = DefaultReleaseDelay
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	return &ReleaseScheduler{
		delay:   delay,
		clock:   clock,
		post:    post,
		pending: make(map[string]*heldKey),
	}
}

// Delay returns the configured release delay
func (s *ReleaseScheduler) Delay() time.Duration {
	return s.delay
}

// Press schedules release(key) after the delay, cancelling any pending release for key
func (s *ReleaseScheduler) Press(key string, release func(key string)) {
	if h, ok := s.pending[key]; ok {
		h.timer.Stop()
	}

	s.gen++
	gen := s.gen
	h := &heldKey{gen: gen}
	s.pending[key] = h

	h.timer = s.clock.AfterFunc(s.delay, func() {
		s.post(func() { s.fire(key, gen, release) })
	})
}

// fire emits the release unless a later press superseded this timer
// between expiry and the completion reaching the dispatch goroutine
func (s *ReleaseScheduler) fire(key string, gen uint64, release func(key string)) {
	h, ok := s.pending[key]
	if !ok || h.gen != gen {
		return
	}
	delete(s.pending, key)
	release(key)
}

// Pending reports whether a release is scheduled for key
func (s *ReleaseScheduler) Pending(key string) bool {
	_, ok := s.pending[key]
	return ok
}

// Len returns the number of keys with a pending release
func (s *ReleaseScheduler) Len() int {
	return len(s.pending)
}

// CancelAll stops every pending timer without emitting releases
func (s *ReleaseScheduler) CancelAll() {
	for key, h := range s.pending {
		h.timer.Stop()
		delete(s.pending, key)
	}
}
