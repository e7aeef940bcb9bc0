package session

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/vi-arcade/config"
	"github.com/lixenwraith/vi-arcade/theme"
)

// Service owns the process session for the service hub
type Service struct {
	themes *theme.Context
	extra  []Option

	mu   sync.Mutex
	sess *Session
}

// NewService creates a session service rendering with themes
func NewService(themes *theme.Context, opts ...Option) *Service {
	return &Service{themes: themes, extra: opts}
}

// Name implements Service
func (s *Service) Name() string {
	return "session"
}

// Dependencies implements Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements Service
// args: *config.Config (optional) supplies sync output and key-release delay
func (s *Service) Init(args ...any) error {
	opts := []Option{WithTheme(s.themes)}
	for _, arg := range args {
		if cfg, ok := arg.(*config.Config); ok {
			opts = append(opts, WithSyncOutput(cfg.SyncOutput), WithReleaseDelay(cfg.KeyReleaseDelay()))
		}
	}
	opts = append(opts, s.extra...)

	sess, err := New(opts...)
	if err != nil {
		return fmt.Errorf("session service: %w", err)
	}
	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()
	return nil
}

// Start implements Service; input goroutines already run from Init
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return fmt.Errorf("session service: not initialized")
	}
	return nil
}

// Stop implements Service
func (s *Service) Stop() error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()

	if sess != nil {
		return sess.Close()
	}
	return nil
}

// Session returns the open session, nil before Init
func (s *Service) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}
