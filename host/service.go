package host

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/lixenwraith/vi-arcade/core"
	"github.com/lixenwraith/vi-arcade/session"
)

// Service runs one embedded program on the hub's session
type Service struct {
	sessions *session.Service
	prog     Program

	mu     sync.Mutex
	host   *Host
	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates the host service for prog
func NewService(sessions *session.Service, prog Program) *Service {
	return &Service{sessions: sessions, prog: prog, done: make(chan struct{})}
}

// Name implements Service
func (s *Service) Name() string {
	return "host"
}

// Dependencies implements Service
func (s *Service) Dependencies() []string {
	return []string{"session"}
}

// Init implements Service; resolves the program on PATH
func (s *Service) Init(args ...any) error {
	path, err := exec.LookPath(s.prog.Name)
	if err != nil {
		return fmt.Errorf("host: %w", err)
	}
	s.prog.Name = path
	return nil
}

// Start implements Service
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	h, err := Start(ctx, s.sessions.Session(), s.prog)
	if err != nil {
		cancel()
		return err
	}
	s.host = h
	s.cancel = cancel

	core.Go(func() {
		<-h.Done()
		close(s.done)
	})
	return nil
}

// Stop implements Service
func (s *Service) Stop() error {
	s.mu.Lock()
	h, cancel := s.host, s.cancel
	s.mu.Unlock()

	if h == nil {
		return nil
	}
	err := h.Stop()
	cancel()
	return err
}

// Done is closed when the program exits
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// ExitCode returns the program's exit status, -1 if it has not exited
func (s *Service) ExitCode() int {
	s.mu.Lock()
	h := s.host
	s.mu.Unlock()
	if h == nil {
		return -1
	}
	return h.ExitCode()
}
