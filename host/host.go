// @focus: #host { pty }
package host

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/creack/pty"

	"github.com/lixenwraith/vi-arcade/core"
	"github.com/lixenwraith/vi-arcade/session"
)

// drainTimeout bounds how long output is read after the program exits;
// a background descendant may keep the pty open
const drainTimeout = 500 * time.Millisecond

// Program describes the embedded command
type Program struct {
	Name string
	Args []string
	Env  []string // appended to the host environment
	Dir  string
}

// Host runs a program on a pty attached to a session. Program output goes
// through Session.Write, so it is theme-remapped and sync-framed; session
// input is forwarded to the program.
type Host struct {
	sess    *session.Session
	prog    Program
	reason  string
	claimed bool

	cmd  *exec.Cmd
	ptmx *os.File
	subs []*session.Subscription

	pumpDone chan struct{}
	done     chan struct{}
	err      error
	stopOnce sync.Once
}

// Start launches prog sized to the session and claims the alternate buffer
func Start(ctx context.Context, sess *session.Session, prog Program) (*Host, error) {
	if sess == nil || sess.Closed() {
		return nil, session.ErrClosed
	}

	cmd := exec.CommandContext(ctx, prog.Name, prog.Args...)
	cmd.Env = append(append(os.Environ(), "TERM=xterm-256color"), prog.Env...)
	cmd.Dir = prog.Dir

	h := &Host{
		sess:     sess,
		prog:     prog,
		reason:   "host:" + prog.Name,
		cmd:      cmd,
		pumpDone: make(chan struct{}),
		done:     make(chan struct{}),
	}

	h.claimed = sess.EnterAltScreen(h.reason)
	if !h.claimed {
		log.Printf("[host] %s: alternate buffer already claimed, drawing anyway", prog.Name)
	}

	ptmx, err := pty.StartWithSize(cmd, winsize(sess.Cols(), sess.Rows()))
	if err != nil {
		if h.claimed {
			sess.ExitAltScreen(h.reason)
		}
		return nil, fmt.Errorf("host start %s: %w", prog.Name, err)
	}
	h.ptmx = ptmx

	h.subs = append(h.subs,
		sess.OnData(h.forwardInput),
		sess.OnResize(h.resize),
	)

	core.Go(h.pump)
	core.Go(h.wait)

	log.Printf("[host] started %s (pid %d)", prog.Name, cmd.Process.Pid)
	return h, nil
}

func winsize(cols, rows int) *pty.Winsize {
	return &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
}

// pump copies program output into the session
func (h *Host) pump() {
	defer close(h.pumpDone)
	read := h.sess.Stats().Counter("host_bytes_read")
	buf := make([]byte, 32*1024)
	for {
		n, err := h.ptmx.Read(buf)
		if n > 0 {
			read.Add(int64(n))
			if _, werr := h.sess.Write(buf[:n]); werr != nil {
				if !errors.Is(werr, session.ErrClosed) {
					log.Printf("[host] %s: write: %v", h.prog.Name, werr)
				}
				return
			}
		}
		if err != nil {
			// EIO once the child side closes
			return
		}
	}
}

func (h *Host) wait() {
	h.err = h.cmd.Wait()

	select {
	case <-h.pumpDone:
	case <-time.After(drainTimeout):
	}
	h.ptmx.Close()
	<-h.pumpDone

	for _, sub := range h.subs {
		sub.Dispose()
	}
	if h.claimed && !h.sess.Closed() {
		h.sess.ExitAltScreen(h.reason)
	}

	log.Printf("[host] %s exited: %v", h.prog.Name, h.err)
	close(h.done)
}

func (h *Host) forwardInput(data string) {
	if _, err := h.ptmx.WriteString(data); err != nil {
		log.Printf("[host] %s: input: %v", h.prog.Name, err)
	}
}

func (h *Host) resize(sz session.Size) {
	if err := pty.Setsize(h.ptmx, winsize(sz.Cols, sz.Rows)); err != nil {
		log.Printf("[host] %s: resize: %v", h.prog.Name, err)
	}
}

// Done is closed after the program exits and the buffer is released
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the program exits and returns its exit error
func (h *Host) Wait() error {
	<-h.done
	return h.err
}

// ExitCode returns the program's exit status, -1 while running
func (h *Host) ExitCode() int {
	select {
	case <-h.done:
	default:
		return -1
	}
	if h.cmd.ProcessState == nil {
		return -1
	}
	return h.cmd.ProcessState.ExitCode()
}

// Stop kills the program and waits for teardown
func (h *Host) Stop() error {
	h.stopOnce.Do(func() {
		select {
		case <-h.done:
			return
		default:
		}
		if h.cmd.Process != nil {
			if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				log.Printf("[host] %s: kill: %v", h.prog.Name, err)
			}
		}
	})
	<-h.done
	return nil
}
