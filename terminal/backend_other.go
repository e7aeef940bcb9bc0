//go:build !unix

package terminal

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// genericBackend uses only x/term; reads run on a helper goroutine because
// a blocking stdin read cannot be interrupted portably
type genericBackend struct {
	in      *os.File
	out     *os.File
	isTTY   bool
	oldTerm *term.State

	once   sync.Once
	dataCh chan []byte
	errCh  chan error
}

// NewBackend returns the backend for the process's stdin/stdout
func NewBackend() Backend {
	return NewFileBackend(os.Stdin, os.Stdout)
}

// NewFileBackend returns a backend reading in and writing out
func NewFileBackend(in, out *os.File) Backend {
	return &genericBackend{
		in:     in,
		out:    out,
		isTTY:  term.IsTerminal(int(in.Fd())),
		dataCh: make(chan []byte, 16),
		errCh:  make(chan error, 1),
	}
}

func (b *genericBackend) Init() error {
	if !b.isTTY {
		return nil
	}
	old, err := term.MakeRaw(int(b.in.Fd()))
	if err != nil {
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *genericBackend) Fini() {
	if b.oldTerm != nil {
		term.Restore(int(b.in.Fd()), b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *genericBackend) IsTerminal() bool {
	return b.isTTY
}

func (b *genericBackend) Size() (int, int, error) {
	return term.GetSize(int(b.out.Fd()))
}

func (b *genericBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

func (b *genericBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	b.once.Do(func() {
		go func() {
			buf := make([]byte, 256)
			for {
				n, err := b.in.Read(buf)
				if n > 0 {
					ret := make([]byte, n)
					copy(ret, buf[:n])
					b.dataCh <- ret
				}
				if err != nil {
					b.errCh <- err
					return
				}
			}
		}()
	})

	select {
	case <-stopCh:
		return nil, nil
	case data := <-b.dataCh:
		return data, nil
	case <-b.errCh:
		return nil, nil
	}
}

// SetResizeHandler is a no-op: there is no SIGWINCH outside unix
func (b *genericBackend) SetResizeHandler(handler func(width, height int)) {}

func resetTerminalMode() {}
