package terminal

import "errors"

// ErrNotTerminal is returned by backends that need a tty for an operation
var ErrNotTerminal = errors.New("terminal: not a terminal")

// Backend abstracts platform-specific terminal operations.
// The unix backend drives a real tty; tests substitute an in-memory one.
type Backend interface {
	// Lifecycle
	// Init enters raw mode when attached to a terminal; otherwise it is a no-op
	Init() error
	// Fini restores cooked mode. Safe to call multiple times
	Fini()

	// Capabilities
	IsTerminal() bool
	// Size returns current dimensions, or an error if they are unavailable
	Size() (width, height int, err error)

	// I/O
	// Write writes raw bytes to the terminal output.
	Write(p []byte) error

	// Read blocks until input is available, the stop channel is closed, or an error occurs.
	// A nil slice with nil error means stop or EOF.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}

// Default dimensions when the backend cannot report a size
const (
	DefaultCols = 80
	DefaultRows = 24
)

// SizeOrDefault queries b and falls back to 80x24 on error or zero values
func SizeOrDefault(b Backend) (int, int) {
	w, h, err := b.Size()
	if err != nil || w <= 0 || h <= 0 {
		return DefaultCols, DefaultRows
	}
	return w, h
}
