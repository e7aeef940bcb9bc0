package terminal

import (
	"io"
	"os"
)

// EmergencyReset attempts to restore terminal to sane state
// Call this from panic recovery if the session cannot be closed normally
func EmergencyReset(w io.Writer) {
	io.WriteString(w, SyncEnd)
	io.WriteString(w, CursorShow)
	io.WriteString(w, AltScreenExit)
	io.WriteString(w, SGRReset)
	io.WriteString(w, RIS)

	// Flush if it's a file
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Attempt raw mode reset via termios - escape sequences alone don't restore it
	// This is best-effort; ignore errors in crash context
	resetTerminalMode()
}
